package system

import "encoding/binary"

const evKey = 0x01

// Linux input-event-codes.h
const (
	KeyEsc = 1
	KeyQ   = 16
	KeyF4  = 62
)

// DefaultExitKeys end the framebuffer preview.
var DefaultExitKeys = []uint16{KeyEsc, KeyQ, KeyF4}

// keyPressed scans a buffer of input_event records (a timeval of tvSize
// bytes, then u16 type, u16 code, s32 value) for a press of one of keys.
func keyPressed(buf []byte, tvSize int, keys []uint16) (uint16, bool) {
	eventSize := tvSize + 2 + 2 + 4
	for off := 0; off+eventSize <= len(buf); off += eventSize {
		rec := buf[off : off+eventSize]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if typ != evKey || value != 1 {
			continue
		}
		for _, k := range keys {
			if code == k {
				return code, true
			}
		}
	}
	return 0, false
}
