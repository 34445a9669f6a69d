package system

import (
	"encoding/binary"
	"testing"

	"github.com/rook-computer/mapcanvas/internal/testutil/assert"
)

func inputEvent(tvSize int, typ, code uint16, value int32) []byte {
	rec := make([]byte, tvSize+8)
	binary.LittleEndian.PutUint16(rec[tvSize:], typ)
	binary.LittleEndian.PutUint16(rec[tvSize+2:], code)
	binary.LittleEndian.PutUint32(rec[tvSize+4:], uint32(value))
	return rec
}

func TestKeyPressed(t *testing.T) {
	const tvSize = 16

	for _, tc := range []struct {
		name   string
		events [][]byte
		code   uint16
		ok     bool
	}{
		{
			name:   "press",
			events: [][]byte{inputEvent(tvSize, evKey, KeyQ, 1)},
			code:   KeyQ,
			ok:     true,
		},
		{
			name:   "release is ignored",
			events: [][]byte{inputEvent(tvSize, evKey, KeyEsc, 0)},
		},
		{
			name:   "other key",
			events: [][]byte{inputEvent(tvSize, evKey, 30, 1)},
		},
		{
			name:   "not a key event",
			events: [][]byte{inputEvent(tvSize, 0x02, KeyF4, 1)},
		},
		{
			name: "second record",
			events: [][]byte{
				inputEvent(tvSize, 0x00, 0, 0),
				inputEvent(tvSize, evKey, KeyF4, 1),
			},
			code: KeyF4,
			ok:   true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf []byte
			for _, e := range tc.events {
				buf = append(buf, e...)
			}
			code, ok := keyPressed(buf, tvSize, DefaultExitKeys)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.code, code)
		})
	}

	// A truncated record is not parsed.
	_, ok := keyPressed(inputEvent(tvSize, evKey, KeyQ, 1)[:10], tvSize, DefaultExitKeys)
	assert.False(t, ok)
}

func TestConsoleRestoreWithoutGraphics(t *testing.T) {
	var c Console
	assert.NoError(t, c.Restore())
}
