package preview

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/rook-computer/mapcanvas/internal/host"
)

// PNGDir writes every published frame to Dir as map-<id>-<viewer>.png,
// replacing the previous frame of the same canvas.
type PNGDir struct {
	Dir string
}

func NewPNGDir(dir string) (*PNGDir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create png dir: %w", err)
	}
	return &PNGDir{Dir: dir}, nil
}

// Path returns the file a canvas is written to.
func (p *PNGDir) Path(mapID int, viewer string) string {
	return filepath.Join(p.Dir, fmt.Sprintf("map-%d-%s.png", mapID, filepath.Base(viewer)))
}

func (p *PNGDir) Publish(frame host.Frame) error {
	path := p.Path(frame.MapID, string(frame.Viewer))
	tmp, err := os.CreateTemp(p.Dir, ".frame-*.png")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, frame.Image); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
