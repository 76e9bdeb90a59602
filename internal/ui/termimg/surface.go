package termimg

import (
	"image"
	"sync"
)

// Surface shows one image at a time in a fixed cell area. A new frame is
// only encoded when its key changes, so redraws that keep the same frame
// cost a placement at most.
type Surface struct {
	mu sync.Mutex

	proto  Protocol
	key    string
	id     uint32
	width  int
	height int

	// pending holds one-time commands (delete, transmit) that have not
	// been written to the terminal yet.
	pending string
}

// NewSurface creates a surface drawing through proto. A nil proto disables
// images; the surface then only reserves blank space.
func NewSurface(proto Protocol) *Surface {
	return &Surface{proto: proto}
}

// Protocol returns the protocol in use, or nil.
func (s *Surface) Protocol() Protocol { return s.proto }

// SetSize sets the area in cells. Changing it forces the next frame to be
// encoded again.
func (s *Surface) SetSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width != width || s.height != height {
		s.width, s.height = width, height
		s.key = ""
	}
}

// Size returns the area in cells.
func (s *Surface) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// PixelSize returns the pixel size frames should be rendered at.
func (s *Surface) PixelSize() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proto == nil {
		return 0, 0
	}
	return s.proto.TargetPixelSize(s.width, s.height)
}

// Current returns the key of the displayed frame.
func (s *Surface) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// Show displays img under key. It is a no-op when key is already shown.
func (s *Surface) Show(key string, img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.proto == nil || key == s.key {
		return nil
	}

	if s.id != 0 {
		s.pending += s.proto.Delete(s.id)
	}
	id := NextID()
	cmd, err := s.proto.Prepare(img, id)
	if err != nil {
		s.id = 0
		s.key = ""
		return err
	}
	s.id = id
	s.key = key
	s.pending += cmd
	return nil
}

// Clear removes the displayed frame.
func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proto != nil && s.id != 0 {
		s.pending += s.proto.Delete(s.id)
	}
	s.id = 0
	s.key = ""
}

// Block returns the layout text for the area.
func (s *Surface) Block() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proto == nil || s.id == 0 {
		return Blank(s.width, s.height)
	}
	return s.proto.Block(s.id, s.width, s.height)
}

// Commands returns pending one-time commands followed by the placement at
// the 1-based cell (row, col). Pending commands are returned only once.
func (s *Surface) Commands(row, col int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = ""
	if s.proto != nil && s.id != 0 {
		out += s.proto.Place(s.id, row, col, s.width, s.height)
	}
	return out
}
