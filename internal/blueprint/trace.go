package blueprint

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/ironsheep/blueprint-tools/internal/imaging"
)

// Names of the intermediate images recorded by ExtractWithTrace.
const (
	TraceThreshold     = "threshold.png"
	TraceTextMask      = "text_mask.png"
	TraceWallMask      = "wall_mask.png"
	TraceTextOnly      = "text_only.png"
	TraceTextRemoved   = "text_removed_result.png"
	TraceSegmentMask   = "segment_mask.png"
	TraceWallLines     = "wall_lines.png"
	TraceDetectedLines = "detected_lines.png"
	TraceDebug         = "debug.png"
	TraceCombined      = "combined_detection.png"
)

// Trace collects the intermediate rasters of one extraction, in the order
// they were produced.
type Trace struct {
	names  []string
	images map[string]image.Image
}

// NewTrace returns an empty trace.
func NewTrace() *Trace {
	return &Trace{images: make(map[string]image.Image)}
}

// Add records img under name, replacing any earlier image with that name.
func (t *Trace) Add(name string, img image.Image) {
	if _, ok := t.images[name]; !ok {
		t.names = append(t.names, name)
	}
	t.images[name] = img
}

// AddMask records a mask as a black and white image.
func (t *Trace) AddMask(name string, m *imaging.Mask) {
	t.Add(name, m.Image())
}

// Image returns the image recorded under name, or nil.
func (t *Trace) Image(name string) image.Image {
	return t.images[name]
}

// Names lists the recorded image names in insertion order.
func (t *Trace) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// WriteDir saves every recorded image into dir, creating it if needed.
func (t *Trace) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create trace directory: %w", err)
	}
	for _, name := range t.names {
		if err := imaging.Save(filepath.Join(dir, name), t.images[name]); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
