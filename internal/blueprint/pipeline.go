package blueprint

import (
	"fmt"
	"image"
	"sync"

	"github.com/ironsheep/blueprint-tools/internal/config"
	"github.com/ironsheep/blueprint-tools/internal/imaging"
)

// Extractor runs the raster to model pipeline with a fixed configuration.
// An Extractor holds no mutable state and may be shared between goroutines.
type Extractor struct {
	cfg config.Config
}

// NewExtractor returns an Extractor using cfg, or the defaults when cfg is
// nil. The configuration is copied.
func NewExtractor(cfg *config.Config) *Extractor {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Extractor{cfg: *cfg}
}

// Config returns a copy of the extractor's configuration.
func (e *Extractor) Config() config.Config {
	return e.cfg
}

// ExtractFile loads a PNG or JPEG and extracts its model. Load failures are
// returned as *imaging.LoadError.
func (e *Extractor) ExtractFile(path string) (*Model, error) {
	img, err := imaging.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return e.Extract(img)
}

// Extract builds the model for img.
//
// Parameters:
//   - img: Any decoded image. It is converted to grayscale internally and
//     is not modified.
//
// Returns:
//   - *Model: Walls, segments, rooms and the image dimensions. An image
//     without any recognisable structure yields empty lists, not an error.
//   - error: Non-nil if segment detection fails.
//
// The stages run in order: text removal, ink threshold, segment detection,
// stroke mask. Walls and rooms are then extracted from the stroke mask
// concurrently.
func (e *Extractor) Extract(img image.Image) (*Model, error) {
	return e.run(img, nil)
}

// ExtractWithTrace is Extract that also returns the intermediate masks.
// The trace records each stage's image by name in pipeline order;
// Trace.WriteDir saves them as PNG files.
func (e *Extractor) ExtractWithTrace(img image.Image) (*Model, *Trace, error) {
	trace := NewTrace()
	m, err := e.run(img, trace)
	if err != nil {
		return nil, nil, err
	}
	return m, trace, nil
}

// RemoveText runs only the text removal stage.
func (e *Extractor) RemoveText(img image.Image) *TextReport {
	return RemoveText(img, e.cfg.Binarize, e.cfg.Text)
}

// Segments runs text removal and segment detection only.
func (e *Extractor) Segments(img image.Image) ([]Segment, error) {
	text := e.RemoveText(img)
	ink := imaging.Threshold(text.Cleaned, e.cfg.Binarize.InkThreshold)
	return ExtractSegments(ink, e.cfg.Segments)
}

func (e *Extractor) run(img image.Image, trace *Trace) (*Model, error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	text := e.RemoveText(img)
	ink := imaging.Threshold(text.Cleaned, e.cfg.Binarize.InkThreshold)

	segments, err := ExtractSegments(ink, e.cfg.Segments)
	if err != nil {
		return nil, fmt.Errorf("extract segments: %w", err)
	}
	segMask := SegmentMask(segments, width, height, e.cfg.Segments)
	wallLines := WallMask(ink, e.cfg.Walls)

	roomMask := segMask
	if e.cfg.Rooms.Source == config.RoomSourceWalls {
		roomMask = wallLines
	}

	// Walls and rooms read disjoint inputs and write disjoint outputs.
	var (
		walls []Wall
		rooms []Room
		wg    sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		if e.cfg.Walls.Strategy == config.WallStrategyThinLines {
			walls = ThinLineWalls(ink, e.cfg.Walls)
			return
		}
		walls = ExtractWalls(wallLines, e.cfg.Walls)
	}()
	go func() {
		defer wg.Done()
		rooms = ExtractRooms(roomMask, e.cfg.Rooms)
	}()
	wg.Wait()

	model := NewModel(walls, segments, rooms, Dimensions{Width: width, Height: height})

	if trace != nil {
		trace.AddMask(TraceThreshold, text.Adaptive)
		trace.AddMask(TraceTextMask, text.TextMask)
		trace.AddMask(TraceWallMask, text.WallMask)
		trace.AddMask(TraceTextOnly, text.TextOnly)
		trace.Add(TraceTextRemoved, text.Cleaned)
		trace.AddMask(TraceSegmentMask, segMask)
		trace.AddMask(TraceWallLines, wallLines)
		trace.Add(TraceDetectedLines, LinesImage(segments, width, height))
	}
	return model, nil
}
