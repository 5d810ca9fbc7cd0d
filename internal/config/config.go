// Package config holds every tunable heuristic used by the blueprint
// extraction pipeline and renderer.
//
// The numeric defaults were tuned empirically against scanned residential
// floor plans. They are grouped per pipeline stage so each stage can be
// tested against its own section independently of the others.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Wall extraction strategies.
const (
	WallStrategyMorphology = "morphology"
	WallStrategyThinLines  = "thin-lines"
)

// Room mask sources.
const (
	RoomSourceSegments = "segments"
	RoomSourceWalls    = "walls"
)

// Config is the complete set of pipeline parameters.
type Config struct {
	Binarize Binarize `json:"binarize"`
	Text     Text     `json:"text"`
	Segments Segments `json:"segments"`
	Walls    Walls    `json:"walls"`
	Rooms    Rooms    `json:"rooms"`
	Render   Render   `json:"render"`
}

// Binarize controls conversion of a raster into foreground masks.
type Binarize struct {
	// InkThreshold: luminance strictly below this value is foreground.
	InkThreshold int `json:"ink_threshold"`
	// AdaptiveBlock is the odd neighbourhood size for the local mean.
	AdaptiveBlock int `json:"adaptive_block"`
	// AdaptiveC is subtracted from the local mean before comparison.
	AdaptiveC int `json:"adaptive_c"`
}

// Text controls the text/wall discrimination passes.
type Text struct {
	TextKernel int `json:"text_kernel"`
	WallKernel int `json:"wall_kernel"`

	MaxArea        float64 `json:"max_area"`
	MinAspect      float64 `json:"min_aspect"`
	MaxAspect      float64 `json:"max_aspect"`
	VerticalAspect float64 `json:"vertical_aspect"`

	DimensionThreshold      int     `json:"dimension_threshold"`
	DimensionDilate         int     `json:"dimension_dilate"`
	DimensionMinArea        float64 `json:"dimension_min_area"`
	DimensionMaxArea        float64 `json:"dimension_max_area"`
	DimensionMinAspect      float64 `json:"dimension_min_aspect"`
	DimensionMaxAspect      float64 `json:"dimension_max_aspect"`
	DimensionVerticalAspect float64 `json:"dimension_vertical_aspect"`
	// MaxWallOverlap is the fraction of a dimension box that may be wall
	// pixels before the box is left untouched.
	MaxWallOverlap float64 `json:"max_wall_overlap"`
}

// Segments controls straight line segment detection.
type Segments struct {
	CannyLow    int     `json:"canny_low"`
	CannyHigh   int     `json:"canny_high"`
	Rho         float64 `json:"rho"`
	ThetaDeg    float64 `json:"theta_deg"`
	Votes       int     `json:"votes"`
	MinLength   int     `json:"min_length"`
	MaxGap      int     `json:"max_gap"`
	StrokeWidth float64 `json:"stroke_width"`
	Dilate      int     `json:"dilate"`
}

// Walls controls polygon wall extraction.
type Walls struct {
	Strategy string  `json:"strategy"`
	Kernel   int     `json:"kernel"`
	Bridge   int     `json:"bridge"`
	MinArea  float64 `json:"min_area"`
	Epsilon  float64 `json:"epsilon"`

	// Thin-line strategy parameters.
	ThinMinArea      float64 `json:"thin_min_area"`
	ThinMinAspect    float64 `json:"thin_min_aspect"`
	ThinMaxAspect    float64 `json:"thin_max_aspect"`
	ThinMaxThickness int     `json:"thin_max_thickness"`
}

// Rooms controls room boundary extraction.
type Rooms struct {
	Source  string  `json:"source"`
	MinArea float64 `json:"min_area"`
	Epsilon float64 `json:"epsilon"`
}

// Render controls the blueprint renderer.
type Render struct {
	DefaultWidth  int     `json:"default_width"`
	DefaultHeight int     `json:"default_height"`
	// MaxSide bounds both canvas dimensions. Larger canvases are refused
	// before any pixel buffer is allocated.
	MaxSide       int     `json:"max_side"`
	FillOpacity   float64 `json:"fill_opacity"`
	SegmentWidth  float64 `json:"segment_width"`
	OutlineWidth  float64 `json:"outline_width"`

	Background      string `json:"background"`
	SegmentColor    string `json:"segment_color"`
	HorizontalColor string `json:"horizontal_color"`
	VerticalColor   string `json:"vertical_color"`
	OutlineColor    string `json:"outline_color"`
	RoomColor       string `json:"room_color"`
	LabelColor      string `json:"label_color"`
}

// DefaultConfig returns a Config populated with the standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Binarize: Binarize{
			InkThreshold:  50,
			AdaptiveBlock: 11,
			AdaptiveC:     2,
		},
		Text: Text{
			TextKernel:              2,
			WallKernel:              15,
			MaxArea:                 500,
			MinAspect:               0.5,
			MaxAspect:               15,
			VerticalAspect:          0.5,
			DimensionThreshold:      180,
			DimensionDilate:         3,
			DimensionMinArea:        50,
			DimensionMaxArea:        1000,
			DimensionMinAspect:      1.5,
			DimensionMaxAspect:      10,
			DimensionVerticalAspect: 0.7,
			MaxWallOverlap:          0.5,
		},
		Segments: Segments{
			CannyLow:    50,
			CannyHigh:   150,
			Rho:         1,
			ThetaDeg:    1,
			Votes:       50,
			MinLength:   50,
			MaxGap:      10,
			StrokeWidth: 5,
			Dilate:      5,
		},
		Walls: Walls{
			Strategy:         WallStrategyMorphology,
			Kernel:           15,
			Bridge:           3,
			MinArea:          100,
			Epsilon:          0.01,
			ThinMinArea:      50,
			ThinMinAspect:    5,
			ThinMaxAspect:    0.2,
			ThinMaxThickness: 20,
		},
		Rooms: Rooms{
			Source:  RoomSourceSegments,
			MinArea: 1000,
			Epsilon: 0.01,
		},
		Render: Render{
			DefaultWidth:    1600,
			DefaultHeight:   1200,
			MaxSide:         10000,
			FillOpacity:     0.3,
			SegmentWidth:    2,
			OutlineWidth:    1,
			Background:      "#FFFFFF",
			SegmentColor:    "#000000",
			HorizontalColor: "#FF0000",
			VerticalColor:   "#0000FF",
			OutlineColor:    "#000000",
			RoomColor:       "#00FF00",
			LabelColor:      "#000000",
		},
	}
}

// Validate clamps/normalizes values to safe ranges. Invalid values fall back
// to their defaults. An error is returned only for unknown enum values.
func (c *Config) Validate() error {
	d := DefaultConfig()

	if c.Binarize.InkThreshold <= 0 || c.Binarize.InkThreshold > 256 {
		c.Binarize.InkThreshold = d.Binarize.InkThreshold
	}
	if c.Binarize.AdaptiveBlock < 3 {
		c.Binarize.AdaptiveBlock = d.Binarize.AdaptiveBlock
	}
	if c.Binarize.AdaptiveBlock%2 == 0 {
		c.Binarize.AdaptiveBlock++
	}

	positiveInt(&c.Text.TextKernel, d.Text.TextKernel)
	positiveInt(&c.Text.WallKernel, d.Text.WallKernel)
	positiveInt(&c.Text.DimensionDilate, d.Text.DimensionDilate)
	positiveFloat(&c.Text.MaxArea, d.Text.MaxArea)
	positiveFloat(&c.Text.MaxAspect, d.Text.MaxAspect)
	positiveFloat(&c.Text.DimensionMaxArea, d.Text.DimensionMaxArea)
	positiveFloat(&c.Text.DimensionMaxAspect, d.Text.DimensionMaxAspect)
	if c.Text.DimensionThreshold <= 0 || c.Text.DimensionThreshold > 256 {
		c.Text.DimensionThreshold = d.Text.DimensionThreshold
	}
	if c.Text.MaxWallOverlap <= 0 || c.Text.MaxWallOverlap > 1 {
		c.Text.MaxWallOverlap = d.Text.MaxWallOverlap
	}

	if c.Segments.CannyHigh <= 0 {
		c.Segments.CannyHigh = d.Segments.CannyHigh
	}
	if c.Segments.CannyLow <= 0 || c.Segments.CannyLow > c.Segments.CannyHigh {
		c.Segments.CannyLow = c.Segments.CannyHigh / 3
	}
	positiveFloat(&c.Segments.Rho, d.Segments.Rho)
	positiveFloat(&c.Segments.ThetaDeg, d.Segments.ThetaDeg)
	positiveInt(&c.Segments.Votes, d.Segments.Votes)
	positiveInt(&c.Segments.MinLength, d.Segments.MinLength)
	if c.Segments.MaxGap < 0 {
		c.Segments.MaxGap = d.Segments.MaxGap
	}
	positiveFloat(&c.Segments.StrokeWidth, d.Segments.StrokeWidth)
	positiveInt(&c.Segments.Dilate, d.Segments.Dilate)

	positiveInt(&c.Walls.Kernel, d.Walls.Kernel)
	positiveInt(&c.Walls.Bridge, d.Walls.Bridge)
	if c.Walls.MinArea < 0 {
		c.Walls.MinArea = d.Walls.MinArea
	}
	epsilon(&c.Walls.Epsilon, d.Walls.Epsilon)
	positiveInt(&c.Walls.ThinMaxThickness, d.Walls.ThinMaxThickness)

	if c.Rooms.MinArea < 0 {
		c.Rooms.MinArea = d.Rooms.MinArea
	}
	epsilon(&c.Rooms.Epsilon, d.Rooms.Epsilon)

	positiveInt(&c.Render.DefaultWidth, d.Render.DefaultWidth)
	positiveInt(&c.Render.DefaultHeight, d.Render.DefaultHeight)
	positiveInt(&c.Render.MaxSide, d.Render.MaxSide)
	if c.Render.FillOpacity < 0 || c.Render.FillOpacity > 1 {
		c.Render.FillOpacity = d.Render.FillOpacity
	}
	positiveFloat(&c.Render.SegmentWidth, d.Render.SegmentWidth)
	positiveFloat(&c.Render.OutlineWidth, d.Render.OutlineWidth)
	defaultString(&c.Render.Background, d.Render.Background)
	defaultString(&c.Render.SegmentColor, d.Render.SegmentColor)
	defaultString(&c.Render.HorizontalColor, d.Render.HorizontalColor)
	defaultString(&c.Render.VerticalColor, d.Render.VerticalColor)
	defaultString(&c.Render.OutlineColor, d.Render.OutlineColor)
	defaultString(&c.Render.RoomColor, d.Render.RoomColor)
	defaultString(&c.Render.LabelColor, d.Render.LabelColor)

	switch c.Walls.Strategy {
	case "":
		c.Walls.Strategy = d.Walls.Strategy
	case WallStrategyMorphology, WallStrategyThinLines:
	default:
		return fmt.Errorf("unknown wall strategy %q", c.Walls.Strategy)
	}
	switch c.Rooms.Source {
	case "":
		c.Rooms.Source = d.Rooms.Source
	case RoomSourceSegments, RoomSourceWalls:
	default:
		return fmt.Errorf("unknown room source %q", c.Rooms.Source)
	}
	return nil
}

// Load attempts to read configuration from the given JSON file path. If the
// file does not exist it returns DefaultConfig(). Fields absent from the file
// keep their defaults. On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

func positiveInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func positiveFloat(v *float64, def float64) {
	if *v <= 0 || math.IsNaN(*v) {
		*v = def
	}
}

func epsilon(v *float64, def float64) {
	if *v < 0 || *v >= 1 || math.IsNaN(*v) {
		*v = def
	}
}

func defaultString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}
