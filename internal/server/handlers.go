package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/blueprint-tools/internal/blueprint"
	"github.com/ironsheep/blueprint-tools/internal/imaging"
	"github.com/ironsheep/blueprint-tools/internal/render"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "blueprint_extract").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.log.Info("tool completed", "tool", params.Name, "elapsed", time.Since(start))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "blueprint_extract":
		return s.handleExtract(args)
	case "blueprint_remove_text":
		return s.handleRemoveText(args)
	case "blueprint_detect_segments":
		return s.handleDetectSegments(args)
	case "blueprint_render":
		return s.handleRender(args)
	case "blueprint_overlay":
		return s.handleOverlay(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

var errMissingPath = errors.New("path is required")

// === Extraction Handlers ===

type extractArgs struct {
	Path     string `json:"path"`
	Output   string `json:"output"`
	Debug    bool   `json:"debug"`
	DebugDir string `json:"debug_dir"`
}

// ExtractResult is the blueprint_extract response.
type ExtractResult struct {
	Data       *blueprint.Model `json:"data"`
	Walls      int              `json:"walls"`
	Segments   int              `json:"segments"`
	Rooms      int              `json:"rooms"`
	OutputPath string           `json:"output_path,omitempty"`
	DebugDir   string           `json:"debug_dir,omitempty"`
}

func (s *Server) handleExtract(args json.RawMessage) (interface{}, error) {
	var a extractArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errMissingPath
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	var (
		model *blueprint.Model
		trace *blueprint.Trace
	)
	debug := a.Debug || a.DebugDir != ""
	if debug {
		model, trace, err = s.extractor.ExtractWithTrace(img)
	} else {
		model, err = s.extractor.Extract(img)
	}
	if err != nil {
		return nil, err
	}

	result := &ExtractResult{
		Data:     model,
		Walls:    len(model.Walls),
		Segments: len(model.Segments),
		Rooms:    len(model.Rooms),
	}

	if a.Output != "" {
		if err := blueprint.Save(a.Output, model); err != nil {
			return nil, err
		}
		result.OutputPath = a.Output
	}

	if debug {
		dir := a.DebugDir
		if dir == "" {
			dir = filepath.Join(os.TempDir(), "blueprint-"+uuid.NewString())
		}
		render.AnnotateTrace(trace, img, model)
		if err := trace.WriteDir(dir); err != nil {
			return nil, err
		}
		result.DebugDir = dir
		s.log.Debug("wrote debug trace", "dir", dir, "images", len(trace.Names()))
	}

	return result, nil
}

type imagePathArgs struct {
	Path   string `json:"path"`
	Output string `json:"output"`
}

// RemoveTextResult is the blueprint_remove_text response.
type RemoveTextResult struct {
	TextBoxes      []blueprint.Box       `json:"text_boxes"`
	DimensionBoxes []blueprint.Box       `json:"dimension_boxes"`
	Image          *imaging.EncodedImage `json:"image"`
	OutputPath     string                `json:"output_path,omitempty"`
}

func (s *Server) handleRemoveText(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errMissingPath
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	report := s.extractor.RemoveText(img)
	encoded, err := imaging.EncodeBase64(report.Cleaned)
	if err != nil {
		return nil, err
	}
	result := &RemoveTextResult{
		TextBoxes:      nonNilBoxes(report.TextBoxes),
		DimensionBoxes: nonNilBoxes(report.DimensionBoxes),
		Image:          encoded,
	}
	if a.Output != "" {
		if err := imaging.Save(a.Output, report.Cleaned); err != nil {
			return nil, err
		}
		result.OutputPath = a.Output
	}
	return result, nil
}

func nonNilBoxes(b []blueprint.Box) []blueprint.Box {
	if b == nil {
		return []blueprint.Box{}
	}
	return b
}

// SegmentsResult is the blueprint_detect_segments response.
type SegmentsResult struct {
	Count    int                 `json:"count"`
	Segments []blueprint.Segment `json:"segments"`
}

func (s *Server) handleDetectSegments(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errMissingPath
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	segments, err := s.extractor.Segments(img)
	if err != nil {
		return nil, err
	}
	if segments == nil {
		segments = []blueprint.Segment{}
	}
	return &SegmentsResult{Count: len(segments), Segments: segments}, nil
}

// === Rendering Handlers ===

type renderArgs struct {
	ModelPath string          `json:"model_path"`
	Model     json.RawMessage `json:"model"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Output    string          `json:"output"`
	Format    string          `json:"format"`
}

// RenderResult is the blueprint_render response. Exactly one of Image and
// SVG is set.
type RenderResult struct {
	Format     string                `json:"format"`
	Width      int                   `json:"width"`
	Height     int                   `json:"height"`
	Image      *imaging.EncodedImage `json:"image,omitempty"`
	SVG        string                `json:"svg,omitempty"`
	OutputPath string                `json:"output_path,omitempty"`
}

func (s *Server) handleRender(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	model, err := loadModel(a.ModelPath, a.Model)
	if err != nil {
		return nil, err
	}

	var size *render.Size
	if a.Width > 0 && a.Height > 0 {
		size = &render.Size{Width: a.Width, Height: a.Height}
	}
	canvas := render.CanvasSize(model, size, s.render)

	format := strings.ToLower(a.Format)
	if format == "" {
		format = "png"
		if strings.EqualFold(filepath.Ext(a.Output), ".svg") {
			format = "svg"
		}
	}

	result := &RenderResult{Format: format, Width: canvas.Width, Height: canvas.Height}
	switch format {
	case "svg":
		var buf bytes.Buffer
		if err := render.WriteSVG(&buf, model, &canvas, s.render); err != nil {
			return nil, err
		}
		result.SVG = buf.String()
		if a.Output != "" {
			if err := os.WriteFile(a.Output, buf.Bytes(), 0o644); err != nil {
				return nil, fmt.Errorf("write %s: %w", a.Output, err)
			}
		}
	case "png":
		img, err := render.Render(model, &canvas, s.render)
		if err != nil {
			return nil, err
		}
		if result.Image, err = imaging.EncodeBase64(img); err != nil {
			return nil, err
		}
		if a.Output != "" {
			if err := imaging.Save(a.Output, img); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("unknown format %q (want png or svg)", a.Format)
	}
	result.OutputPath = a.Output
	return result, nil
}

// loadModel reads a model from a file, or from an inline envelope when no
// path is given.
func loadModel(path string, inline json.RawMessage) (*blueprint.Model, error) {
	if path != "" {
		return blueprint.LoadFile(path)
	}
	if len(inline) == 0 || string(inline) == "null" {
		return nil, errors.New("model_path or model is required")
	}
	return blueprint.Decode(bytes.NewReader(inline))
}

type overlayArgs struct {
	Path      string `json:"path"`
	ModelPath string `json:"model_path"`
	Output    string `json:"output"`
}

// OverlayResult is the blueprint_overlay response.
type OverlayResult struct {
	Image      *imaging.EncodedImage `json:"image"`
	OutputPath string                `json:"output_path,omitempty"`
}

func (s *Server) handleOverlay(args json.RawMessage) (interface{}, error) {
	var a overlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errMissingPath
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	model, err := loadModel(a.ModelPath, nil)
	if err != nil {
		return nil, err
	}

	out := render.Overlay(img, model)
	encoded, err := imaging.EncodeBase64(out)
	if err != nil {
		return nil, err
	}
	result := &OverlayResult{Image: encoded}
	if a.Output != "" {
		if err := imaging.Save(a.Output, out); err != nil {
			return nil, err
		}
		result.OutputPath = a.Output
	}
	return result, nil
}
