package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ironsheep/vision-tools-mcp/internal/capture"
	"github.com/ironsheep/vision-tools-mcp/internal/imaging"
	"github.com/ironsheep/vision-tools-mcp/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "vision_analyze").
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
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	out, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, codeToolFailure, "Tool execution failed", err.Error())
	}

	return result(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": mustMarshalJSON(out)},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Sources
	case "vision_open_image":
		return s.handleOpenImage(args)
	case "vision_open_sequence":
		return s.handleOpenSequence(args)
	case "vision_open_video":
		return s.handleOpenVideo(args)
	case "vision_start_camera":
		return s.handleStartCamera(args)
	case "vision_stop_source":
		return s.handleStopSource(args)

	// Analysis
	case "vision_analyze":
		return s.handleAnalyze(args)

	// Tracking and detection
	case "vision_process_frame":
		return s.handleProcessFrame(args)
	case "vision_select_region":
		return s.handleSelectRegion(args)
	case "vision_reset_tracker":
		s.engine.ResetTracker()
		return s.engine.Status(), nil
	case "vision_load_template":
		return s.handleLoadTemplate(args)
	case "vision_load_audio":
		return s.handleLoadAudio(args)

	// Display
	case "vision_set_effect":
		return s.handleSetEffect(args)
	case "vision_save_result":
		return s.handleSaveResult(args)
	case "vision_status":
		return s.engine.Status(), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals args into v. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// emptySourceResult is returned instead of an error when there is nothing
// to work on.
type emptySourceResult struct {
	Empty   bool   `json:"empty"`
	Message string `json:"message"`
}

func emptySource() emptySourceResult {
	return emptySourceResult{Empty: true, Message: pipeline.ErrEmptySource.Error()}
}

// === Source Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (a pathArgs) validate() error {
	if a.Path == "" {
		return errors.New("path is required")
	}
	return nil
}

type openImageResult struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleOpenImage(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	bounds, err := s.engine.OpenImage(a.Path)
	if err != nil {
		return nil, err
	}
	return openImageResult{Path: a.Path, Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

type openSequenceArgs struct {
	Directory string  `json:"directory"`
	FPS       float64 `json:"fps"`
}

func (s *Server) handleOpenSequence(args json.RawMessage) (interface{}, error) {
	var a openSequenceArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Directory == "" {
		return nil, errors.New("directory is required")
	}
	if a.FPS < 0 {
		return nil, fmt.Errorf("fps must not be negative, got %v", a.FPS)
	}
	return s.engine.OpenSequence(a.Directory, a.FPS)
}

func (s *Server) handleOpenVideo(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return s.engine.OpenVideo(a.Path)
}

type startCameraArgs struct {
	Device int `json:"device"`
}

func (s *Server) handleStartCamera(args json.RawMessage) (interface{}, error) {
	var a startCameraArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Device < 0 {
		return nil, fmt.Errorf("device must not be negative, got %d", a.Device)
	}
	return s.engine.StartCamera(a.Device)
}

type stopSourceResult struct {
	Stopped bool           `json:"stopped"`
	Last    *capture.Stats `json:"last,omitempty"`
}

func (s *Server) handleStopSource(json.RawMessage) (interface{}, error) {
	stats, running := s.engine.Capture()
	if !s.engine.StopSource() {
		return stopSourceResult{}, nil
	}
	res := stopSourceResult{Stopped: true}
	if running {
		stats.Running = false
		res.Last = &stats
	}
	return res, nil
}

// === Analysis Handlers ===

type analyzeArgs struct {
	Kind          string `json:"kind"`
	IncludeImages *bool  `json:"include_images"`
}

type namedImage struct {
	Title string `json:"title"`
	*imaging.EncodedImage
}

type analyzeResult struct {
	*pipeline.AnalysisResult
	Images []namedImage `json:"images,omitempty"`
}

func (s *Server) handleAnalyze(args json.RawMessage) (interface{}, error) {
	var a analyzeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	kind, err := pipeline.ParseAnalysisKind(a.Kind)
	if err != nil {
		return nil, err
	}

	res, err := s.engine.Analyze(kind)
	if errors.Is(err, pipeline.ErrEmptySource) {
		return emptySource(), nil
	}
	if err != nil {
		return nil, err
	}

	out := analyzeResult{AnalysisResult: res}
	if a.IncludeImages == nil || *a.IncludeImages {
		for _, r := range res.Images {
			enc, err := imaging.EncodePNG(r.Image)
			if err != nil {
				return nil, err
			}
			out.Images = append(out.Images, namedImage{Title: r.Title, EncodedImage: enc})
		}
	}
	return out, nil
}

// === Tracking and Detection Handlers ===

type processFrameArgs struct {
	IncludeImage *bool `json:"include_image"`
}

type processFrameResult struct {
	pipeline.FrameReport
	DurationMS float64                `json:"duration_ms"`
	Image      *imaging.EncodedImage `json:"image,omitempty"`
}

func (s *Server) handleProcessFrame(args json.RawMessage) (interface{}, error) {
	var a processFrameArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	start := time.Now()
	out, report, err := s.engine.ProcessFrame()
	if errors.Is(err, pipeline.ErrEmptySource) {
		return emptySource(), nil
	}
	if err != nil {
		return nil, err
	}

	res := processFrameResult{
		FrameReport: report,
		DurationMS:  float64(time.Since(start).Microseconds()) / 1000,
	}
	if a.IncludeImage == nil || *a.IncludeImage {
		if res.Image, err = imaging.EncodePNG(out); err != nil {
			return nil, err
		}
	}
	return res, nil
}

type selectRegionArgs struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleSelectRegion(args json.RawMessage) (interface{}, error) {
	var a selectRegionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	box := imaging.BoundingBox{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
	if err := s.engine.SelectRegion(box); err != nil {
		return nil, err
	}
	return s.engine.Status(), nil
}

type loadTemplateResult struct {
	Path   string `json:"path"`
	Loaded bool   `json:"loaded"`
}

func (s *Server) handleLoadTemplate(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	if err := s.engine.LoadTemplate(a.Path); err != nil {
		return nil, err
	}
	return loadTemplateResult{Path: a.Path, Loaded: true}, nil
}

type loadAudioResult struct {
	Path       string  `json:"path"`
	Samples    int     `json:"samples"`
	SampleRate int     `json:"sample_rate"`
	Seconds    float64 `json:"seconds"`
}

func (s *Server) handleLoadAudio(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	asset, err := s.engine.LoadAudio(a.Path)
	if err != nil {
		return nil, err
	}
	return loadAudioResult{
		Path:       a.Path,
		Samples:    asset.Len(),
		SampleRate: int(asset.Format.SampleRate),
		Seconds:    asset.Duration().Seconds(),
	}, nil
}

// === Display Handlers ===

type setEffectArgs struct {
	Effect string `json:"effect"`
}

func (s *Server) handleSetEffect(args json.RawMessage) (interface{}, error) {
	var a setEffectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	effect, err := s.engine.SetEffect(a.Effect)
	if err != nil {
		return nil, err
	}
	return map[string]string{"effect": string(effect)}, nil
}

type saveResultResult struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleSaveResult(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	bounds, err := s.engine.SaveResult(a.Path)
	if err != nil {
		return nil, err
	}
	return saveResultResult{Path: a.Path, Width: bounds.Dx(), Height: bounds.Dy()}, nil
}
