package server

import (
	"strings"

	"github.com/ironsheep/vision-tools-mcp/internal/imaging"
	"github.com/ironsheep/vision-tools-mcp/internal/pipeline"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Sources
		{
			Name:        "vision_open_image",
			Description: "Load a still image as the current frame. It is used for analysis and processing whenever no live source is running.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty("Absolute path to the image file (PNG, JPEG, BMP, GIF, TIFF)"),
			}, "path"),
		},
		{
			Name:        "vision_open_sequence",
			Description: "Play a directory of images (PNG, JPEG, BMP, GIF) in file-name order as a live source. Replaces any running source.",
			InputSchema: objectSchema(map[string]interface{}{
				"directory": pathProperty("Absolute path to the directory holding the frames"),
				"fps": map[string]interface{}{
					"type":        "number",
					"description": "Playback rate in frames per second. Default from configuration (10)",
				},
			}, "directory"),
		},
		{
			Name:        "vision_open_video",
			Description: "Play a video file as a live source at its native frame rate. Animated GIFs are always supported; other formats need a build with OpenCV.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty("Absolute path to the video file"),
			}, "path"),
		},
		{
			Name:        "vision_start_camera",
			Description: "Capture frames from a camera device. Needs a build with OpenCV.",
			InputSchema: objectSchema(map[string]interface{}{
				"device": map[string]interface{}{
					"type":        "integer",
					"description": "Camera device index. Default 0",
					"default":     0,
				},
			}),
		},
		{
			Name:        "vision_stop_source",
			Description: "Stop the running live source and release it. The still image, if any, becomes the current frame again.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},

		// Analysis
		{
			Name: "vision_analyze",
			Description: "Run a binary-image analysis on a copy of the current frame. The frame is binarized (Otsu by default) first. " +
				"Kinds: " + strings.Join(pipeline.AnalysisKinds(), ", ") + ".",
			InputSchema: objectSchema(map[string]interface{}{
				"kind": map[string]interface{}{
					"type":        "string",
					"description": "Analysis to run",
					"enum":        pipeline.AnalysisKinds(),
				},
				"include_images": map[string]interface{}{
					"type":        "boolean",
					"description": "Return rendered charts or overlays as base64 PNG. Default true",
					"default":     true,
				},
			}, "kind"),
		},

		// Tracking and detection
		{
			Name:        "vision_process_frame",
			Description: "Run the tracker, color-blob detector, template matcher and audio cue on the current frame and return the annotated frame with a report of what happened.",
			InputSchema: objectSchema(map[string]interface{}{
				"include_image": map[string]interface{}{
					"type":        "boolean",
					"description": "Return the annotated frame as base64 PNG. Default true",
					"default":     true,
				},
			}),
		},
		{
			Name:        "vision_select_region",
			Description: "Start tracking the object inside a rectangle of the current frame. The rectangle is clipped to the frame; " +
				"both sides must then exceed the tracker minimum size (tracker.min_size, default 5 px).",
			InputSchema: objectSchema(map[string]interface{}{
				"x":      map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
				"y":      map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
				"width":  map[string]interface{}{"type": "integer", "description": "Width in pixels, must be positive"},
				"height": map[string]interface{}{"type": "integer", "description": "Height in pixels, must be positive"},
			}, "x", "y", "width", "height"),
		},
		{
			Name:        "vision_reset_tracker",
			Description: "Stop tracking the current object. Detectors may seed a new one on later frames.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
		{
			Name:        "vision_load_template",
			Description: "Load the template image searched for on every frame. On failure the previous template stays loaded.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty("Absolute path to the template image"),
			}, "path"),
		},
		{
			Name:        "vision_load_audio",
			Description: "Load the audio cue (WAV or MP3) looped while an object is tracked or detected. On failure the previous cue stays loaded.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty("Absolute path to the audio file"),
			}, "path"),
		},

		// Display
		{
			Name:        "vision_set_effect",
			Description: "Select the visual effect applied to every frame before processing. Effects: " + strings.Join(imaging.EffectNames(), ", ") + ".",
			InputSchema: objectSchema(map[string]interface{}{
				"effect": map[string]interface{}{
					"type":        "string",
					"description": "Effect name",
					"enum":        imaging.EffectNames(),
				},
			}, "effect"),
		},
		{
			Name:        "vision_save_result",
			Description: "Save the last processed frame. The format follows the extension: .png, .jpg, .jpeg or .bmp.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty("Absolute output path"),
			}, "path"),
		},
		{
			Name:        "vision_status",
			Description: "Report the source, tracker, audio, effect and template state.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return result(req.ID, map[string]interface{}{"tools": GetToolDefinitions()})
}
