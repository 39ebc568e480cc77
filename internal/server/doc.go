// Package server implements the MCP (Model Context Protocol) server for the
// vision workbench.
//
// This package provides a JSON-RPC 2.0 server that exposes a pipeline.Engine
// through the MCP protocol: opening images and live sources, running the
// binary-image analyses, seeding and following the tracker, and loading the
// template and audio assets the detectors use.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Sources:
//   - vision_open_image: Load a still image
//   - vision_open_sequence: Play a directory of images
//   - vision_open_video: Play a video file (GIF natively, others with OpenCV)
//   - vision_start_camera: Capture from a camera (OpenCV)
//   - vision_stop_source: Stop the live source
//
// Analysis:
//   - vision_analyze: histogram, area, perimeter, diameter, objects, none
//
// Tracking and detection:
//   - vision_process_frame: Run tracker, detectors and audio on one frame
//   - vision_select_region: Seed the tracker from a rectangle
//   - vision_reset_tracker: Drop the tracked object
//   - vision_load_template: Load the template matched on every frame
//   - vision_load_audio: Load the looped audio cue
//
// Display:
//   - vision_set_effect: Select the visual effect
//   - vision_save_result: Save the last processed frame
//   - vision_status: Report engine state
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// Having no frame to work on is not an error: vision_analyze and
// vision_process_frame return {"empty": true, "message": ...} instead.
// A lost track is reported in the frame report and drawn on the frame.
//
// # Usage
//
//	engine := pipeline.NewEngine(opts)
//	go engine.Run(ctx)
//	srv := server.New(engine)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
