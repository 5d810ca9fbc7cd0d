// Package server implements the MCP (Model Context Protocol) server for the
// blueprint extraction and rendering tools.
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
// Extraction:
//   - blueprint_extract: Floor plan image to {"data": model}, optionally
//     saving the JSON and the intermediate debug images
//   - blueprint_remove_text: Text and dimension erasure, returns the boxes
//     and the cleaned image
//   - blueprint_detect_segments: Straight wall segments only
//
// Rendering:
//   - blueprint_render: Model to PNG (base64) or SVG
//   - blueprint_overlay: Model drawn over its source image
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Logging
//
// Diagnostics go to the slog.Logger passed with WithLogger. Stdout carries
// the protocol, so the logger must write elsewhere.
//
// # Usage
//
//	srv := server.New(server.WithConfig(cfg), server.WithLogger(logger))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
