// Package server implements the MCP (Model Context Protocol) server for
// background compositing tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the compositing
// pipeline through the MCP protocol. A client hands it a cutout (an image
// whose background has already been removed) and gets back a finished PNG
// with a new background, an optional drop shadow and color adjustments.
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
// Basic Image Information:
//   - image_load: Load image and get metadata, including whether it is a cutout
//   - image_dimensions: Get width and height
//
// Color Operations:
//   - image_sample_color: Get color at pixel
//   - image_parse_color: Resolve a hex, named, rgb() or hsl() color
//
// Effects:
//   - image_gradient: Render a linear-gradient descriptor
//   - image_shadow: Add a drop shadow behind a cutout
//   - image_adjust: Apply brightness, contrast and saturation factors
//   - image_trim: Crop a cutout to its visible content
//
// Compositing:
//   - image_compose: Run the full pipeline and optionally write <name>_nobg.png
//
// # Fallbacks
//
// Malformed styling never fails a render. An invalid gradient becomes solid
// red, a bad shadow color becomes black and an unusable background image
// leaves the background transparent. Each substitution is reported in the
// result's diagnostics and logged at warn level.
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
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New(server.WithLogger(logger))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
