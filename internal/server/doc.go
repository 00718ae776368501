// Package server implements the MCP (Model Context Protocol) server for the
// tile mosaic tools.
//
// This package provides a JSON-RPC 2.0 server that exposes palette matching
// and mosaic building through the MCP protocol.
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
// Input images:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_preview: Scaled base64 PNG of an image
//   - image_evict: Drop one cached image, or all of them
//
// Palettes:
//   - palette_list: Bundled palette names
//   - palette_load: Palette colors with hex, RGB and HSL
//   - palette_nearest: Nearest palette color for each query color
//   - palette_save: Write a palette to a JSON file with rgb and hex filled in
//
// Mosaics:
//   - mosaic_tiles: Tile grid and average colors, optionally matched
//   - mosaic_build: Full run writing the output image, export and legend
//
// # Caching
//
// Decoded images are cached by path and palette matchers by palette
// reference and search mode, so a palette's search tree is built once per
// server lifetime. Both caches are safe for concurrent use.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(server.WithLogger(logger))
//	if err := srv.Run(ctx); err != nil {
//	    logger.Error("server failed", "error", err)
//	}
package server
