// Package server implements the MCP (Model Context Protocol) server for overlay tools.
//
// This package provides a JSON-RPC 2.0 server that lets MCP clients build up
// layered overlays of text, rectangles, and images, then render them to PNG.
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
// Drawing:
//   - overlay_add_text: Queue a text item
//   - overlay_add_rect: Queue a filled or outlined rectangle
//   - overlay_add_image: Queue a region of an image file, optionally flipped and recolored
//   - overlay_add_image_data: Queue an inline base64 image as-is
//   - overlay_add_grid: Queue grid lines and optional coordinate labels
//
// Layer management:
//   - overlay_clear: Drop the items of one layer or all layers
//   - overlay_set_hidden: Hide or show layers
//   - overlay_list: Describe queued items
//
// Output:
//   - overlay_render: Paint all visible layers onto a canvas and return PNG
//
// Source images:
//   - overlay_image_info: Dimensions and color table size of a file
//   - overlay_cache_evict: Forget a cached file
//
// # Layers
//
// Each layer is an independent overlay. Layers are created on first use and
// rendered in ascending order, so higher numbers paint over lower ones. Within
// a layer, items paint in the order they were added.
//
// # Image Caching
//
// Source images are cached by path. When file monitoring is enabled the cache
// watches the directories of loaded files and evicts entries whose files change.
// Items already queued keep the pixels they were created with.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, e.g. "Failed to load image '/x.png'"
//
// # Usage
//
//	cfg, err := config.FromEnv("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.New(cfg).Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
