package server

import (
	"encoding/json"
	"fmt"
	"image/color"
	"log"

	"github.com/ironsheep/overlay-tools-mcp/internal/canvas"
	"github.com/ironsheep/overlay-tools-mcp/internal/config"
	"github.com/ironsheep/overlay-tools-mcp/internal/imaging"
	"github.com/ironsheep/overlay-tools-mcp/internal/overlay"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "overlay_add_text", "overlay_render").
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

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Parses colors and palettes
//  4. Calls into the overlay stack
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if s.cfg.Debug() {
		log.Printf("tool %s %s", name, args)
	}

	switch name {
	// Drawing
	case "overlay_add_text":
		return s.handleAddText(args)
	case "overlay_add_rect":
		return s.handleAddRect(args)
	case "overlay_add_image":
		return s.handleAddImage(args)
	case "overlay_add_image_data":
		return s.handleAddImageData(args)
	case "overlay_add_grid":
		return s.handleAddGrid(args)

	// Layer management
	case "overlay_clear":
		return s.handleClear(args)
	case "overlay_set_hidden":
		return s.handleSetHidden(args)
	case "overlay_list":
		return s.handleList(args)

	// Output
	case "overlay_render":
		return s.handleRender(args)

	// Source images
	case "overlay_image_info":
		return s.handleImageInfo(args)
	case "overlay_cache_evict":
		return s.handleCacheEvict(args)

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// parseColorArg parses an optional color argument, defaulting to black.
func parseColorArg(s string) (color.Color, error) {
	if s == "" {
		return color.NRGBA{A: 0xff}, nil
	}
	return imaging.ParseColor(s)
}

// AddResult reports the state of a layer after an item was added.
type AddResult struct {
	Layer int `json:"layer"`
	Items int `json:"items"`
}

func (s *Server) added(layer int) *AddResult {
	return &AddResult{Layer: layer, Items: s.stack.Layer(layer).Len()}
}

// addToLayer runs add against layer n. A layer created for a failed add is
// removed again so it does not show up in listings.
func (s *Server) addToLayer(n int, add func(o *overlay.Overlay) error) error {
	_, existed := s.stack.Lookup(n)
	if err := add(s.stack.Layer(n)); err != nil {
		if !existed {
			s.stack.Remove(n)
		}
		return err
	}
	return nil
}

// checkCanvasSize applies the configuration's size limit to tool arguments.
func checkCanvasSize(width, height int) error {
	if width < 1 || width > config.MaxCanvasSize || height < 1 || height > config.MaxCanvasSize {
		return fmt.Errorf("size %dx%d out of range, width and height must be between 1 and %d",
			width, height, config.MaxCanvasSize)
	}
	return nil
}

// === Drawing Handlers ===

type addTextArgs struct {
	Layer    int    `json:"layer"`
	Text     string `json:"text"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Color    string `json:"color"`
	FontSize int    `json:"font_size"`
}

func (s *Server) handleAddText(args json.RawMessage) (interface{}, error) {
	var a addTextArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.FontSize <= 0 {
		a.FontSize = s.cfg.Text.DefaultFontSize
	}
	c, err := parseColorArg(a.Color)
	if err != nil {
		return nil, err
	}
	s.stack.Layer(a.Layer).AddText(a.Text, a.X, a.Y, c, a.FontSize)
	return s.added(a.Layer), nil
}

type addRectArgs struct {
	Layer  int    `json:"layer"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Color  string `json:"color"`
	Filled bool   `json:"filled"`
}

func (s *Server) handleAddRect(args json.RawMessage) (interface{}, error) {
	var a addRectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c, err := parseColorArg(a.Color)
	if err != nil {
		return nil, err
	}
	s.stack.Layer(a.Layer).AddRect(a.X, a.Y, a.Width, a.Height, c, a.Filled)
	return s.added(a.Layer), nil
}

type addImageArgs struct {
	Layer           int      `json:"layer"`
	X               int      `json:"x"`
	Y               int      `json:"y"`
	Path            string   `json:"path"`
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	Offset          uint     `json:"offset"`
	XFlip           bool     `json:"xflip"`
	YFlip           bool     `json:"yflip"`
	Palette         []string `json:"palette"`
	SetTransparency bool     `json:"set_transparency"`
}

func (s *Server) handleAddImage(args json.RawMessage) (interface{}, error) {
	var a addImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	palette, err := imaging.ParsePalette(a.Palette)
	if err != nil {
		return nil, err
	}
	req := imaging.Request{
		Path:            a.Path,
		Width:           a.Width,
		Height:          a.Height,
		Offset:          a.Offset,
		XFlip:           a.XFlip,
		YFlip:           a.YFlip,
		Palette:         palette,
		SetTransparency: a.SetTransparency,
	}
	err = s.addToLayer(a.Layer, func(o *overlay.Overlay) error {
		return o.AddImage(a.X, a.Y, req)
	})
	if err != nil {
		return nil, err
	}
	return s.added(a.Layer), nil
}

type addImageDataArgs struct {
	Layer       int    `json:"layer"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	ImageBase64 string `json:"image_base64"`
}

func (s *Server) handleAddImageData(args json.RawMessage) (interface{}, error) {
	var a addImageDataArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := imaging.DecodeBase64(a.ImageBase64)
	if err != nil {
		// An undecodable payload is the same failure as an empty image.
		img = nil
	}
	err = s.addToLayer(a.Layer, func(o *overlay.Overlay) error {
		return o.AddRawImage(a.X, a.Y, img)
	})
	if err != nil {
		return nil, err
	}
	return s.added(a.Layer), nil
}

type addGridArgs struct {
	Layer           int    `json:"layer"`
	Spacing         int    `json:"spacing"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Color           string `json:"color"`
	ShowCoordinates bool   `json:"show_coordinates"`
	FontSize        int    `json:"font_size"`
}

func (s *Server) handleAddGrid(args json.RawMessage) (interface{}, error) {
	var a addGridArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Width <= 0 {
		a.Width = s.cfg.Canvas.Width
	}
	if a.Height <= 0 {
		a.Height = s.cfg.Canvas.Height
	}
	if err := checkCanvasSize(a.Width, a.Height); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = "#80ff0000"
	}
	c, err := imaging.ParseColor(a.Color)
	if err != nil {
		return nil, err
	}

	var n int
	err = s.addToLayer(a.Layer, func(o *overlay.Overlay) error {
		var err error
		n, err = o.AddGrid(overlay.Grid{
			Width:    a.Width,
			Height:   a.Height,
			Spacing:  a.Spacing,
			Color:    c,
			Labels:   a.ShowCoordinates,
			FontSize: a.FontSize,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"layer": a.Layer,
		"items": s.stack.Layer(a.Layer).Len(),
		"added": n,
	}, nil
}

// === Layer Management Handlers ===

type layerArgs struct {
	Layer *int `json:"layer"`
}

func (s *Server) handleClear(args json.RawMessage) (interface{}, error) {
	var a layerArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Layer == nil {
		s.stack.ClearAll()
	} else if o, ok := s.stack.Lookup(*a.Layer); ok {
		o.ClearItems()
	}
	return map[string]interface{}{"items": s.stack.Len()}, nil
}

type setHiddenArgs struct {
	Layer  *int `json:"layer"`
	Hidden bool `json:"hidden"`
}

func (s *Server) handleSetHidden(args json.RawMessage) (interface{}, error) {
	var a setHiddenArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Layer == nil {
		s.stack.SetHiddenAll(a.Hidden)
	} else {
		s.stack.Layer(*a.Layer).SetHidden(a.Hidden)
	}
	return map[string]interface{}{"hidden": a.Hidden}, nil
}

// ItemSummary describes one overlay item for listing.
type ItemSummary struct {
	Type     string `json:"type"` // "text", "rect", or "image"
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Text     string `json:"text,omitempty"`
	Color    string `json:"color,omitempty"`
	FontSize int    `json:"font_size,omitempty"`
	Filled   bool   `json:"filled,omitempty"`
}

// LayerSummary lists the items of one layer in paint order.
type LayerSummary struct {
	Layer  int           `json:"layer"`
	Hidden bool          `json:"hidden"`
	Items  []ItemSummary `json:"items"`
}

func summarize(item overlay.Item) ItemSummary {
	switch it := item.(type) {
	case overlay.Text:
		return ItemSummary{Type: "text", X: it.X, Y: it.Y, Text: it.Text, Color: imaging.FormatColor(it.Color), FontSize: it.FontSize}
	case overlay.Rect:
		return ItemSummary{Type: "rect", X: it.X, Y: it.Y, Width: it.Width, Height: it.Height, Color: imaging.FormatColor(it.Color), Filled: it.Filled}
	case overlay.Image:
		b := it.Pixels.Bounds()
		return ItemSummary{Type: "image", X: it.X, Y: it.Y, Width: b.Dx(), Height: b.Dy()}
	default:
		return ItemSummary{Type: fmt.Sprintf("%T", item)}
	}
}

func (s *Server) handleList(args json.RawMessage) (interface{}, error) {
	var a layerArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	layers := s.stack.Layers()
	if a.Layer != nil {
		layers = []int{*a.Layer}
	}

	result := make([]LayerSummary, 0, len(layers))
	for _, n := range layers {
		o, ok := s.stack.Lookup(n)
		if !ok {
			continue
		}
		items := o.Items()
		summary := LayerSummary{Layer: n, Hidden: o.Hidden(), Items: make([]ItemSummary, 0, len(items))}
		for _, item := range items {
			summary.Items = append(summary.Items, summarize(item))
		}
		result = append(result, summary)
	}
	return map[string]interface{}{"layers": result}, nil
}

// === Output Handlers ===

type renderArgs struct {
	BasePath   string `json:"base_path"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Background string `json:"background"`
}

func (s *Server) handleRender(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var c *canvas.Canvas
	if a.BasePath != "" {
		base, err := s.cache.Load(a.BasePath)
		if err != nil {
			return nil, err
		}
		c = canvas.NewFromImage(base)
	} else {
		if a.Width <= 0 {
			a.Width = s.cfg.Canvas.Width
		}
		if a.Height <= 0 {
			a.Height = s.cfg.Canvas.Height
		}
		if err := checkCanvasSize(a.Width, a.Height); err != nil {
			return nil, err
		}
		bg := s.cfg.BackgroundColor()
		if a.Background != "" {
			var err error
			if bg, err = imaging.ParseColor(a.Background); err != nil {
				return nil, err
			}
		}
		c = canvas.New(a.Width, a.Height, bg)
	}
	defer c.Close()

	s.stack.Render(c)
	return c.Result(s.stack.Len())
}

// === Source Image Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleCacheEvict(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		s.cache.Clear()
	} else {
		s.cache.Evict(a.Path)
	}
	return map[string]interface{}{"cached": s.cache.Len()}, nil
}
