package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/tile-mosaic-mcp/internal/imaging"
	"github.com/ironsheep/tile-mosaic-mcp/internal/kdtree"
	"github.com/ironsheep/tile-mosaic-mcp/internal/mosaic"
	"github.com/ironsheep/tile-mosaic-mcp/internal/palette"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "palette_nearest", "mosaic_build").
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
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Input images
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_preview":
		return s.handleImagePreview(args)
	case "image_evict":
		return s.handleImageEvict(args)

	// Palettes
	case "palette_list":
		return s.handlePaletteList(args)
	case "palette_load":
		return s.handlePaletteLoad(args)
	case "palette_nearest":
		return s.handlePaletteNearest(args)
	case "palette_save":
		return s.handlePaletteSave(args)

	// Mosaics
	case "mosaic_tiles":
		return s.handleMosaicTiles(args)
	case "mosaic_build":
		return s.handleMosaicBuild(args)

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

// === Input Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imagePreviewArgs struct {
	Path      string `json:"path"`
	MaxWidth  int    `json:"max_width"`
	MaxHeight int    `json:"max_height"`
}

func (s *Server) handleImagePreview(args json.RawMessage) (interface{}, error) {
	var a imagePreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MaxWidth == 0 {
		a.MaxWidth = 512
	}
	if a.MaxHeight == 0 {
		a.MaxHeight = 512
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Preview(img, a.MaxWidth, a.MaxHeight)
}

type imageEvictArgs struct {
	Path string `json:"path"`
}

type imageEvictResult struct {
	Evicted int `json:"evicted"`
	Cached  int `json:"cached"`
}

// handleImageEvict drops one image from the cache, or all of them when no
// path is given.
func (s *Server) handleImageEvict(args json.RawMessage) (interface{}, error) {
	var a imageEvictArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}

	res := &imageEvictResult{}
	if a.Path == "" {
		res.Evicted = s.cache.Clear()
	} else if s.cache.Evict(a.Path) {
		res.Evicted = 1
	}
	res.Cached = s.cache.Len()
	return res, nil
}

// === Palette Handlers ===

type paletteListResult struct {
	Bundled []string `json:"bundled"`
}

func (s *Server) handlePaletteList(args json.RawMessage) (interface{}, error) {
	return &paletteListResult{Bundled: palette.Names()}, nil
}

type paletteArgs struct {
	Palette      string `json:"palette"`
	LegacySearch bool   `json:"legacy_search"`
}

type paletteEntryResult struct {
	Number string           `json:"number"`
	Name   string           `json:"name"`
	Hex    string           `json:"hex"`
	RGB    imaging.RGBColor `json:"rgb"`
	HSL    imaging.HSLColor `json:"hsl"`
}

type paletteLoadResult struct {
	Name        string               `json:"name"`
	URL         string               `json:"url,omitempty"`
	Description string               `json:"description,omitempty"`
	Count       int                  `json:"count"`
	TreeHeight  int                  `json:"tree_height"`
	Colors      []paletteEntryResult `json:"colors"`
}

func (s *Server) handlePaletteLoad(args json.RawMessage) (interface{}, error) {
	var a paletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Palette == "" {
		return nil, errors.New("palette is required")
	}

	m, err := s.matchers.Matcher(a.Palette, a.LegacySearch)
	if err != nil {
		return nil, err
	}

	p := m.Palette()
	res := &paletteLoadResult{
		Name:        p.Name,
		URL:         p.URL,
		Description: p.Description,
		Count:       len(p.Colors),
		TreeHeight:  m.Tree().Height(),
		Colors:      make([]paletteEntryResult, len(p.Colors)),
	}
	for i, e := range p.Colors {
		res.Colors[i] = paletteEntryResult{
			Number: e.Number,
			Name:   e.Name,
			Hex:    e.Hex,
			RGB:    toRGBColor(e.RGB),
			HSL:    imaging.NewHSLColor(e.HSL()),
		}
	}
	return res, nil
}

type paletteNearestArgs struct {
	paletteArgs
	Colors []imaging.RGBColor `json:"colors"`
}

type nearestResult struct {
	Query    imaging.ColorResult `json:"query"`
	Number   string              `json:"number"`
	Name     string              `json:"name"`
	Hex      string              `json:"hex"`
	Index    int                 `json:"index"`
	Distance uint32              `json:"distance"`
	DeltaE   float64             `json:"delta_e"`
}

type paletteNearestResult struct {
	Palette       string          `json:"palette"`
	Results       []nearestResult `json:"results"`
	DistanceCalls uint64          `json:"distance_calls"`
}

func (s *Server) handlePaletteNearest(args json.RawMessage) (interface{}, error) {
	var a paletteNearestArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Palette == "" {
		return nil, errors.New("palette is required")
	}
	if len(a.Colors) == 0 {
		return nil, errors.New("at least one color is required")
	}

	m, err := s.matchers.Matcher(a.Palette, a.LegacySearch)
	if err != nil {
		return nil, err
	}

	var counter kdtree.Counter
	res := &paletteNearestResult{
		Palette: m.Palette().Name,
		Results: make([]nearestResult, len(a.Colors)),
	}
	for i, c := range a.Colors {
		match, err := m.Match(palette.RGB{c.R, c.G, c.B}, &counter)
		if err != nil {
			return nil, err
		}
		res.Results[i] = nearestResult{
			Query:    imaging.Describe(c),
			Number:   match.Entry.Number,
			Name:     match.Entry.Name,
			Hex:      match.Entry.Hex,
			Index:    match.Index,
			Distance: match.Distance,
			DeltaE:   match.DeltaE,
		}
	}
	res.DistanceCalls = counter.Load()
	return res, nil
}

type paletteSaveArgs struct {
	Palette string `json:"palette"`
	Path    string `json:"path"`
}

type paletteSaveResult struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// handlePaletteSave writes a palette, bundled or from a file, to path with
// every entry's rgb triple and hex value filled in.
func (s *Server) handlePaletteSave(args json.RawMessage) (interface{}, error) {
	var a paletteSaveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Palette == "" {
		return nil, errors.New("palette is required")
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}

	m, err := s.matchers.Matcher(a.Palette, false)
	if err != nil {
		return nil, err
	}
	p := m.Palette()
	if err := palette.Save(a.Path, p); err != nil {
		return nil, fmt.Errorf("failed to save palette: %w", err)
	}
	return &paletteSaveResult{Path: a.Path, Name: p.Name, Count: len(p.Colors)}, nil
}

// === Mosaic Handlers ===

type mosaicTilesArgs struct {
	mosaic.Config
	Path string `json:"path"`
}

type mosaicTilesResult struct {
	TilesX        int                 `json:"tiles_x"`
	TilesY        int                 `json:"tiles_y"`
	TileWidthPx   int                 `json:"tile_width_px"`
	TileHeightPx  int                 `json:"tile_height_px"`
	Panes         []mosaic.PaneResult `json:"panes"`
	DistanceCalls uint64              `json:"distance_calls,omitempty"`
	MeanDeltaE    float64             `json:"mean_delta_e,omitempty"`
}

// handleMosaicTiles lays the tile grid over an image and reports each
// tile's average color. When tile_colors is given every tile is matched
// too; nothing is written to disk.
func (s *Server) handleMosaicTiles(args json.RawMessage) (interface{}, error) {
	var a mosaicTilesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg := a.Config
	if a.Path != "" {
		cfg.Input = a.Path
	}
	if cfg.Input == "" {
		return nil, errors.New("path is required")
	}
	cfg.ApplyDefaults()
	if err := cfg.ValidateLayout(); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(cfg.Input)
	if err != nil {
		return nil, err
	}
	m, err := mosaic.New(&cfg, img)
	if err != nil {
		return nil, err
	}
	if err := m.Sample(s.ctx, cfg.Workers); err != nil {
		return nil, err
	}

	res := &mosaicTilesResult{
		TilesX:       m.Layout.UsedTilesX(),
		TilesY:       m.Layout.UsedTilesY(),
		TileWidthPx:  m.Layout.TileW,
		TileHeightPx: m.Layout.TileH,
	}

	if cfg.TileColors != "" {
		matcher, err := s.matchers.Matcher(cfg.TileColors, cfg.LegacySearch)
		if err != nil {
			return nil, err
		}
		var counter kdtree.Counter
		if err := m.Match(s.ctx, matcher, cfg.Workers, &counter); err != nil {
			return nil, err
		}
		res.DistanceCalls = counter.Load()
		res.MeanDeltaE = m.MeanDeltaE()
	}

	res.Panes = m.Panes
	return res, nil
}

type mosaicBuildArgs struct {
	ConfigPath string         `json:"config_path"`
	Config     *mosaic.Config `json:"config"`
	Preview    bool           `json:"preview"`
}

type mosaicBuildResult struct {
	Report  *mosaic.Report         `json:"report"`
	Preview *imaging.PreviewResult `json:"preview,omitempty"`
}

func (s *Server) handleMosaicBuild(args json.RawMessage) (interface{}, error) {
	var a mosaicBuildArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var cfg *mosaic.Config
	switch {
	case a.Config != nil:
		cfg = a.Config
		cfg.ApplyDefaults()
	case a.ConfigPath != "":
		loaded, err := mosaic.LoadConfig(a.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		return nil, errors.New("config or config_path is required")
	}

	runner := &mosaic.Runner{Images: s.cache, Matchers: s.matchers, Logger: s.logger}
	report, err := runner.Run(s.ctx, cfg)
	if err != nil {
		return nil, err
	}

	res := &mosaicBuildResult{Report: report}
	if a.Preview {
		out, err := imaging.Open(cfg.Output)
		if err != nil {
			return nil, err
		}
		if res.Preview, err = imaging.Preview(out, 512, 512); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func toRGBColor(c palette.RGB) imaging.RGBColor {
	return imaging.RGBColor{R: c[0], G: c[1], B: c[2]}
}
