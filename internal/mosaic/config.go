package mosaic

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"runtime"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/tile-mosaic-mcp/internal/imaging"
)

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// DefaultGroutColor fills the gaps between tiles when no grout color is set.
const DefaultGroutColor = "#FFFFFF"

// Config describes one mosaic run. Lengths are in output units; the canvas
// is PixelsPerUnit pixels per unit.
type Config struct {
	TileColors         string  `json:"tile_colors"` // bundled palette name or palette file path
	Input              string  `json:"input"`
	Output             string  `json:"output"`
	OutputWidth        float64 `json:"output_width"`
	OutputHeight       float64 `json:"output_height"`
	TileSizeX          float64 `json:"tile_size_x"`
	TileSizeY          float64 `json:"tile_size_y"`
	TileSpaceX         float64 `json:"tile_space_x"`
	TileSpaceY         float64 `json:"tile_space_y"`
	TilesPerPaneWidth  int     `json:"tiles_per_pane_width"`
	TilesPerPaneHeight int     `json:"tiles_per_pane_height"`

	ExportJSON    string  `json:"export_json,omitempty"`
	Legend        string  `json:"legend,omitempty"`
	GroutColor    string  `json:"grout_color,omitempty"`
	Workers       int     `json:"workers,omitempty"`
	LegacySearch  bool    `json:"legacy_search,omitempty"`
	SmoothRadius  float64 `json:"smooth_radius,omitempty"`
	PixelsPerUnit float64 `json:"pixels_per_unit,omitempty"`
}

// ExampleConfig returns a small working configuration using the bundled
// web16 palette.
func ExampleConfig() Config {
	return Config{
		TileColors:         "web16",
		Input:              "./images/input.png",
		Output:             "./images/output/mosaic.png",
		OutputWidth:        10,
		OutputHeight:       10,
		TileSizeX:          2,
		TileSizeY:          2,
		TileSpaceX:         1,
		TileSpaceY:         1,
		TilesPerPaneWidth:  3,
		TilesPerPaneHeight: 3,
		ExportJSON:         "./images/output/mosaic.json",
		Legend:             "./images/output/legend.png",
		GroutColor:         DefaultGroutColor,
		PixelsPerUnit:      30,
	}
}

// LoadConfig reads a JSON config from path, applies defaults and validates
// it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a JSON config, applies defaults and validates it.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteExampleConfig writes ExampleConfig to path and returns it.
func WriteExampleConfig(path string) (*Config, error) {
	cfg := ExampleConfig()
	if err := SaveConfig(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig writes cfg to path as indented JSON.
func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ApplyDefaults fills optional fields left at their zero value.
func (c *Config) ApplyDefaults() {
	if c.GroutColor == "" {
		c.GroutColor = DefaultGroutColor
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.PixelsPerUnit <= 0 {
		c.PixelsPerUnit = 1
	}
}

// Validate reports the first problem found in c as an error wrapping
// ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.TileColors == "":
		return invalid("tile_colors is required")
	case c.Input == "":
		return invalid("input is required")
	case c.Output == "":
		return invalid("output is required")
	}
	return c.ValidateLayout()
}

// ValidateLayout checks only the fields that shape the tile grid and the
// output canvas, ignoring palette and file paths.
func (c *Config) ValidateLayout() error {
	switch {
	case c.OutputWidth <= 0 || c.OutputHeight <= 0:
		return invalid("output size %gx%g must be positive", c.OutputWidth, c.OutputHeight)
	case c.TileSizeX <= 0 || c.TileSizeY <= 0:
		return invalid("tile size %gx%g must be positive", c.TileSizeX, c.TileSizeY)
	case c.TileSpaceX < 0 || c.TileSpaceY < 0:
		return invalid("tile spacing %gx%g must not be negative", c.TileSpaceX, c.TileSpaceY)
	case c.TileSpaceX >= c.TileSizeX || c.TileSpaceY >= c.TileSizeY:
		return invalid("tile spacing %gx%g must be smaller than tile size %gx%g",
			c.TileSpaceX, c.TileSpaceY, c.TileSizeX, c.TileSizeY)
	case c.TilesPerPaneWidth <= 0 || c.TilesPerPaneHeight <= 0:
		return invalid("tiles per pane %dx%d must be positive", c.TilesPerPaneWidth, c.TilesPerPaneHeight)
	case c.SmoothRadius < 0:
		return invalid("smooth_radius %g must not be negative", c.SmoothRadius)
	case c.PixelsPerUnit < 0:
		return invalid("pixels_per_unit %g must not be negative", c.PixelsPerUnit)
	case c.Workers < 0:
		return invalid("workers %d must not be negative", c.Workers)
	}

	if c.GroutColor != "" {
		if _, err := colorful.Hex(c.GroutColor); err != nil {
			return invalid("grout_color %q: %v", c.GroutColor, err)
		}
	}

	tilesX, tilesY := c.TileCounts()
	if tilesX < c.TilesPerPaneWidth || tilesY < c.TilesPerPaneHeight {
		return invalid("mosaic of %dx%d tiles cannot hold one pane of %dx%d",
			tilesX, tilesY, c.TilesPerPaneWidth, c.TilesPerPaneHeight)
	}
	return nil
}

// TileCounts returns the number of tiles across and down the mosaic.
func (c *Config) TileCounts() (int, int) {
	return imaging.TileCounts(c.OutputWidth, c.OutputHeight, c.TileSizeX, c.TileSizeY)
}

// Grout returns the parsed grout color.
func (c *Config) Grout() color.Color {
	hex := c.GroutColor
	if hex == "" {
		hex = DefaultGroutColor
	}
	cf, err := colorful.Hex(hex)
	if err != nil {
		return color.White
	}
	r, g, b := cf.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
