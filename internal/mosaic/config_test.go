package mosaic

import (
	"image/color"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		TileColors:         "primaries",
		Input:              "in.png",
		Output:             "out.png",
		OutputWidth:        4,
		OutputHeight:       4,
		TileSizeX:          1,
		TileSizeY:          1,
		TilesPerPaneWidth:  2,
		TilesPerPaneHeight: 2,
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
		"tile_colors": "web16",
		"input": "in.png",
		"output": "out.jpg",
		"output_width": 600,
		"output_height": 400,
		"tile_size_x": 10,
		"tile_size_y": 10,
		"tile_space_x": 1,
		"tile_space_y": 1,
		"tiles_per_pane_width": 4,
		"tiles_per_pane_height": 4
	}`))
	require.NoError(t, err)

	assert.Equal(t, DefaultGroutColor, cfg.GroutColor)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Workers)
	assert.Equal(t, 1.0, cfg.PixelsPerUnit)
	assert.False(t, cfg.LegacySearch)

	x, y := cfg.TileCounts()
	assert.Equal(t, 60, x)
	assert.Equal(t, 40, y)
}

func TestParseConfig_Malformed(t *testing.T) {
	_, err := ParseConfig([]byte(`{"tile_colors": `))
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing palette", func(c *Config) { c.TileColors = "" }},
		{"missing input", func(c *Config) { c.Input = "" }},
		{"missing output", func(c *Config) { c.Output = "" }},
		{"zero output width", func(c *Config) { c.OutputWidth = 0 }},
		{"negative tile size", func(c *Config) { c.TileSizeY = -1 }},
		{"negative spacing", func(c *Config) { c.TileSpaceX = -0.5 }},
		{"spacing as wide as tile", func(c *Config) { c.TileSpaceX = 1 }},
		{"zero pane width", func(c *Config) { c.TilesPerPaneWidth = 0 }},
		{"pane larger than mosaic", func(c *Config) { c.TilesPerPaneHeight = 5 }},
		{"negative smoothing", func(c *Config) { c.SmoothRadius = -1 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"bad grout", func(c *Config) { c.GroutColor = "white" }},
	}

	base := validConfig()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestWriteExampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	written, err := WriteExampleConfig(path)
	require.NoError(t, err)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, written.TileColors, loaded.TileColors)
	assert.Equal(t, written.TileSizeX, loaded.TileSizeX)
	assert.Equal(t, written.TilesPerPaneWidth, loaded.TilesPerPaneWidth)
	assert.Equal(t, written.PixelsPerUnit, loaded.PixelsPerUnit)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestConfig_Grout(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, cfg.Grout())

	cfg.GroutColor = "#102030"
	assert.Equal(t, color.NRGBA{0x10, 0x20, 0x30, 255}, cfg.Grout())
}
