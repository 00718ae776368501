package mosaic

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ironsheep/tile-mosaic-mcp/internal/palette"
)

// Export is the JSON form of a matched mosaic, readable by downstream
// layout tools.
type Export struct {
	Palette string          `json:"palette"`
	Tiles   [][]palette.RGB `json:"tiles"` // rows of matched colors, top to bottom
	Panes   []ExportPane    `json:"panes"`
}

// ExportPane lists the matched colors of one pane in tile order.
type ExportPane struct {
	Index   int           `json:"index"`
	Row     int           `json:"row"`
	Col     int           `json:"col"`
	Colors  []palette.RGB `json:"colors"`
	Numbers []string      `json:"numbers"` // palette entry numbers, parallel to Colors
}

// Export builds the JSON export of m. Only tiles covered by whole panes are
// included; unmatched tiles are exported as black.
func (m *Mosaic) Export(paletteName string) *Export {
	rows, cols := m.Layout.UsedTilesY(), m.Layout.UsedTilesX()
	ex := &Export{
		Palette: paletteName,
		Tiles:   make([][]palette.RGB, rows),
		Panes:   make([]ExportPane, 0, len(m.Panes)),
	}
	for r := range ex.Tiles {
		ex.Tiles[r] = make([]palette.RGB, cols)
	}

	for _, p := range m.Panes {
		ep := ExportPane{
			Index:   p.Index,
			Row:     p.Row,
			Col:     p.Col,
			Colors:  make([]palette.RGB, len(p.Tiles)),
			Numbers: make([]string, len(p.Tiles)),
		}
		for i, t := range p.Tiles {
			if t.Match == nil {
				continue
			}
			ep.Colors[i] = t.Match.Entry.RGB
			ep.Numbers[i] = t.Match.Entry.Number
			ex.Tiles[t.Row][t.Col] = t.Match.Entry.RGB
		}
		ex.Panes = append(ex.Panes, ep)
	}
	return ex
}

// WriteExport writes ex to path as JSON, creating parent directories.
func WriteExport(path string, ex *Export) error {
	data, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
