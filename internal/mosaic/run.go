package mosaic

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/ironsheep/tile-mosaic-mcp/internal/imaging"
	"github.com/ironsheep/tile-mosaic-mcp/internal/kdtree"
	"github.com/ironsheep/tile-mosaic-mcp/internal/palette"
)

// Report summarizes a completed run.
type Report struct {
	Palette       string       `json:"palette"`
	Input         string       `json:"input"`
	Output        string       `json:"output"`
	ExportJSON    string       `json:"export_json,omitempty"`
	Legend        string       `json:"legend,omitempty"`
	TilesX        int          `json:"tiles_x"` // tile columns painted
	TilesY        int          `json:"tiles_y"` // tile rows painted
	Panes         int          `json:"panes"`
	Tiles         int          `json:"tiles"`
	OutputWidth   int          `json:"output_width_px"`
	OutputHeight  int          `json:"output_height_px"`
	Tally         []TallyEntry `json:"tally"`
	DistanceCalls uint64       `json:"distance_calls"`
	MeanDeltaE    float64      `json:"mean_delta_e"`
	LegacySearch  bool         `json:"legacy_search"`
}

// Runner executes mosaic runs. Loaded palettes and images come from the
// supplied sources so a long-lived server can reuse them across runs.
type Runner struct {
	Images   *imaging.ImageCache
	Matchers MatcherSource
	Logger   *slog.Logger
}

// MatcherSource returns a matcher for a palette reference.
type MatcherSource interface {
	Matcher(ref string, legacy bool) (*palette.Matcher, error)
}

// LoadMatcher loads the palette ref and builds a matcher for it.
func LoadMatcher(ref string, legacy bool) (*palette.Matcher, error) {
	p, err := palette.Load(ref)
	if err != nil {
		return nil, err
	}
	return palette.NewMatcher(p, palette.WithLegacySearch(legacy))
}

type loadMatchers struct{}

func (loadMatchers) Matcher(ref string, legacy bool) (*palette.Matcher, error) {
	return LoadMatcher(ref, legacy)
}

// Run executes cfg with a fresh image cache and palette load.
func Run(ctx context.Context, cfg *Config, logger *slog.Logger) (*Report, error) {
	r := &Runner{Images: imaging.NewImageCache(), Logger: logger}
	return r.Run(ctx, cfg)
}

// Run loads the palette and input image named by cfg, matches every tile,
// and writes the output image plus the optional JSON export and legend.
//
// Parameters:
//   - ctx: Cancels the sampling and matching workers.
//   - cfg: A config with defaults applied. It is validated before any file
//     is read.
//
// Returns:
//   - *Report: Layout, timing, distance call count and the per-color tally.
//   - error: Non-nil if any step fails. Files written before the failure are
//     left in place.
//
// # Errors
//
//   - Returns error if cfg fails Validate
//   - Returns error if the palette or input image cannot be loaded
//   - Returns error if the output, export or legend cannot be written
//   - Returns ctx.Err() if ctx is cancelled while tiles are processed
func (r *Runner) Run(ctx context.Context, cfg *Config) (*Report, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	matchers := r.Matchers
	if matchers == nil {
		matchers = loadMatchers{}
	}
	matcher, err := matchers.Matcher(cfg.TileColors, cfg.LegacySearch)
	if err != nil {
		return nil, fmt.Errorf("failed to load palette: %w", err)
	}
	pal := matcher.Palette()
	logger.Debug("palette ready",
		"palette", pal.Name,
		"colors", len(pal.Colors),
		"tree_height", matcher.Tree().Height(),
	)

	var img image.Image
	if r.Images != nil {
		img, err = r.Images.Load(cfg.Input)
	} else {
		img, err = imaging.Open(cfg.Input)
	}
	if err != nil {
		return nil, err
	}

	m, err := New(cfg, img)
	if err != nil {
		return nil, err
	}
	logger.Debug("layout ready",
		"tiles_x", m.Layout.UsedTilesX(),
		"tiles_y", m.Layout.UsedTilesY(),
		"panes", len(m.Panes),
		"tile_px", fmt.Sprintf("%dx%d", m.Layout.TileW, m.Layout.TileH),
	)

	if err := m.Sample(ctx, cfg.Workers); err != nil {
		return nil, err
	}
	var counter kdtree.Counter
	if err := m.Match(ctx, matcher, cfg.Workers, &counter); err != nil {
		return nil, err
	}

	canvas, err := m.Paint(cfg)
	if err != nil {
		return nil, err
	}
	if err := imaging.Save(canvas.Image(), cfg.Output); err != nil {
		return nil, err
	}

	tally := m.Tally()
	if cfg.ExportJSON != "" {
		if err := WriteExport(cfg.ExportJSON, m.Export(pal.Name)); err != nil {
			return nil, err
		}
	}
	if cfg.Legend != "" {
		legend := RenderLegend(fmt.Sprintf("%s: %d tiles", pal.Name, m.TileCount()), tally)
		if err := imaging.Save(legend, cfg.Legend); err != nil {
			return nil, err
		}
	}

	bounds := canvas.Image().Bounds()
	report := &Report{
		Palette:       pal.Name,
		Input:         cfg.Input,
		Output:        cfg.Output,
		ExportJSON:    cfg.ExportJSON,
		Legend:        cfg.Legend,
		TilesX:        m.Layout.UsedTilesX(),
		TilesY:        m.Layout.UsedTilesY(),
		Panes:         len(m.Panes),
		Tiles:         m.TileCount(),
		OutputWidth:   bounds.Dx(),
		OutputHeight:  bounds.Dy(),
		Tally:         tally,
		DistanceCalls: counter.Load(),
		MeanDeltaE:    m.MeanDeltaE(),
		LegacySearch:  cfg.LegacySearch,
	}

	logger.Info("mosaic complete",
		"output", cfg.Output,
		"tiles", report.Tiles,
		"colors_used", len(tally),
		"distance_calls", report.DistanceCalls,
		"mean_delta_e", report.MeanDeltaE,
		"elapsed", time.Since(start),
	)
	return report, nil
}
