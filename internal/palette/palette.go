package palette

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

//go:embed palettes/*.json
var bundled embed.FS

// ErrInvalidColor is returned when a palette entry has neither a usable rgb
// triple nor a usable hex string.
var ErrInvalidColor = errors.New("palette: invalid color")

// RGB is an 8-bit red, green, blue triple. It encodes as a JSON array.
type RGB [3]uint8

// String renders the color as "rgb (r, g, b)".
func (c RGB) String() string {
	return fmt.Sprintf("rgb (%d, %d, %d)", c[0], c[1], c[2])
}

// Hex renders the color as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c[0], c[1], c[2])
}

// Colorful converts the color for perceptual comparisons.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c[0]) / 255.0,
		G: float64(c[1]) / 255.0,
		B: float64(c[2]) / 255.0,
	}
}

// Entry is one usable tile color.
type Entry struct {
	RGB    RGB    `json:"rgb"`
	Hex    string `json:"hex"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

// HSL returns hue in degrees and saturation and lightness in [0, 1].
func (e Entry) HSL() (h, s, l float64) {
	return e.RGB.Colorful().Hsl()
}

// Label renders the entry as "number name", falling back to the hex value.
func (e Entry) Label() string {
	label := strings.TrimSpace(e.Number + " " + e.Name)
	if label == "" {
		return e.Hex
	}
	return label
}

// Palette is a named set of tile colors, in file order.
type Palette struct {
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	Description string  `json:"description"`
	Colors      []Entry `json:"colors"`
}

type rawEntry struct {
	RGB    *RGB   `json:"rgb"`
	Hex    string `json:"hex"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

type rawPalette struct {
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	Description string     `json:"description"`
	Colors      []rawEntry `json:"colors"`
}

// Parse decodes a palette document. When an entry carries both "rgb" and
// "hex", the rgb triple wins and the hex string is regenerated from it.
func Parse(data []byte) (*Palette, error) {
	var raw rawPalette
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error unmarshalling palette: %w", err)
	}

	p := &Palette{
		Name:        raw.Name,
		URL:         raw.URL,
		Description: raw.Description,
		Colors:      make([]Entry, 0, len(raw.Colors)),
	}
	for i, re := range raw.Colors {
		var rgb RGB
		switch {
		case re.RGB != nil:
			rgb = *re.RGB
		case re.Hex != "":
			c, err := colorful.Hex(re.Hex)
			if err != nil {
				return nil, fmt.Errorf("%w: entry %d (%s): %v", ErrInvalidColor, i, re.Name, err)
			}
			rgb[0], rgb[1], rgb[2] = c.RGB255()
		default:
			return nil, fmt.Errorf("%w: entry %d (%s) has no rgb or hex", ErrInvalidColor, i, re.Name)
		}
		p.Colors = append(p.Colors, Entry{
			RGB:    rgb,
			Hex:    rgb.Hex(),
			Name:   re.Name,
			Number: re.Number,
		})
	}
	return p, nil
}

// Load returns the bundled palette called ref, or reads ref as a file path.
func Load(ref string) (*Palette, error) {
	data, err := bundled.ReadFile(path.Join("palettes", ref+".json"))
	if err != nil {
		var fsErr error
		data, fsErr = os.ReadFile(ref)
		if fsErr != nil {
			return nil, fmt.Errorf("error reading palette %q: %w", ref, fsErr)
		}
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("palette %q: %w", ref, err)
	}
	return p, nil
}

// Save writes p to filename as indented JSON. Every entry is written with
// both its rgb triple and normalized hex string, so the file loads back to
// the same palette.
func Save(filename string, p *Palette) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

// Names lists the bundled palettes.
func Names() []string {
	entries, err := fs.ReadDir(bundled, "palettes")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}
