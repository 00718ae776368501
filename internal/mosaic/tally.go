package mosaic

import (
	"sort"

	"github.com/ironsheep/tile-mosaic-mcp/internal/palette"
)

// TallyEntry counts how many tiles use one palette entry.
type TallyEntry struct {
	Index int           `json:"index"` // position of Entry in the palette
	Entry palette.Entry `json:"entry"`
	Count int           `json:"count"`
}

// Tally counts matched tiles per palette entry. Entries are ordered by
// count, most used first; equal counts keep palette order.
func (m *Mosaic) Tally() []TallyEntry {
	byIndex := make(map[int]*TallyEntry)
	for _, p := range m.Panes {
		for _, t := range p.Tiles {
			if t.Match == nil {
				continue
			}
			e, ok := byIndex[t.Match.Index]
			if !ok {
				e = &TallyEntry{Index: t.Match.Index, Entry: t.Match.Entry}
				byIndex[t.Match.Index] = e
			}
			e.Count++
		}
	}

	tally := make([]TallyEntry, 0, len(byIndex))
	for _, e := range byIndex {
		tally = append(tally, *e)
	}
	sort.Slice(tally, func(i, j int) bool {
		if tally[i].Count != tally[j].Count {
			return tally[i].Count > tally[j].Count
		}
		return tally[i].Index < tally[j].Index
	})
	return tally
}
