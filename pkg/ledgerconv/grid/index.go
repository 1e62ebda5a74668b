package grid

import "strings"

// LabelIndex maps normalized cell text to the first position it occurs at.
// Keys keep their insertion order, which decides substring-fallback ties.
type LabelIndex struct {
	pos  map[string]Coord
	keys []string
}

// BuildLabelIndex scans g row by row, left to right. Only the first
// occurrence of each normalized key is kept; empty keys are skipped.
func BuildLabelIndex(g Grid) *LabelIndex {
	idx := &LabelIndex{pos: make(map[string]Coord)}
	for r, row := range g {
		for c := range row {
			key := NormalizeKey(g.Cell(r, c))
			if key == "" {
				continue
			}
			if _, ok := idx.pos[key]; ok {
				continue
			}
			idx.pos[key] = Coord{Row: r, Col: c}
			idx.keys = append(idx.keys, key)
		}
	}
	return idx
}

// Len returns the number of distinct keys.
func (idx *LabelIndex) Len() int {
	return len(idx.keys)
}

// Keys returns the keys in insertion order.
func (idx *LabelIndex) Keys() []string {
	out := make([]string, len(idx.keys))
	copy(out, idx.keys)
	return out
}

// Lookup returns the position of a label after normalizing it.
func (idx *LabelIndex) Lookup(label string) (Coord, bool) {
	key := NormalizeKey(label)
	if key == "" {
		return Coord{}, false
	}
	c, ok := idx.pos[key]
	return c, ok
}

// LookupContains returns the first indexed key, in insertion order, that
// contains the normalized label.
func (idx *LabelIndex) LookupContains(label string) (string, Coord, bool) {
	needle := NormalizeKey(label)
	if needle == "" {
		return "", Coord{}, false
	}
	for _, k := range idx.keys {
		if strings.Contains(k, needle) {
			return k, idx.pos[k], true
		}
	}
	return "", Coord{}, false
}

// LookupOptions controls GetBelowByLabels.
type LookupOptions struct {
	// DefaultValue is returned when no label matches or the value cell is empty.
	DefaultValue string
	// DisableContainsFallback turns off the substring search that runs when no
	// candidate matches exactly.
	DisableContainsFallback bool
}

// AllowContainsFallback reports whether the substring search is enabled.
func (o LookupOptions) AllowContainsFallback() bool {
	return !o.DisableContainsFallback
}

// WithDefault returns options with the given default value.
func WithDefault(v string) LookupOptions {
	return LookupOptions{DefaultValue: v}
}

// GetBelowByLabels reads the cell directly below the first matching label.
//
// Candidates are tried in order for an exact normalized match. An exact hit
// ends the search even when the cell below it is empty. Without any exact
// hit, each candidate in order is searched as a substring of the indexed
// keys. Absence is reported through opts.DefaultValue.
func (idx *LabelIndex) GetBelowByLabels(g Grid, labels []string, opts LookupOptions) string {
	for _, label := range labels {
		if hit, ok := idx.Lookup(label); ok {
			return valueOr(g, hit.Below(), opts.DefaultValue)
		}
	}

	if opts.AllowContainsFallback() {
		for _, label := range labels {
			if _, hit, ok := idx.LookupContains(label); ok {
				return valueOr(g, hit.Below(), opts.DefaultValue)
			}
		}
	}

	return opts.DefaultValue
}

// GetBelow is GetBelowByLabels for a single label.
func (idx *LabelIndex) GetBelow(g Grid, label string, opts LookupOptions) string {
	return idx.GetBelowByLabels(g, []string{label}, opts)
}

func valueOr(g Grid, at Coord, def string) string {
	if v := g.Cell(at.Row, at.Col); v != "" {
		return v
	}
	return def
}
