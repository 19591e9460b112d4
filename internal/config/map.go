package config

import (
	"slices"
	"unicode/utf8"

	"github.com/f3rmion/tilesmith/internal/errors"
	"github.com/f3rmion/tilesmith/internal/tilemap"
)

// legendPool supplies characters for exported maps.
const legendPool = "#abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789@%&+=~^"

// MapDoc is a tilemap drawn as text. Each character of Rows is looked up in
// Legend to get a tile key; space and '.' are empty unless the legend says
// otherwise. Rows are listed top first and the last row is y = 0.
type MapDoc struct {
	Name   string            `yaml:"name"`
	Salt   int               `yaml:"salt,omitempty"`
	Legend map[string]string `yaml:"legend"`
	Rows   []string          `yaml:"rows"`
}

// Snapshot converts the drawing into tile keys.
func (m *MapDoc) Snapshot() (*tilemap.Snapshot, error) {
	legend := map[rune]string{' ': "", '.': ""}
	for k, v := range m.Legend {
		r, size := utf8.DecodeRuneInString(k)
		if size == 0 || size != len(k) {
			return nil, errors.InvalidArgumentf("legend key %q must be a single character", k)
		}
		legend[r] = v
	}

	width := 0
	for _, row := range m.Rows {
		width = max(width, utf8.RuneCountInString(row))
	}
	height := len(m.Rows)

	s := &tilemap.Snapshot{
		Name:   m.Name,
		Salt:   m.Salt,
		Width:  width,
		Height: height,
		Cells:  make([]string, width*height),
	}
	for r, row := range m.Rows {
		y := height - 1 - r
		x := 0
		for _, ch := range row {
			key, ok := legend[ch]
			if !ok {
				return nil, errors.InvalidArgumentf("row %d: character %q is not in the legend", r, ch).
					WithMeta("x", x).
					WithMeta("y", y)
			}
			s.Cells[y*width+x] = key
			x++
		}
	}
	return s, nil
}

// MapDocFromSnapshot draws a snapshot, picking a legend character per tile
// key in sorted key order.
func MapDocFromSnapshot(s *tilemap.Snapshot) (*MapDoc, error) {
	var keys []string
	for _, k := range s.Cells {
		if k != "" && !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	pool := []rune(legendPool)
	if len(keys) > len(pool) {
		return nil, errors.InvalidArgumentf("map %q uses %d tiles, at most %d can be drawn", s.Name, len(keys), len(pool))
	}

	doc := &MapDoc{Name: s.Name, Salt: s.Salt, Legend: make(map[string]string, len(keys))}
	chars := make(map[string]rune, len(keys))
	for i, k := range keys {
		chars[k] = pool[i]
		doc.Legend[string(pool[i])] = k
	}

	for y := s.Height - 1; y >= 0; y-- {
		row := make([]rune, s.Width)
		for x := range row {
			row[x] = '.'
			if k := s.Key(x, y); k != "" {
				row[x] = chars[k]
			}
		}
		doc.Rows = append(doc.Rows, string(row))
	}
	return doc, nil
}
