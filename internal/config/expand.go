package config

import (
	"fmt"
	"strings"

	"github.com/f3rmion/tilesmith/internal/errors"
	"github.com/f3rmion/tilesmith/internal/tiles"
)

// Expand returns a copy of the document with every generated part written
// out: template groups get explicit rules, simple groups get per-tile
// outputs and sliced pattern groups get explicit patterns. The templates
// section is dropped since nothing refers to it any more.
func (d *TilesetDoc) Expand() (*TilesetDoc, error) {
	b := newBuilder(d)
	if err := b.templates(); err != nil {
		return nil, err
	}

	out := &TilesetDoc{Name: d.Name}
	for _, pd := range d.Patterns {
		out.Patterns = append(out.Patterns, expandPatterns(pd))
	}

	for _, gd := range d.Groups {
		eg, err := b.expandGroup(gd)
		if err != nil {
			return nil, errors.Wrapf(err, "group %q", gd.Name)
		}
		out.Groups = append(out.Groups, eg)
	}
	return out, nil
}

func expandPatterns(pd PatternGroupDoc) PatternGroupDoc {
	if len(pd.Patterns) > 0 {
		return pd
	}

	w, h := max(pd.Width, 1), max(pd.Height, 1)
	out := PatternGroupDoc{Name: pd.Name, Width: w, Height: h}
	for i := 0; i < pd.Count; i++ {
		p := PatternDoc{Name: fmt.Sprintf("%s_%d", pd.Name, i)}
		for r := 0; r < h; r++ {
			row := make([]OutputDoc, w)
			for c := range row {
				if k := i*w*h + r*w + c; k < len(pd.Outputs) {
					row[c] = pd.Outputs[k]
				}
			}
			p.Rows = append(p.Rows, row)
		}
		out.Patterns = append(out.Patterns, p)
	}
	return out
}

func (b *builder) expandGroup(gd GroupDoc) (GroupDoc, error) {
	switch strings.ToLower(gd.Kind) {
	case KindSimple:
		if len(gd.Outputs) == 0 {
			return gd, nil
		}
		if len(gd.Outputs) < len(gd.Tiles) {
			return gd, errors.InvalidArgumentf("%d tiles but only %d outputs", len(gd.Tiles), len(gd.Outputs))
		}
		out := GroupDoc{Name: gd.Name, Kind: gd.Kind}
		for i, td := range gd.Tiles {
			o := gd.Outputs[i]
			out.Tiles = append(out.Tiles, TileDoc{Name: td.Name, Collider: td.Collider, Output: &o})
		}
		return out, nil

	case KindConnected:
		if gd.Template == "" {
			return gd, nil
		}
		t, ok := b.connected[gd.Template]
		if !ok {
			return gd, errors.NotFoundf("connected template %q not defined", gd.Template)
		}
		out := GroupDoc{Name: gd.Name, Kind: gd.Kind, Collider: gd.Collider}
		masks := t.Masks()
		for i := 0; i < min(len(masks), len(gd.Outputs)); i++ {
			out.Rules = append(out.Rules, ConnectedRuleDoc{
				Output: gd.Outputs[i],
				Mask:   maskNames(masks[i]),
			})
		}
		return out, nil

	case KindRule:
		if gd.Template == "" {
			return gd, nil
		}
		t, ok := b.rule[gd.Template]
		if !ok {
			return gd, errors.NotFoundf("rule template %q not defined", gd.Template)
		}
		if len(gd.Outputs) < t.RuleSetsCount() {
			return gd, errors.InvalidArgumentf("template %q needs %d outputs, got %d", t.Name(), t.RuleSetsCount(), len(gd.Outputs))
		}

		out := GroupDoc{Name: gd.Name, Kind: gd.Kind, Tiles: make([]TileDoc, t.Count())}
		for i := range out.Tiles {
			out.Tiles[i].Name = fmt.Sprintf("%s_%d", t.Name(), i)
			if i < len(gd.Tiles) {
				out.Tiles[i].Name = gd.Tiles[i].Name
				out.Tiles[i].Collider = gd.Tiles[i].Collider
			}
		}
		for _, cell := range t.RuleCells() {
			slots := make([]string, len(cell.Slots))
			for i, v := range cell.Slots {
				slots[i] = FormatSlot(v)
			}
			out.Tiles[cell.Type].Rules = append(out.Tiles[cell.Type].Rules, RuleDoc{
				Output: gd.Outputs[cell.Index],
				Slots:  slots,
			})
		}
		return out, nil
	}
	return gd, errors.InvalidArgumentf("unknown group kind %q", gd.Kind)
}

func maskNames(c tiles.Configuration) []string {
	dirs := c.Directions()
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.String()
	}
	return names
}
