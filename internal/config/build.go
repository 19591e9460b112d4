package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/f3rmion/tilesmith/internal/errors"
	"github.com/f3rmion/tilesmith/internal/sprite"
	"github.com/f3rmion/tilesmith/internal/template"
	"github.com/f3rmion/tilesmith/internal/tiles"
)

// Build validates the document and assembles the tileset. Problems that do
// not stop the build, such as randomized patterns of different sizes, are
// logged and returned as warnings.
func (d *TilesetDoc) Build() (*tiles.Tileset, []string, error) {
	b := newBuilder(d)
	if err := b.templates(); err != nil {
		return nil, nil, err
	}

	tb := tiles.NewBuilder(d.Name)
	for i := range d.Patterns {
		g, err := b.patternGroup(&d.Patterns[i])
		if err != nil {
			return nil, nil, errors.Wrapf(err, "pattern group %q", d.Patterns[i].Name)
		}
		tb.AddPatterns(g)
	}

	for i := range d.Groups {
		if err := b.group(tb, &d.Groups[i]); err != nil {
			return nil, nil, errors.Wrapf(err, "group %q", d.Groups[i].Name)
		}
	}

	ts, err := tb.Build()
	if err != nil {
		return nil, nil, err
	}

	for _, w := range b.warnings {
		slog.Warn("tileset", "name", d.Name, "warning", w)
	}
	slog.Debug("tileset built", "name", d.Name, "tiles", ts.Len(), "groups", len(ts.Groups()))
	return ts, b.warnings, nil
}

type builder struct {
	doc       *TilesetDoc
	groups    map[string]*sprite.PatternGroup
	patterns  map[string]*sprite.Pattern
	connected map[string]*template.ConnectedTemplate
	rule      map[string]*template.RuleTemplate
	warnings  []string
}

func newBuilder(d *TilesetDoc) *builder {
	return &builder{
		doc:       d,
		groups:    make(map[string]*sprite.PatternGroup),
		patterns:  make(map[string]*sprite.Pattern),
		connected: make(map[string]*template.ConnectedTemplate),
		rule:      make(map[string]*template.RuleTemplate),
	}
}

func (b *builder) warnf(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

func (b *builder) templates() error {
	for _, td := range b.doc.Templates.Connected {
		if _, dup := b.connected[td.Name]; dup {
			return errors.AlreadyExistsf("connected template %q already defined", td.Name)
		}
		t, err := connectedTemplate(td)
		if err != nil {
			return errors.Wrapf(err, "connected template %q", td.Name)
		}
		b.connected[td.Name] = t
	}

	for _, td := range b.doc.Templates.Rule {
		if _, dup := b.rule[td.Name]; dup {
			return errors.AlreadyExistsf("rule template %q already defined", td.Name)
		}
		t, err := ruleTemplate(td)
		if err != nil {
			return errors.Wrapf(err, "rule template %q", td.Name)
		}
		b.rule[td.Name] = t
	}
	return nil
}

func connectedTemplate(td ConnectedTemplateDoc) (*template.ConnectedTemplate, error) {
	t := template.NewConnectedTemplate(td.Name, td.Width, td.Height)
	w, h := t.Size()
	if len(td.Cells) > w*h {
		return nil, errors.InvalidArgumentf("%d cells do not fit a %dx%d template", len(td.Cells), w, h)
	}
	for i, names := range td.Cells {
		mask, err := parseMask(names)
		if err != nil {
			return nil, errors.Wrapf(err, "cell %d", i)
		}
		if err := t.Set(i%w, i/w, mask); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func ruleTemplate(td RuleTemplateDoc) (*template.RuleTemplate, error) {
	t := template.NewRuleTemplate(td.Name, td.Width, td.Height, td.Types)
	w, h := t.Size()
	if len(td.Rows) > h {
		return nil, errors.InvalidArgumentf("%d rows do not fit a template %d high", len(td.Rows), h)
	}
	for i, on := range td.Generate {
		if err := t.SetGenerate(i, on); err != nil {
			return nil, err
		}
	}
	for i, c := range td.Colors {
		if err := t.SetColor(i, c); err != nil {
			return nil, err
		}
	}
	for y, row := range td.Rows {
		if len(row) > w {
			return nil, errors.InvalidArgumentf("row %d has %d cells, template is %d wide", y, len(row), w)
		}
		for x, s := range row {
			v, err := ParseSlot(s)
			if err != nil {
				return nil, err
			}
			if err := t.SetElement(x, y, v); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

func (b *builder) patternGroup(pd *PatternGroupDoc) (*sprite.PatternGroup, error) {
	if _, dup := b.groups[pd.Name]; dup {
		return nil, errors.AlreadyExists("pattern group already defined")
	}

	var g *sprite.PatternGroup
	if len(pd.Patterns) == 0 {
		outputs, err := b.outputs(pd.Outputs)
		if err != nil {
			return nil, err
		}
		g = template.Patterns(pd.Name, pd.Width, pd.Height, pd.Count, outputs)
	} else {
		width, height := pd.Width, pd.Height
		if height <= 0 {
			height = len(pd.Patterns[0].Rows)
		}
		if width <= 0 && len(pd.Patterns[0].Rows) > 0 {
			width = len(pd.Patterns[0].Rows[0])
		}

		specs := make([]sprite.PatternSpec, len(pd.Patterns))
		for i, p := range pd.Patterns {
			specs[i].Name = p.Name
			if oversized(p.Rows, width, height) {
				b.warnf("pattern %s/%s is larger than %dx%d; extra cells dropped", pd.Name, p.Name, width, height)
			}
			for _, row := range p.Rows {
				// rows are padded to the group width so they stay aligned
				cells := make([]*sprite.Output, max(width, 1))
				for x, od := range row {
					if x >= len(cells) {
						break
					}
					out, err := b.output(od)
					if err != nil {
						return nil, errors.Wrapf(err, "pattern %q", p.Name)
					}
					cells[x] = out
				}
				specs[i].Cells = append(specs[i].Cells, cells...)
			}
		}
		g = sprite.NewPatternGroup(pd.Name, width, height, specs...)
	}

	b.groups[pd.Name] = g
	for _, p := range g.Patterns() {
		b.patterns[pd.Name+"/"+p.Name()] = p
	}
	return g, nil
}

func oversized(rows [][]OutputDoc, width, height int) bool {
	if len(rows) > height {
		return true
	}
	for _, row := range rows {
		if len(row) > width {
			return true
		}
	}
	return false
}

func (b *builder) group(tb *tiles.Builder, gd *GroupDoc) error {
	switch strings.ToLower(gd.Kind) {
	case KindSimple:
		return b.simpleGroup(tb, gd)
	case KindConnected:
		return b.connectedGroup(tb, gd)
	case KindRule:
		return b.ruleGroup(tb, gd)
	}
	return errors.InvalidArgumentf("unknown group kind %q", gd.Kind)
}

func (b *builder) simpleGroup(tb *tiles.Builder, gd *GroupDoc) error {
	specs, err := tileSpecs(gd.Tiles)
	if err != nil {
		return err
	}

	if len(gd.Outputs) > 0 {
		outputs, err := b.outputs(gd.Outputs)
		if err != nil {
			return err
		}
		if len(outputs) < len(specs) {
			return errors.InvalidArgumentf("%d tiles but only %d outputs", len(specs), len(outputs))
		}
		tb.AddSimpleGroup(gd.Name, template.SimpleTiles(specs, outputs)...)
		return nil
	}

	simple := make([]tiles.SimpleSpec, len(gd.Tiles))
	for i, td := range gd.Tiles {
		var out *sprite.Output
		if td.Output != nil {
			if out, err = b.output(*td.Output); err != nil {
				return errors.Wrapf(err, "tile %q", td.Name)
			}
		}
		simple[i] = tiles.SimpleSpec{Name: specs[i].Name, Collider: specs[i].Collider, Output: out}
	}
	tb.AddSimpleGroup(gd.Name, simple...)
	return nil
}

func (b *builder) connectedGroup(tb *tiles.Builder, gd *GroupDoc) error {
	collider, err := tiles.ParseCollider(gd.Collider)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "collider")
	}

	if gd.Template != "" {
		t, ok := b.connected[gd.Template]
		if !ok {
			return errors.NotFoundf("connected template %q not defined", gd.Template)
		}
		outputs, err := b.outputs(gd.Outputs)
		if err != nil {
			return err
		}
		w, h := t.Size()
		if len(outputs) != w*h {
			b.warnf("group %s: template %s has %d cells but %d outputs", gd.Name, t.Name(), w*h, len(outputs))
		}
		tb.AddConnectedGroup(gd.Name, collider, t.Rules(outputs)...)
		return nil
	}

	rules := make([]tiles.ConnectedRule, len(gd.Rules))
	for i, rd := range gd.Rules {
		out, err := b.output(rd.Output)
		if err != nil {
			return errors.Wrapf(err, "rule %d", i)
		}
		mask, err := parseMask(rd.Mask)
		if err != nil {
			return errors.Wrapf(err, "rule %d", i)
		}
		rules[i] = tiles.NewConnectedRule(out, mask)
	}
	tb.AddConnectedGroup(gd.Name, collider, rules...)
	return nil
}

func (b *builder) ruleGroup(tb *tiles.Builder, gd *GroupDoc) error {
	specs, err := tileSpecs(gd.Tiles)
	if err != nil {
		return err
	}

	if gd.Template != "" {
		t, ok := b.rule[gd.Template]
		if !ok {
			return errors.NotFoundf("rule template %q not defined", gd.Template)
		}
		outputs, err := b.outputs(gd.Outputs)
		if err != nil {
			return err
		}
		generated, err := template.RuleTiles(t, specs, outputs)
		if err != nil {
			return err
		}
		tb.AddRuleGroup(gd.Name, generated...)
		return nil
	}

	rt := make([]tiles.RuleTileSpec, len(gd.Tiles))
	for i, td := range gd.Tiles {
		rt[i] = tiles.RuleTileSpec{Name: specs[i].Name, Collider: specs[i].Collider}
		for j, rd := range td.Rules {
			out, err := b.output(rd.Output)
			if err != nil {
				return errors.Wrapf(err, "tile %q rule %d", td.Name, j)
			}
			slots, err := parseSlots(rd.Slots)
			if err != nil {
				return errors.Wrapf(err, "tile %q rule %d", td.Name, j)
			}
			if len(slots) > 8 {
				b.warnf("group %s: tile %s rule %d lists %d slots; only the first 8 are used", gd.Name, td.Name, j, len(slots))
			}
			for _, s := range slots {
				if s >= len(gd.Tiles) {
					b.warnf("group %s: tile %s rule %d refers to tile %d, which does not exist and never matches", gd.Name, td.Name, j, s)
					break
				}
			}
			rt[i].Rules = append(rt[i].Rules, tiles.NewRule(out, slots...))
		}
	}
	tb.AddRuleGroup(gd.Name, rt...)
	return nil
}

func tileSpecs(docs []TileDoc) ([]template.TileSpec, error) {
	specs := make([]template.TileSpec, len(docs))
	for i, td := range docs {
		c, err := tiles.ParseCollider(td.Collider)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, fmt.Sprintf("tile %q", td.Name))
		}
		specs[i] = template.TileSpec{Name: td.Name, Collider: c}
	}
	return specs, nil
}

func (b *builder) outputs(docs []OutputDoc) ([]*sprite.Output, error) {
	out := make([]*sprite.Output, len(docs))
	for i, od := range docs {
		o, err := b.output(od)
		if err != nil {
			return nil, errors.Wrapf(err, "output %d", i)
		}
		out[i] = o
	}
	return out, nil
}

func (b *builder) output(od OutputDoc) (*sprite.Output, error) {
	if od.kinds() > 1 {
		return nil, errors.InvalidArgument("output sets more than one kind")
	}

	switch {
	case od.Single != "":
		return sprite.Single(sprite.Sprite(od.Single)), nil

	case od.Randomized != nil:
		r := od.Randomized
		if len(r.Sprites) == 0 {
			return nil, errors.InvalidArgument("randomized output has no sprites")
		}
		weights, err := defaultWeights(r.Weights, len(r.Sprites))
		if err != nil {
			return nil, err
		}
		sprites := make([]sprite.Sprite, len(r.Sprites))
		for i, s := range r.Sprites {
			sprites[i] = sprite.Sprite(s)
		}
		return sprite.Randomized(sprites, weights), nil

	case od.Animated != nil:
		a := od.Animated
		if len(a.Frames) == 0 {
			return nil, errors.InvalidArgument("animated output has no frames")
		}
		if a.MaxSpeed < a.MinSpeed {
			return nil, errors.InvalidArgumentf("max_speed %g is below min_speed %g", a.MaxSpeed, a.MinSpeed)
		}
		frames := make([]sprite.Sprite, len(a.Frames))
		for i, s := range a.Frames {
			frames[i] = sprite.Sprite(s)
		}
		return sprite.Animated(frames, a.MinSpeed, a.MaxSpeed, a.RandomOffset), nil

	case od.Pattern != nil:
		p, ok := b.patterns[od.Pattern.Name]
		if !ok {
			return nil, errors.NotFoundf("pattern %q not defined", od.Pattern.Name)
		}
		return sprite.FromPattern(p, od.Pattern.Offset, od.Pattern.Vertical), nil

	case od.RandomizedPattern != nil:
		rp := od.RandomizedPattern
		var patterns []*sprite.Pattern
		for _, name := range rp.Names {
			if p, ok := b.patterns[name]; ok {
				patterns = append(patterns, p)
				continue
			}
			g, ok := b.groups[name]
			if !ok {
				return nil, errors.NotFoundf("pattern %q not defined", name)
			}
			patterns = append(patterns, g.Patterns()...)
		}
		if len(patterns) == 0 {
			return nil, errors.InvalidArgument("randomized pattern output has no patterns")
		}
		weights, err := defaultWeights(rp.Weights, len(patterns))
		if err != nil {
			return nil, err
		}
		out := sprite.RandomizedPattern(patterns, weights, rp.Offset, rp.Vertical)
		if !out.UniformPatterns() {
			b.warnf("randomized pattern %v mixes pattern sizes; the first pattern's size is used", rp.Names)
		}
		return out, nil
	}
	return nil, nil
}

func defaultWeights(weights []float64, n int) ([]float64, error) {
	if len(weights) == 0 {
		weights = make([]float64, n)
		for i := range weights {
			weights[i] = 1
		}
		return weights, nil
	}
	if len(weights) != n {
		return nil, errors.InvalidArgumentf("%d weights for %d entries", len(weights), n)
	}
	return weights, nil
}

func parseMask(names []string) (tiles.Configuration, error) {
	var dirs []tiles.Direction
	for _, n := range names {
		d, err := tiles.ParseDirection(n)
		if err != nil {
			return 0, errors.WrapWithCode(err, errors.CodeInvalidArgument, "mask")
		}
		dirs = append(dirs, d)
	}
	return tiles.NewConfiguration(dirs...), nil
}

func parseSlots(values []string) ([]int, error) {
	slots := make([]int, len(values))
	for i, s := range values {
		v, err := ParseSlot(s)
		if err != nil {
			return nil, err
		}
		slots[i] = v
	}
	return slots, nil
}

// ParseSlot reads a neighbour slot: a tile index, "any" ("*") or "none"
// ("." or empty).
func ParseSlot(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "any", "*":
		return tiles.SlotAny, nil
	case "none", ".", "":
		return tiles.SlotNone, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return 0, errors.InvalidArgumentf("slot %q is not a tile index, any or none", s)
	}
	return v, nil
}

// FormatSlot is the inverse of ParseSlot.
func FormatSlot(v int) string {
	switch v {
	case tiles.SlotAny:
		return "any"
	case tiles.SlotNone:
		return "none"
	}
	return strconv.Itoa(v)
}

// RuleTemplate builds the named rule template of the document.
func (d *TilesetDoc) RuleTemplate(name string) (*template.RuleTemplate, error) {
	for _, td := range d.Templates.Rule {
		if td.Name == name {
			return ruleTemplate(td)
		}
	}
	return nil, errors.NotFoundf("rule template %q not found", name)
}

// ConnectedTemplate builds the named connected template of the document.
func (d *TilesetDoc) ConnectedTemplate(name string) (*template.ConnectedTemplate, error) {
	for _, td := range d.Templates.Connected {
		if td.Name == name {
			return connectedTemplate(td)
		}
	}
	return nil, errors.NotFoundf("connected template %q not found", name)
}
