// Package config handles the YAML documents tilesmith works with: tilesets,
// tilemaps and user settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Group kinds accepted in a tileset document.
const (
	KindSimple    = "simple"
	KindConnected = "connected"
	KindRule      = "rule"
)

// TilesetDoc is the authoring form of a tileset.
type TilesetDoc struct {
	Name      string            `yaml:"name"`
	Patterns  []PatternGroupDoc `yaml:"patterns,omitempty"`
	Templates TemplatesDoc      `yaml:"templates,omitempty"`
	Groups    []GroupDoc        `yaml:"groups"`
}

// PatternGroupDoc lists patterns explicitly, or slices Outputs into Count
// patterns of Width x Height.
type PatternGroupDoc struct {
	Name     string       `yaml:"name"`
	Width    int          `yaml:"width"`
	Height   int          `yaml:"height"`
	Patterns []PatternDoc `yaml:"patterns,omitempty"`
	Count    int          `yaml:"count,omitempty"`
	Outputs  []OutputDoc  `yaml:"outputs,omitempty"`
}

// PatternDoc is one pattern; rows are listed top row first.
type PatternDoc struct {
	Name string        `yaml:"name"`
	Rows [][]OutputDoc `yaml:"rows"`
}

// TemplatesDoc holds the authoring grids groups can be generated from.
type TemplatesDoc struct {
	Connected []ConnectedTemplateDoc `yaml:"connected,omitempty"`
	Rule      []RuleTemplateDoc      `yaml:"rule,omitempty"`
}

// IsZero lets yaml omit an empty templates section.
func (t TemplatesDoc) IsZero() bool {
	return len(t.Connected) == 0 && len(t.Rule) == 0
}

// ConnectedTemplateDoc holds one neighbour mask per cell, row by row with
// the top row first. Each mask is a list of direction names.
type ConnectedTemplateDoc struct {
	Name   string     `yaml:"name"`
	Width  int        `yaml:"width"`
	Height int        `yaml:"height"`
	Cells  [][]string `yaml:"cells,flow"`
}

// RuleTemplateDoc paints Types tile types on a grid. Rows are top first and
// each value is a type id, "any" (or "*") or "none" (or ".").
type RuleTemplateDoc struct {
	Name     string     `yaml:"name"`
	Width    int        `yaml:"width"`
	Height   int        `yaml:"height"`
	Types    int        `yaml:"types"`
	Generate []bool     `yaml:"generate,flow,omitempty"`
	Colors   []string   `yaml:"colors,flow,omitempty"`
	Rows     [][]string `yaml:"rows,flow"`
}

// GroupDoc is one tile group. Which fields apply depends on Kind:
//
//	simple:    tiles with an output each, or tiles paired with outputs
//	connected: collider plus rules, or template plus outputs
//	rule:      tiles with rules, or template plus outputs (tiles then only
//	           name the generated types)
type GroupDoc struct {
	Name     string             `yaml:"name"`
	Kind     string             `yaml:"kind"`
	Collider string             `yaml:"collider,omitempty"`
	Tiles    []TileDoc          `yaml:"tiles,omitempty"`
	Rules    []ConnectedRuleDoc `yaml:"rules,omitempty"`
	Template string             `yaml:"template,omitempty"`
	Outputs  []OutputDoc        `yaml:"outputs,omitempty"`
}

// TileDoc is one tile of a simple or rule group.
type TileDoc struct {
	Name     string     `yaml:"name"`
	Collider string     `yaml:"collider,omitempty"`
	Output   *OutputDoc `yaml:"output,omitempty"`
	Rules    []RuleDoc  `yaml:"rules,omitempty"`
}

// ConnectedRuleDoc shows Output when the neighbours match Mask.
type ConnectedRuleDoc struct {
	Output OutputDoc `yaml:"output"`
	Mask   []string  `yaml:"mask,flow"`
}

// RuleDoc shows Output when all slots match. Slots are listed top, top
// right, right, bottom right, bottom, bottom left, left, top left.
type RuleDoc struct {
	Output OutputDoc `yaml:"output"`
	Slots  []string  `yaml:"slots,flow"`
}

// LoadTileset loads a tileset document from a YAML file.
func LoadTileset(path string) (*TilesetDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tileset file: %w", err)
	}

	var doc TilesetDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing tileset file: %w", err)
	}
	if doc.Name == "" {
		doc.Name = trimExt(filepath.Base(path))
	}

	return &doc, nil
}

// SaveTileset saves a tileset document to a YAML file.
func SaveTileset(path string, doc *TilesetDoc) error {
	return saveYAML(path, "tileset", doc)
}

// LoadMap loads a tilemap document from a YAML file.
func LoadMap(path string) (*MapDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file: %w", err)
	}

	var doc MapDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing map file: %w", err)
	}
	if doc.Name == "" {
		doc.Name = trimExt(filepath.Base(path))
	}

	return &doc, nil
}

// SaveMap saves a tilemap document to a YAML file.
func SaveMap(path string, doc *MapDoc) error {
	return saveYAML(path, "map", doc)
}

func saveYAML(path, what string, v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", what, err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing %s file: %w", what, err)
	}

	return nil
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tilesmith"), nil
}

// EnsureConfigDir creates dir if it doesn't exist.
func EnsureConfigDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
