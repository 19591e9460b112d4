package config

import (
	"gopkg.in/yaml.v3"
)

// OutputDoc is the YAML form of a sprite output. Exactly one field is set;
// a bare scalar is shorthand for single and an empty document means no
// output.
type OutputDoc struct {
	Single            string                `yaml:"single,omitempty"`
	Randomized        *RandomizedDoc        `yaml:"randomized,omitempty"`
	Animated          *AnimatedDoc          `yaml:"animated,omitempty"`
	Pattern           *PatternRefDoc        `yaml:"pattern,omitempty"`
	RandomizedPattern *RandomizedPatternDoc `yaml:"randomized_pattern,omitempty"`
}

// RandomizedDoc picks a sprite per cell. Missing weights default to 1.
type RandomizedDoc struct {
	Sprites []string  `yaml:"sprites,flow"`
	Weights []float64 `yaml:"weights,flow,omitempty"`
}

// AnimatedDoc plays frames at a per-cell speed in [min_speed, max_speed].
type AnimatedDoc struct {
	Frames       []string `yaml:"frames,flow"`
	MinSpeed     float64  `yaml:"min_speed"`
	MaxSpeed     float64  `yaml:"max_speed"`
	RandomOffset float64  `yaml:"random_offset,omitempty"`
}

// PatternRefDoc tiles one pattern, addressed "group/pattern".
type PatternRefDoc struct {
	Name     string `yaml:"name"`
	Offset   int    `yaml:"offset,omitempty"`
	Vertical bool   `yaml:"vertical,omitempty"`
}

// RandomizedPatternDoc picks a pattern per instance. A bare group name
// stands for every pattern of that group.
type RandomizedPatternDoc struct {
	Names    []string  `yaml:"names,flow"`
	Weights  []float64 `yaml:"weights,flow,omitempty"`
	Offset   int       `yaml:"offset,omitempty"`
	Vertical bool      `yaml:"vertical,omitempty"`
}

type plainOutput OutputDoc

// UnmarshalYAML accepts a scalar sprite name or a full mapping.
func (o *OutputDoc) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*o = OutputDoc{Single: value.Value}
		return nil
	}
	var p plainOutput
	if err := value.Decode(&p); err != nil {
		return err
	}
	*o = OutputDoc(p)
	return nil
}

// MarshalYAML writes single outputs back as scalars.
func (o OutputDoc) MarshalYAML() (any, error) {
	if o.Randomized == nil && o.Animated == nil && o.Pattern == nil && o.RandomizedPattern == nil {
		return o.Single, nil
	}
	return plainOutput(o), nil
}

// IsEmpty reports whether the document describes no output.
func (o OutputDoc) IsEmpty() bool {
	return o.kinds() == 0
}

func (o OutputDoc) kinds() int {
	n := 0
	if o.Single != "" {
		n++
	}
	if o.Randomized != nil {
		n++
	}
	if o.Animated != nil {
		n++
	}
	if o.Pattern != nil {
		n++
	}
	if o.RandomizedPattern != nil {
		n++
	}
	return n
}
