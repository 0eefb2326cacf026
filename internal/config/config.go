package config

// MapFile is the top-level structure of a matchmap YAML definition.
type MapFile struct {
	SchemaVersion string      `yaml:"schemaVersion"`
	Name          string      `yaml:"name,omitempty"`
	Echo          string      `yaml:"echo,omitempty"`
	Default       interface{} `yaml:"default,omitempty"`
	Optimize      bool        `yaml:"optimize,omitempty"`
	Entries       []EntrySpec `yaml:"entries"`

	// FilePath is the source path, used in messages. It is not parsed.
	FilePath string `yaml:"-"`
}

// EntrySpec is one entry of a map file. Exactly one of Literal or Pattern
// names the key and at most one of Value, Values, Template or Transform
// describes the value. An entry without a value contributes nothing.
type EntrySpec struct {
	Literal interface{} `yaml:"literal,omitempty"`
	Pattern string      `yaml:"pattern,omitempty"`

	// Value is classified like Map.Set: a list contributes its items.
	Value interface{} `yaml:"value,omitempty"`
	// Values always contributes its items.
	Values []interface{} `yaml:"values,omitempty"`
	// Template is a text/template rendered against each match.
	Template string `yaml:"template,omitempty"`
	// Transform names a registered transformer.
	Transform string `yaml:"transform,omitempty"`
}

// keyKinds counts how many key fields are set.
func (e *EntrySpec) keyKinds() int {
	n := 0
	if e.Literal != nil {
		n++
	}
	if e.Pattern != "" {
		n++
	}
	return n
}

// valueKinds counts how many value fields are set.
func (e *EntrySpec) valueKinds() int {
	n := 0
	if e.Value != nil {
		n++
	}
	if e.Values != nil {
		n++
	}
	if e.Template != "" {
		n++
	}
	if e.Transform != "" {
		n++
	}
	return n
}
