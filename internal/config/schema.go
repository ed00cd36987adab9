package config

import "sort"

// Type is the value type of a configuration option.
type Type string

const (
	TypeString  Type = "string"
	TypeBoolean Type = "boolean"
)

// Option describes a single configuration option as shown in the host's
// settings view.
type Option struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Type        Type   `json:"type" yaml:"type"`
	Default     any    `json:"default" yaml:"default"`
	Order       int    `json:"order" yaml:"order"`
}

// Schema maps option names to their description.
type Schema map[string]Option

// NamedOption is an Option together with its name.
type NamedOption struct {
	Name string
	Option
}

// Ordered returns the options sorted by display order, then by name.
func (s Schema) Ordered() []NamedOption {
	opts := make([]NamedOption, 0, len(s))
	for name, opt := range s {
		opts = append(opts, NamedOption{Name: name, Option: opt})
	}
	sort.Slice(opts, func(i, j int) bool {
		if opts[i].Order != opts[j].Order {
			return opts[i].Order < opts[j].Order
		}
		return opts[i].Name < opts[j].Name
	})
	return opts
}

// String returns the string value of key in namespace ns, falling back to the
// schema default when the value is missing or not a string.
func (s Schema) String(st Store, ns, name string) string {
	if v, ok := st.Get(ns + "." + name); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	def, _ := s[name].Default.(string)
	return def
}

// Bool is like String for boolean options.
func (s Schema) Bool(st Store, ns, name string) bool {
	if v, ok := st.Get(ns + "." + name); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	def, _ := s[name].Default.(bool)
	return def
}
