package entities

// FieldReport describes what a probe observed for one declared field
type FieldReport struct {
	Name     string         `json:"name" yaml:"name"`
	Kind     DescriptorKind `json:"kind" yaml:"kind"`
	Locator  Locator        `json:"locator" yaml:"locator"`
	Present  bool           `json:"present" yaml:"present"`
	Visible  bool           `json:"visible" yaml:"visible"`
	Count    int            `json:"count" yaml:"count"`
	Methods  []string       `json:"methods" yaml:"methods"`
	Error    string         `json:"error,omitempty" yaml:"error,omitempty"`
	Children []FieldReport  `json:"children,omitempty" yaml:"children,omitempty"` // fields of a section or frame scope
}
