package entities

import "fmt"

// DescriptorKind tells which family of locator descriptor a field declares.
type DescriptorKind int

const (
	KindSingle DescriptorKind = iota
	KindMulti
	KindSection
	KindMultiSection
	KindFrame
)

var kindNames = map[DescriptorKind]string{
	KindSingle:       "element",
	KindMulti:        "elements",
	KindSection:      "section",
	KindMultiSection: "sections",
	KindFrame:        "frame",
}

func (k DescriptorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("DescriptorKind(%d)", int(k))
}

// ParseDescriptorKind maps the names used in definition files to a kind.
func ParseDescriptorKind(s string) (DescriptorKind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown field type %q", ErrConfiguration, s)
}

// Plural reports whether lookups for this kind yield a sequence.
func (k DescriptorKind) Plural() bool {
	return k == KindMulti || k == KindMultiSection
}

// Scoped reports whether the kind wraps found elements into a scoped type.
func (k DescriptorKind) Scoped() bool {
	return k == KindSection || k == KindMultiSection || k == KindFrame
}

// MarshalText renders the kind by name in reports.
func (k DescriptorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *DescriptorKind) UnmarshalText(text []byte) error {
	parsed, err := ParseDescriptorKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
