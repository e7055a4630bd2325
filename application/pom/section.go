package pom

import "pageprism/domain/interfaces"

// SectionType is a built section declaration.
type SectionType struct {
	schema *Schema
}

func (t *SectionType) Schema() *Schema { return t.schema }

// New binds a section to an already resolved base element. Lookups inside
// are relative to base.
func (t *SectionType) New(driver interfaces.Driver, base interfaces.Element, opts ...Option) *Section {
	return newSection(t, driver, base, newOptions(opts))
}

func newSection(t *SectionType, driver interfaces.Driver, base interfaces.Element, opts options) *Section {
	return &Section{
		Scope: newScope(driver, base, t.schema, opts),
		base:  base,
	}
}

// Section is a sub-region of a document anchored at a base element. The
// base is resolved once and goes stale if the node is replaced.
type Section struct {
	*Scope
	base interfaces.Element
}

// Base returns the anchor element.
func (s *Section) Base() interfaces.Element { return s.base }

// Enter does nothing. Sections support the same scoping calls as frames.
func (s *Section) Enter() error { return nil }

// Exit does nothing.
func (s *Section) Exit() error { return nil }

// Within runs fn with the section.
func (s *Section) Within(fn func(*Section) error) error {
	if err := s.Enter(); err != nil {
		return err
	}
	defer s.Exit()
	return fn(s)
}
