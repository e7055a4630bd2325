package pom

import (
	"fmt"

	"pageprism/domain/entities"
)

// Descriptor declares one locator field. It is immutable once built and
// shared by every instance of the type; lookups are never cached.
type Descriptor struct {
	Kind    entities.DescriptorKind
	Locator entities.Locator

	section *SectionType
	frame   *FrameType
}

// SectionType returns the scoped type a section or sections field wraps
// matches into, nil for other kinds.
func (d Descriptor) SectionType() *SectionType { return d.section }

// FrameType returns the scoped type of a frame field, nil for other kinds.
func (d Descriptor) FrameType() *FrameType { return d.frame }

// Schema is the expansion of a declared type: its fields in declaration
// order and the operations generated for each of them.
type Schema struct {
	name    string
	order   []string
	fields  map[string]Descriptor
	methods map[string]entities.Method
}

func expand(name string, order []string, fields map[string]Descriptor) *Schema {
	s := &Schema{
		name:    name,
		order:   order,
		fields:  fields,
		methods: make(map[string]entities.Method),
	}
	for _, field := range order {
		kind := fields[field].Kind
		for _, op := range entities.OperationsFor(kind) {
			m := entities.Method{
				Name:  entities.MethodName(field, op, kind),
				Field: field,
				Op:    op,
				Kind:  kind,
			}
			s.methods[m.Name] = m
		}
	}
	return s
}

func (s *Schema) Name() string { return s.name }

// Fields returns the declared field names in declaration order.
func (s *Schema) Fields() []string {
	return append([]string(nil), s.order...)
}

func (s *Schema) Descriptor(field string) (Descriptor, bool) {
	d, ok := s.fields[field]
	return d, ok
}

// Methods returns every generated operation, grouped by field in
// declaration order.
func (s *Schema) Methods() []entities.Method {
	var methods []entities.Method
	for _, field := range s.order {
		methods = append(methods, s.MethodsFor(field)...)
	}
	return methods
}

// MethodsFor returns the operations generated for one field.
func (s *Schema) MethodsFor(field string) []entities.Method {
	d, ok := s.fields[field]
	if !ok {
		return nil
	}
	ops := entities.OperationsFor(d.Kind)
	methods := make([]entities.Method, 0, len(ops))
	for _, op := range ops {
		methods = append(methods, s.methods[entities.MethodName(field, op, d.Kind)])
	}
	return methods
}

// Method looks up a generated operation by its conventional name.
func (s *Schema) Method(name string) (entities.Method, bool) {
	m, ok := s.methods[name]
	return m, ok
}

func (s *Schema) String() string {
	return fmt.Sprintf("%s(%d fields)", s.name, len(s.order))
}
