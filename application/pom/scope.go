package pom

import (
	"context"
	"fmt"
	"time"

	"pageprism/domain/entities"
	"pageprism/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Scope is what pages, sections and frames share: a driver session, the
// context lookups are relative to, and the expanded schema of the type.
type Scope struct {
	driver interfaces.Driver
	search interfaces.SearchContext
	schema *Schema
	opts   options
}

func newScope(driver interfaces.Driver, search interfaces.SearchContext, schema *Schema, opts options) *Scope {
	return &Scope{driver: driver, search: search, schema: schema, opts: opts}
}

// Driver returns the session handle.
func (s *Scope) Driver() interfaces.Driver { return s.driver }

// Schema returns the expanded declaration of the type.
func (s *Scope) Schema() *Schema { return s.schema }

// observe reports an operation to the logger: info on entry, error on
// failure. The result is passed through untouched.
func (s *Scope) observe(op string, fields logrus.Fields, fn func() error) error {
	entry := s.opts.logger.WithFields(fields)
	entry.Infof("started %s.%s", s.schema.name, op)
	if err := fn(); err != nil {
		entry.WithError(err).Errorf("%s.%s failed", s.schema.name, op)
		return err
	}
	return nil
}

func (s *Scope) field(name string, kinds ...entities.DescriptorKind) fieldOps {
	f := fieldOps{scope: s, name: name}
	d, ok := s.schema.fields[name]
	if !ok {
		f.err = fmt.Errorf("%w: %s has no field %q", entities.ErrConfiguration, s.schema.name, name)
		return f
	}
	f.desc = d
	for _, k := range kinds {
		if d.Kind == k {
			return f
		}
	}
	f.err = fmt.Errorf("%w: field %q of %s is declared as %s", entities.ErrConfiguration, name, s.schema.name, d.Kind)
	return f
}

// Element returns the operations of a single-element field.
func (s *Scope) Element(name string) *ElementField {
	return &ElementField{s.field(name, entities.KindSingle)}
}

// Elements returns the operations of a multi-element field.
func (s *Scope) Elements(name string) *ElementsField {
	return &ElementsField{s.field(name, entities.KindMulti)}
}

// Section returns the operations of a section field.
func (s *Scope) Section(name string) *SectionField {
	return &SectionField{ElementField{s.field(name, entities.KindSection)}}
}

// Sections returns the operations of a sections field.
func (s *Scope) Sections(name string) *SectionsField {
	return &SectionsField{ElementsField{s.field(name, entities.KindMultiSection)}}
}

// Frame returns the operations of a frame field.
func (s *Scope) Frame(name string) *FrameField {
	return &FrameField{ElementField{s.field(name, entities.KindFrame)}}
}

// CallResult carries whatever a generated operation produced.
type CallResult struct {
	Method   entities.Method
	Found    bool // has_ and has_no_
	Elements []interfaces.Element
}

// Call runs a generated operation by its conventional name, for example
// "wait_until_title_visible" or "has_no_spinner". Waits use timeout, or the
// default timeout when it is zero.
func (s *Scope) Call(ctx context.Context, method string, timeout time.Duration) (*CallResult, error) {
	m, ok := s.schema.Method(method)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no method %q", entities.ErrConfiguration, s.schema.name, method)
	}
	res := &CallResult{Method: m}
	f := s.field(m.Field, m.Kind)

	var err error
	if m.Kind.Plural() {
		ef := &ElementsField{f}
		switch m.Op {
		case entities.OpVisible:
			res.Elements, err = ef.WaitUntilVisible(ctx, timeout)
		case entities.OpInvisible:
			err = ef.WaitUntilInvisible(ctx, timeout)
		case entities.OpHas:
			res.Found, err = ef.Has()
		case entities.OpHasNo:
			res.Found, err = ef.HasNo()
		case entities.OpFetch:
			res.Elements, err = ef.Elements()
		}
		return res, err
	}

	ef := &ElementField{f}
	var el interfaces.Element
	switch m.Op {
	case entities.OpVisible:
		el, err = ef.WaitUntilVisible(ctx, timeout)
	case entities.OpInvisible:
		err = ef.WaitUntilInvisible(ctx, timeout)
	case entities.OpClickable:
		el, err = ef.WaitUntilClickable(ctx, timeout)
	case entities.OpHas:
		res.Found, err = ef.Has()
	case entities.OpHasNo:
		res.Found, err = ef.HasNo()
	case entities.OpFetch:
		el, err = ef.Element()
	}
	if el != nil {
		res.Elements = []interfaces.Element{el}
	}
	return res, err
}
