package pom

import (
	"errors"
	"fmt"
	"regexp"

	"pageprism/domain/entities"

	"github.com/sirupsen/logrus"
	"github.com/yosida95/uritemplate/v3"
)

// Builder declares the fields of a page, section or frame type. Each call
// registers one field; the Build methods run the expansion once.
type Builder struct {
	name        string
	order       []string
	fields      map[string]Descriptor
	urlTemplate string
	urlMatcher  string
	logger      logrus.FieldLogger
	errs        []error
}

// NewBuilder - starts the declaration of a type
func NewBuilder(name string) *Builder {
	return &Builder{
		name:   name,
		fields: make(map[string]Descriptor),
		logger: logrus.StandardLogger(),
	}
}

// WithLogger sets where declaration warnings go.
func (b *Builder) WithLogger(logger logrus.FieldLogger) *Builder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// URLTemplate sets the RFC 6570 template Page.Load expands. Pages only.
func (b *Builder) URLTemplate(tmpl string) *Builder {
	b.urlTemplate = tmpl
	return b
}

// URLMatcher sets the pattern the whole current address must match for the
// page to count as loaded. It takes precedence over the template. Pages only.
func (b *Builder) URLMatcher(pattern string) *Builder {
	b.urlMatcher = pattern
	return b
}

// Element declares a single-element field.
func (b *Builder) Element(name string, loc entities.Locator) *Builder {
	return b.add(name, Descriptor{Kind: entities.KindSingle, Locator: loc})
}

// Elements declares a multi-element field.
func (b *Builder) Elements(name string, loc entities.Locator) *Builder {
	return b.add(name, Descriptor{Kind: entities.KindMulti, Locator: loc})
}

// Section declares a field whose match is wrapped into an instance of t.
func (b *Builder) Section(name string, loc entities.Locator, t *SectionType) *Builder {
	if t == nil {
		b.errs = append(b.errs, fmt.Errorf("field %q: nil section type", name))
	}
	return b.add(name, Descriptor{Kind: entities.KindSection, Locator: loc, section: t})
}

// Sections declares a field whose matches are each wrapped into an instance of t.
func (b *Builder) Sections(name string, loc entities.Locator, t *SectionType) *Builder {
	if t == nil {
		b.errs = append(b.errs, fmt.Errorf("field %q: nil section type", name))
	}
	return b.add(name, Descriptor{Kind: entities.KindMultiSection, Locator: loc, section: t})
}

// Frame declares an iframe field whose content is described by t.
func (b *Builder) Frame(name string, loc entities.Locator, t *FrameType) *Builder {
	if t == nil {
		b.errs = append(b.errs, fmt.Errorf("field %q: nil frame type", name))
	}
	return b.add(name, Descriptor{Kind: entities.KindFrame, Locator: loc, frame: t})
}

// add registers a field. Redeclaring a name replaces the earlier descriptor
// and its generated operations in place.
func (b *Builder) add(name string, d Descriptor) *Builder {
	if name == "" {
		b.errs = append(b.errs, errors.New("field with empty name"))
		return b
	}
	if d.Locator.Selector == "" {
		b.errs = append(b.errs, fmt.Errorf("field %q: empty selector", name))
	}
	if _, exists := b.fields[name]; exists {
		b.logger.Warnf("%s: field %q redeclared, generated operations replaced", b.name, name)
	} else {
		b.order = append(b.order, name)
	}
	b.fields[name] = d
	return b
}

func (b *Builder) schema() (*Schema, error) {
	if err := errors.Join(b.errs...); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entities.ErrConfiguration, b.name, err)
	}
	fields := make(map[string]Descriptor, len(b.fields))
	for k, v := range b.fields {
		fields[k] = v
	}
	return expand(b.name, append([]string(nil), b.order...), fields), nil
}

func (b *Builder) rejectURLs(kind string) error {
	if b.urlTemplate != "" || b.urlMatcher != "" {
		return fmt.Errorf("%w: %s: a %s type cannot have a url template or matcher", entities.ErrConfiguration, b.name, kind)
	}
	return nil
}

// BuildPage expands the declaration into a page type.
func (b *Builder) BuildPage() (*PageType, error) {
	s, err := b.schema()
	if err != nil {
		return nil, err
	}
	t := &PageType{schema: s, urlTemplate: b.urlTemplate}
	if b.urlTemplate != "" {
		t.template, err = uritemplate.New(b.urlTemplate)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: url template %q: %w", entities.ErrConfiguration, b.name, b.urlTemplate, err)
		}
	}
	if b.urlMatcher != "" {
		t.matcher, err = regexp.Compile(`^(?:` + b.urlMatcher + `)$`)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: url matcher %q: %w", entities.ErrConfiguration, b.name, b.urlMatcher, err)
		}
		t.urlMatcher = b.urlMatcher
	}
	return t, nil
}

// BuildSection expands the declaration into a section type.
func (b *Builder) BuildSection() (*SectionType, error) {
	if err := b.rejectURLs("section"); err != nil {
		return nil, err
	}
	s, err := b.schema()
	if err != nil {
		return nil, err
	}
	return &SectionType{schema: s}, nil
}

// BuildFrame expands the declaration into a frame type.
func (b *Builder) BuildFrame() (*FrameType, error) {
	if err := b.rejectURLs("frame"); err != nil {
		return nil, err
	}
	s, err := b.schema()
	if err != nil {
		return nil, err
	}
	return &FrameType{schema: s}, nil
}

// MustBuildPage is like BuildPage but panics on error. Meant for
// package-level declarations.
func (b *Builder) MustBuildPage() *PageType {
	t, err := b.BuildPage()
	if err != nil {
		panic(err)
	}
	return t
}

func (b *Builder) MustBuildSection() *SectionType {
	t, err := b.BuildSection()
	if err != nil {
		panic(err)
	}
	return t
}

func (b *Builder) MustBuildFrame() *FrameType {
	t, err := b.BuildFrame()
	if err != nil {
		panic(err)
	}
	return t
}
