// Package definition reads page, section and frame declarations from YAML
// and builds them into pom types.
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"pageprism/application/pom"
	"pageprism/domain/entities"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// File is the document layout of a definition file.
type File struct {
	Sections []TypeSpec `yaml:"sections"`
	Frames   []TypeSpec `yaml:"frames"`
	Pages    []TypeSpec `yaml:"pages"`
}

// TypeSpec declares one page, section or frame type.
type TypeSpec struct {
	Name        string      `yaml:"name"`
	URLTemplate string      `yaml:"url_template"`
	URLMatcher  string      `yaml:"url_matcher"`
	Fields      []FieldSpec `yaml:"fields"`
}

// FieldSpec declares one field. Scope names the section or frame type that
// wraps the match and is required for those kinds.
type FieldSpec struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	By       string `yaml:"by"`
	Selector string `yaml:"selector"`
	Scope    string `yaml:"scope"`
}

// Catalog holds the built types of a definition file.
type Catalog struct {
	pages     map[string]*pom.PageType
	pageOrder []string
	sections  map[string]*pom.SectionType
	frames    map[string]*pom.FrameType
}

// Pages returns page names in declaration order.
func (c *Catalog) Pages() []string {
	return append([]string(nil), c.pageOrder...)
}

// Page looks up a built page type.
func (c *Catalog) Page(name string) (*pom.PageType, error) {
	if t, ok := c.pages[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: no page named %q", entities.ErrConfiguration, name)
}

// Section looks up a built section type.
func (c *Catalog) Section(name string) (*pom.SectionType, bool) {
	t, ok := c.sections[name]
	return t, ok
}

// Frame looks up a built frame type.
func (c *Catalog) Frame(name string) (*pom.FrameType, bool) {
	t, ok := c.frames[name]
	return t, ok
}

// LoadFile - reads and builds a definition file
func LoadFile(path string, logger logrus.FieldLogger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definitions: %w", err)
	}
	c, err := Parse(data, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse - decodes a definition document and builds every type in it
func Parse(data []byte, logger logrus.FieldLogger) (*Catalog, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", entities.ErrConfiguration, err)
	}
	return Build(&f, logger)
}

// Build turns a decoded file into a catalog. Scoped types are built before
// the types that reference them; a reference cycle is a configuration error.
func Build(f *File, logger logrus.FieldLogger) (*Catalog, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	catalog := &Catalog{
		pages:    make(map[string]*pom.PageType),
		sections: make(map[string]*pom.SectionType),
		frames:   make(map[string]*pom.FrameType),
	}
	r := &resolver{
		logger:  logger,
		specs:   make(map[string]scopedSpec),
		state:   make(map[string]int),
		catalog: catalog,
	}

	for _, s := range f.Sections {
		if err := r.declare(s, entities.KindSection); err != nil {
			return nil, err
		}
	}
	for _, s := range f.Frames {
		if err := r.declare(s, entities.KindFrame); err != nil {
			return nil, err
		}
	}
	for _, s := range append(append([]TypeSpec(nil), f.Sections...), f.Frames...) {
		if err := r.resolve(s.Name, nil); err != nil {
			return nil, err
		}
	}

	for _, s := range f.Pages {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: page with empty name", entities.ErrConfiguration)
		}
		if _, dup := r.catalog.pages[s.Name]; dup {
			return nil, fmt.Errorf("%w: page %q declared twice", entities.ErrConfiguration, s.Name)
		}
		b := pom.NewBuilder(s.Name).WithLogger(logger).
			URLTemplate(s.URLTemplate).
			URLMatcher(s.URLMatcher)
		if err := r.fields(b, s); err != nil {
			return nil, err
		}
		t, err := b.BuildPage()
		if err != nil {
			return nil, err
		}
		r.catalog.pages[s.Name] = t
		r.catalog.pageOrder = append(r.catalog.pageOrder, s.Name)
	}
	return r.catalog, nil
}

type scopedSpec struct {
	spec TypeSpec
	kind entities.DescriptorKind
}

const (
	unvisited = iota
	visiting
	built
)

type resolver struct {
	logger  logrus.FieldLogger
	specs   map[string]scopedSpec
	state   map[string]int
	catalog *Catalog
}

func (r *resolver) declare(s TypeSpec, kind entities.DescriptorKind) error {
	if s.Name == "" {
		return fmt.Errorf("%w: %s type with empty name", entities.ErrConfiguration, kind)
	}
	if _, dup := r.specs[s.Name]; dup {
		return fmt.Errorf("%w: scope type %q declared twice", entities.ErrConfiguration, s.Name)
	}
	r.specs[s.Name] = scopedSpec{spec: s, kind: kind}
	return nil
}

// resolve builds the named section or frame type after everything it
// references. path is the chain of types being built, for cycle reports.
func (r *resolver) resolve(name string, path []string) error {
	switch r.state[name] {
	case built:
		return nil
	case visiting:
		return fmt.Errorf("%w: scope cycle %v", entities.ErrConfiguration, append(path, name))
	}
	ss, ok := r.specs[name]
	if !ok {
		return fmt.Errorf("%w: unknown scope type %q", entities.ErrConfiguration, name)
	}

	r.state[name] = visiting
	path = append(path, name)
	for _, fs := range ss.spec.Fields {
		if fs.Scope == "" {
			continue
		}
		if err := r.resolve(fs.Scope, path); err != nil {
			return err
		}
	}

	b := pom.NewBuilder(name).WithLogger(r.logger).
		URLTemplate(ss.spec.URLTemplate).
		URLMatcher(ss.spec.URLMatcher)
	if err := r.fields(b, ss.spec); err != nil {
		return err
	}
	if ss.kind == entities.KindFrame {
		t, err := b.BuildFrame()
		if err != nil {
			return err
		}
		r.catalog.frames[name] = t
	} else {
		t, err := b.BuildSection()
		if err != nil {
			return err
		}
		r.catalog.sections[name] = t
	}
	r.state[name] = built
	return nil
}

// fields registers the fields of s on b. Referenced scope types must
// already be built.
func (r *resolver) fields(b *pom.Builder, s TypeSpec) error {
	for _, fs := range s.Fields {
		kind, err := entities.ParseDescriptorKind(fs.Type)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", s.Name, fs.Name, err)
		}
		by, err := entities.ParseBy(fs.By)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", s.Name, fs.Name, err)
		}
		loc := entities.NewLocator(by, fs.Selector)

		if !kind.Scoped() && fs.Scope != "" {
			return fmt.Errorf("%w: %s.%s: a %s field takes no scope", entities.ErrConfiguration, s.Name, fs.Name, kind)
		}
		switch kind {
		case entities.KindSingle:
			b.Element(fs.Name, loc)
		case entities.KindMulti:
			b.Elements(fs.Name, loc)
		case entities.KindSection, entities.KindMultiSection:
			if err := r.resolve(fs.Scope, nil); err != nil {
				return fmt.Errorf("%s.%s: %w", s.Name, fs.Name, err)
			}
			st, ok := r.catalog.sections[fs.Scope]
			if !ok {
				return fmt.Errorf("%w: %s.%s: %q is not a section type", entities.ErrConfiguration, s.Name, fs.Name, fs.Scope)
			}
			if kind == entities.KindSection {
				b.Section(fs.Name, loc, st)
			} else {
				b.Sections(fs.Name, loc, st)
			}
		case entities.KindFrame:
			if err := r.resolve(fs.Scope, nil); err != nil {
				return fmt.Errorf("%s.%s: %w", s.Name, fs.Name, err)
			}
			ft, ok := r.catalog.frames[fs.Scope]
			if !ok {
				return fmt.Errorf("%w: %s.%s: %q is not a frame type", entities.ErrConfiguration, s.Name, fs.Name, fs.Scope)
			}
			b.Frame(fs.Name, loc, ft)
		}
	}
	return nil
}
