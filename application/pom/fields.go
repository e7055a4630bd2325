package pom

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pageprism/domain/entities"
	"pageprism/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// fieldOps binds one declared field to the scope it is looked up in. A
// field resolved from an unknown name or the wrong kind carries err, and
// every operation on it fails with that error.
type fieldOps struct {
	scope *Scope
	name  string
	desc  Descriptor
	err   error
}

// Name returns the declared field name.
func (f fieldOps) Name() string { return f.name }

// Locator returns the declared locator.
func (f fieldOps) Locator() entities.Locator { return f.desc.Locator }

func (f fieldOps) method(op entities.OperationKind) string {
	if f.err != nil {
		return fmt.Sprintf("%s.%s", f.name, op)
	}
	return entities.MethodName(f.name, op, f.desc.Kind)
}

func (f fieldOps) run(method string, fn func() error) error {
	return f.scope.observe(method, logrus.Fields{"field": f.name, "locator": f.desc.Locator.String()}, func() error {
		if f.err != nil {
			return f.err
		}
		return fn()
	})
}

func (f fieldOps) wait(ctx context.Context, method string, cond interfaces.Condition, timeout time.Duration) error {
	timeout = f.scope.opts.timeout(timeout)
	if err := f.scope.driver.WaitWithTimeout(ctx, cond, timeout); err != nil {
		return fmt.Errorf("%s (%s, %s): %w", method, f.desc.Locator, timeout, err)
	}
	return nil
}

func (f fieldOps) has() (bool, error) {
	loc := f.desc.Locator
	if f.desc.Kind.Plural() {
		els, err := f.scope.search.FindElements(loc.By, loc.Selector)
		if err != nil {
			return false, err
		}
		return len(els) > 0, nil
	}
	_, err := f.scope.search.FindElement(loc.By, loc.Selector)
	if errors.Is(err, entities.ErrElementNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (f fieldOps) hasOp(op entities.OperationKind) (bool, error) {
	var found bool
	err := f.run(f.method(op), func() error {
		var err error
		found, err = f.has()
		return err
	})
	if err != nil {
		return false, err
	}
	if op == entities.OpHasNo {
		return !found, nil
	}
	return found, nil
}

func (f fieldOps) waitInvisible(ctx context.Context, timeout time.Duration) error {
	method := f.method(entities.OpInvisible)
	return f.run(method, func() error {
		return f.wait(ctx, method, invisibilityOf(f.scope.search, f.desc.Locator), timeout)
	})
}

// ElementField holds the operations generated for a single-element field.
// Section and frame fields embed it for their base element.
type ElementField struct {
	fieldOps
}

// WaitUntilVisible blocks until the element is displayed and returns it.
func (f *ElementField) WaitUntilVisible(ctx context.Context, timeout time.Duration) (interfaces.Element, error) {
	var el interfaces.Element
	method := f.method(entities.OpVisible)
	err := f.run(method, func() error {
		return f.wait(ctx, method, visibilityOf(f.scope.search, f.desc.Locator, &el), timeout)
	})
	if err != nil {
		return nil, err
	}
	return el, nil
}

// WaitUntilInvisible blocks until no matching element is displayed.
func (f *ElementField) WaitUntilInvisible(ctx context.Context, timeout time.Duration) error {
	return f.waitInvisible(ctx, timeout)
}

// WaitUntilClickable blocks until the element exists, is displayed and is
// enabled, and returns it.
func (f *ElementField) WaitUntilClickable(ctx context.Context, timeout time.Duration) (interfaces.Element, error) {
	var el interfaces.Element
	method := f.method(entities.OpClickable)
	err := f.run(method, func() error {
		return f.wait(ctx, method, clickabilityOf(f.scope.search, f.desc.Locator, &el), timeout)
	})
	if err != nil {
		return nil, err
	}
	return el, nil
}

// Has reports whether a lookup currently finds the element.
func (f *ElementField) Has() (bool, error) { return f.hasOp(entities.OpHas) }

// HasNo is the negation of Has.
func (f *ElementField) HasNo() (bool, error) { return f.hasOp(entities.OpHasNo) }

// Element looks the element up once, without waiting.
func (f *ElementField) Element() (interfaces.Element, error) {
	var el interfaces.Element
	err := f.run(f.method(entities.OpFetch), func() error {
		var err error
		el, err = f.scope.search.FindElement(f.desc.Locator.By, f.desc.Locator.Selector)
		return err
	})
	if err != nil {
		return nil, err
	}
	return el, nil
}

// ElementsField holds the operations generated for a multi-element field.
type ElementsField struct {
	fieldOps
}

// WaitUntilVisible blocks until at least one match is displayed and returns
// every match.
func (f *ElementsField) WaitUntilVisible(ctx context.Context, timeout time.Duration) ([]interfaces.Element, error) {
	var els []interfaces.Element
	method := f.method(entities.OpVisible)
	err := f.run(method, func() error {
		return f.wait(ctx, method, anyVisibilityOf(f.scope.search, f.desc.Locator, &els), timeout)
	})
	if err != nil {
		return nil, err
	}
	return els, nil
}

// WaitUntilInvisible blocks until no match is displayed.
func (f *ElementsField) WaitUntilInvisible(ctx context.Context, timeout time.Duration) error {
	return f.waitInvisible(ctx, timeout)
}

// Has reports whether a lookup currently finds at least one match.
func (f *ElementsField) Has() (bool, error) { return f.hasOp(entities.OpHas) }

// HasNo is the negation of Has.
func (f *ElementsField) HasNo() (bool, error) { return f.hasOp(entities.OpHasNo) }

// Elements looks the matches up once, without waiting.
func (f *ElementsField) Elements() ([]interfaces.Element, error) {
	var els []interfaces.Element
	err := f.run(f.method(entities.OpFetch), func() error {
		var err error
		els, err = f.scope.search.FindElements(f.desc.Locator.By, f.desc.Locator.Selector)
		return err
	})
	if err != nil {
		return nil, err
	}
	return els, nil
}

// SectionField is a section declaration: the element operations apply to
// its base element, and Section wraps the base into the scoped type.
type SectionField struct {
	ElementField
}

// Section resolves the base element once and binds a new section to it.
func (f *SectionField) Section() (*Section, error) {
	var sec *Section
	err := f.run(f.name+"_section", func() error {
		base, err := f.scope.search.FindElement(f.desc.Locator.By, f.desc.Locator.Selector)
		if err != nil {
			return err
		}
		sec = newSection(f.desc.section, f.scope.driver, base, f.scope.opts)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sec, nil
}

// SectionsField is a multi-section declaration.
type SectionsField struct {
	ElementsField
}

// Sections binds a section to every current match.
func (f *SectionsField) Sections() ([]*Section, error) {
	var secs []*Section
	err := f.run(f.name+"_sections", func() error {
		bases, err := f.scope.search.FindElements(f.desc.Locator.By, f.desc.Locator.Selector)
		if err != nil {
			return err
		}
		secs = make([]*Section, 0, len(bases))
		for _, base := range bases {
			secs = append(secs, newSection(f.desc.section, f.scope.driver, base, f.scope.opts))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return secs, nil
}

// FrameField is an iframe declaration.
type FrameField struct {
	ElementField
}

// Frame resolves the iframe element once and binds a new frame to it. The
// browsing context is not switched until the frame is entered.
func (f *FrameField) Frame() (*Frame, error) {
	var fr *Frame
	err := f.run(f.name+"_frame", func() error {
		el, err := f.scope.search.FindElement(f.desc.Locator.By, f.desc.Locator.Selector)
		if err != nil {
			return err
		}
		fr = newFrame(f.desc.frame, f.scope.driver, el, f.scope.opts)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fr, nil
}
