package pom

import (
	"errors"

	"pageprism/domain/interfaces"
)

// FrameType is a built frame declaration.
type FrameType struct {
	schema *Schema
}

func (t *FrameType) Schema() *Schema { return t.schema }

// New binds a frame to an already resolved iframe element.
func (t *FrameType) New(driver interfaces.Driver, element interfaces.Element, opts ...Option) *Frame {
	return newFrame(t, driver, element, newOptions(opts))
}

func newFrame(t *FrameType, driver interfaces.Driver, element interfaces.Element, opts options) *Frame {
	return &Frame{
		Scope:   newScope(driver, driver, t.schema, opts),
		element: element,
	}
}

// Frame is the document of an embedded iframe. Its fields are looked up in
// the driver's current browsing context, so they only resolve while the
// frame is entered.
//
// Entering switches the whole session. Frames on the same session must not
// be entered concurrently or nested.
type Frame struct {
	*Scope
	element interfaces.Element
}

// FrameElement returns the iframe element in the parent document.
func (f *Frame) FrameElement() interfaces.Element { return f.element }

// Enter switches the session into the frame.
func (f *Frame) Enter() error {
	return f.observe("enter", nil, func() error {
		return f.driver.SwitchToFrame(f.element)
	})
}

// Exit switches the session back to the top-level document.
func (f *Frame) Exit() error {
	return f.observe("exit", nil, func() error {
		return f.driver.SwitchToDefaultContent()
	})
}

// Within enters the frame, runs fn and switches back to the top-level
// document however fn returns, panics included.
func (f *Frame) Within(fn func(*Frame) error) (err error) {
	if err := f.Enter(); err != nil {
		return err
	}
	defer func() {
		if exitErr := f.Exit(); exitErr != nil {
			err = errors.Join(err, exitErr)
		}
	}()
	return fn(f)
}
