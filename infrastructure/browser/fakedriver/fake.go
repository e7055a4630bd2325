// Package fakedriver is an in-memory driver session for tests. Documents map
// locators straight to elements; no selector is ever evaluated.
package fakedriver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pageprism/domain/entities"
	"pageprism/domain/interfaces"
)

// ReadyStateScript is answered from Driver.ReadyState.
const ReadyStateScript = "return document.readyState"

// Document is a set of elements keyed by the locator that finds them.
type Document struct {
	nodes map[entities.Locator][]*Element
}

func NewDocument() *Document {
	return &Document{nodes: make(map[entities.Locator][]*Element)}
}

// Add appends elements found by loc.
func (d *Document) Add(loc entities.Locator, els ...*Element) *Document {
	d.nodes[loc] = append(d.nodes[loc], els...)
	return d
}

// Remove drops every element found by loc.
func (d *Document) Remove(loc entities.Locator) {
	delete(d.nodes, loc)
}

func (d *Document) find(by entities.By, selector string) (interfaces.Element, error) {
	els := d.nodes[entities.NewLocator(by, selector)]
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s=%s", entities.ErrElementNotFound, by, selector)
	}
	return els[0], nil
}

func (d *Document) findAll(by entities.By, selector string) []interfaces.Element {
	els := d.nodes[entities.NewLocator(by, selector)]
	out := make([]interfaces.Element, 0, len(els))
	for _, el := range els {
		out = append(out, el)
	}
	return out
}

// Element is a node. Children are found from it; Content is the document of
// an iframe element.
type Element struct {
	Name      string
	Displayed bool
	Enabled   bool
	Stale     bool
	Children  *Document
	Content   *Document
}

// NewElement - creates a displayed, enabled element
func NewElement(name string) *Element {
	return &Element{Name: name, Displayed: true, Enabled: true, Children: NewDocument()}
}

// NewFrame - creates an iframe element holding content
func NewFrame(name string, content *Document) *Element {
	el := NewElement(name)
	el.Content = content
	return el
}

// Hidden marks the element as not displayed.
func (e *Element) Hidden() *Element {
	e.Displayed = false
	return e
}

// Disabled marks the element as not enabled.
func (e *Element) Disabled() *Element {
	e.Enabled = false
	return e
}

func (e *Element) stale() error {
	if e.Stale {
		return fmt.Errorf("%w: %s", entities.ErrStaleElement, e.Name)
	}
	return nil
}

func (e *Element) FindElement(by entities.By, selector string) (interfaces.Element, error) {
	if err := e.stale(); err != nil {
		return nil, err
	}
	return e.Children.find(by, selector)
}

func (e *Element) FindElements(by entities.By, selector string) ([]interfaces.Element, error) {
	if err := e.stale(); err != nil {
		return nil, err
	}
	return e.Children.findAll(by, selector), nil
}

func (e *Element) IsDisplayed() (bool, error) {
	if err := e.stale(); err != nil {
		return false, err
	}
	return e.Displayed, nil
}

func (e *Element) IsEnabled() (bool, error) {
	if err := e.stale(); err != nil {
		return false, err
	}
	return e.Enabled, nil
}

func (e *Element) String() string { return e.Name }

// Driver is a fake session over a top-level Document.
type Driver struct {
	Top        *Document
	URL        string
	ReadyState string

	// Scripts maps script bodies to canned results.
	Scripts map[string]interface{}

	// PollInterval is the virtual interval WaitWithTimeout divides its
	// timeout by. No real time passes.
	PollInterval time.Duration

	// BeforePoll runs before every check of WaitWithTimeout.
	BeforePoll func(attempt int)

	Visited        []string
	Executed       []string
	Switches       []string
	CurrentURLHits int
	Closed         bool

	frame *Element
}

// New - creates a fake session on an empty, complete document
func New() *Driver {
	return &Driver{
		Top:          NewDocument(),
		ReadyState:   "complete",
		Scripts:      make(map[string]interface{}),
		PollInterval: time.Second,
	}
}

// Frame returns the iframe element the session is switched into, nil at the
// top level.
func (d *Driver) Frame() *Element { return d.frame }

func (d *Driver) document() *Document {
	if d.frame != nil {
		return d.frame.Content
	}
	return d.Top
}

func (d *Driver) FindElement(by entities.By, selector string) (interfaces.Element, error) {
	return d.document().find(by, selector)
}

func (d *Driver) FindElements(by entities.By, selector string) ([]interfaces.Element, error) {
	return d.document().findAll(by, selector), nil
}

func (d *Driver) Get(url string) error {
	d.Visited = append(d.Visited, url)
	d.URL = url
	return nil
}

func (d *Driver) CurrentURL() (string, error) {
	d.CurrentURLHits++
	return d.URL, nil
}

func (d *Driver) ExecuteScript(script string, args ...interface{}) (interface{}, error) {
	d.Executed = append(d.Executed, script)
	if script == ReadyStateScript {
		return d.ReadyState, nil
	}
	if v, ok := d.Scripts[script]; ok {
		return v, nil
	}
	return nil, nil
}

func (d *Driver) SwitchToFrame(frame interfaces.Element) error {
	el, ok := frame.(*Element)
	if !ok || el.Content == nil {
		return errors.New("no such frame")
	}
	if err := el.stale(); err != nil {
		return err
	}
	d.frame = el
	d.Switches = append(d.Switches, "frame:"+el.Name)
	return nil
}

func (d *Driver) SwitchToDefaultContent() error {
	d.frame = nil
	d.Switches = append(d.Switches, "default")
	return nil
}

// WaitWithTimeout checks cond once per virtual interval, at least once.
func (d *Driver) WaitWithTimeout(ctx context.Context, cond interfaces.Condition, timeout time.Duration) error {
	attempts := 1
	if d.PollInterval > 0 && timeout > d.PollInterval {
		attempts = int(timeout / d.PollInterval)
	}
	for i := 1; i <= attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.BeforePoll != nil {
			d.BeforePoll(i)
		}
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return fmt.Errorf("%w: condition not met after %s", entities.ErrTimeout, timeout)
}

func (d *Driver) Close() error {
	d.Closed = true
	return nil
}

var _ interfaces.Driver = (*Driver)(nil)
