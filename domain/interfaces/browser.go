package interfaces

import (
	"context"
	"time"

	"pageprism/domain/entities"
)

// SearchContext is anything elements can be looked up from: the whole
// document of a driver session or a previously resolved element.
type SearchContext interface {
	// FindElement returns the first match, or an error wrapping
	// entities.ErrElementNotFound when nothing matches
	FindElement(by entities.By, selector string) (Element, error)

	// FindElements returns every match, empty when nothing matches
	FindElements(by entities.By, selector string) ([]Element, error)
}

// Element is a reference into the live document. It is not re-resolved, so
// it goes stale when the underlying node is replaced.
type Element interface {
	SearchContext

	// IsDisplayed reports whether the element is rendered visibly
	IsDisplayed() (bool, error)

	// IsEnabled reports whether the element accepts interaction
	IsEnabled() (bool, error)
}

// Condition is polled by Driver.WaitWithTimeout until it returns true or an error.
type Condition func() (bool, error)

// Driver is a browser automation session. It is not safe for concurrent use,
// and the frame it is switched into is session-wide state.
type Driver interface {
	SearchContext

	// Get navigates to an address
	Get(url string) error

	// CurrentURL returns the address of the top-level document
	CurrentURL() (string, error)

	// ExecuteScript runs a script body in the current browsing context and
	// returns its result. The body uses `return` like a WebDriver script.
	ExecuteScript(script string, args ...interface{}) (interface{}, error)

	// SwitchToFrame moves the browsing context into an iframe element
	SwitchToFrame(frame Element) error

	// SwitchToDefaultContent moves the browsing context back to the top-level document
	SwitchToDefaultContent() error

	// WaitWithTimeout polls cond until it holds, it fails, ctx is done or
	// timeout passes. Running out of time yields an error wrapping entities.ErrTimeout.
	WaitWithTimeout(ctx context.Context, cond Condition, timeout time.Duration) error

	// Close ends the session
	Close() error
}
