package pom

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"pageprism/domain/entities"
	"pageprism/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/yosida95/uritemplate/v3"
)

const readyStateScript = "return document.readyState"

// PageType is a built page declaration.
type PageType struct {
	schema      *Schema
	urlTemplate string
	urlMatcher  string
	template    *uritemplate.Template
	matcher     *regexp.Regexp
}

func (t *PageType) Schema() *Schema { return t.schema }

func (t *PageType) URLTemplate() string { return t.urlTemplate }

func (t *PageType) URLMatcher() string { return t.urlMatcher }

// New binds the page type to a driver session.
func (t *PageType) New(driver interfaces.Driver, opts ...Option) *Page {
	o := newOptions(opts)
	return &Page{
		Scope: newScope(driver, driver, t.schema, o),
		typ:   t,
		poller: Poller{
			Interval: PollInterval,
			Sleep:    o.sleep,
			Logger:   o.logger,
		},
	}
}

// Params are the variables Page.Load expands the url template with.
// Strings, numbers and other scalars expand as strings, []string as a list
// and map[string]string as key/value pairs.
type Params map[string]interface{}

func (p Params) values() uritemplate.Values {
	vals := uritemplate.Values{}
	for name, v := range p {
		switch v := v.(type) {
		case []string:
			vals.Set(name, uritemplate.List(v...))
		case map[string]string:
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			kv := make([]string, 0, 2*len(keys))
			for _, k := range keys {
				kv = append(kv, k, v[k])
			}
			vals.Set(name, uritemplate.KV(kv...))
		default:
			vals.Set(name, uritemplate.String(fmt.Sprint(v)))
		}
	}
	return vals
}

// Page is a top-level navigable document.
type Page struct {
	*Scope
	typ    *PageType
	poller Poller
}

// Type returns the page type the page was created from.
func (p *Page) Type() *PageType { return p.typ }

// URL expands the url template without navigating.
func (p *Page) URL(params Params) (string, error) {
	var uri string
	err := p.observe("url", logrus.Fields{"params": params}, func() error {
		var err error
		uri, err = p.url(params)
		return err
	})
	return uri, err
}

func (p *Page) url(params Params) (string, error) {
	if p.typ.template == nil {
		return "", fmt.Errorf("%w: cannot load %s: no url template", entities.ErrConfiguration, p.schema.name)
	}
	uri, err := p.typ.template.Expand(params.values())
	if err != nil {
		return "", fmt.Errorf("%w: expand %q: %w", entities.ErrConfiguration, p.typ.urlTemplate, err)
	}
	return uri, nil
}

// Load expands the url template with params and navigates to the result.
func (p *Page) Load(params Params) error {
	return p.observe("load", logrus.Fields{"params": params}, func() error {
		uri, err := p.url(params)
		if err != nil {
			return err
		}
		if err := p.driver.Get(uri); err != nil {
			return fmt.Errorf("navigate to %s: %w", uri, err)
		}
		return nil
	})
}

// IsLoaded reports whether the current address fully matches the url
// matcher or, without a matcher, equals the url template verbatim.
func (p *Page) IsLoaded() (bool, error) {
	var loaded bool
	err := p.observe("is_loaded", nil, func() error {
		var err error
		loaded, err = p.isLoaded()
		return err
	})
	return loaded, err
}

func (p *Page) isLoaded() (bool, error) {
	if p.typ.matcher == nil && p.typ.urlTemplate == "" {
		return false, fmt.Errorf("%w: cannot check %s: neither url template nor url matcher", entities.ErrConfiguration, p.schema.name)
	}
	current, err := p.driver.CurrentURL()
	if err != nil {
		return false, err
	}
	if p.typ.matcher != nil {
		return p.typ.matcher.MatchString(current), nil
	}
	return current == p.typ.urlTemplate, nil
}

// AssertLoaded fails with entities.ErrPageState unless the page is loaded.
func (p *Page) AssertLoaded() error {
	return p.observe("assert_loaded", nil, func() error {
		loaded, err := p.isLoaded()
		if err != nil {
			return err
		}
		if !loaded {
			return fmt.Errorf("%w: page %s is not loaded", entities.ErrPageState, p.schema.name)
		}
		return nil
	})
}

// WaitUntilPageLoaded checks IsLoaded once per second, at most one check
// per whole second of timeout.
func (p *Page) WaitUntilPageLoaded(ctx context.Context, timeout time.Duration) error {
	return p.observe("wait_until_page_loaded", logrus.Fields{"timeout": timeout}, func() error {
		err := p.poller.Poll(ctx, p.poller.Attempts(timeout), "page is loaded", p.isLoaded)
		if err != nil {
			return fmt.Errorf("loading page %s: %w", p.schema.name, err)
		}
		return nil
	})
}

// WaitUntilPageReadyStateIsComplete checks document.readyState once per
// second until it is "complete".
func (p *Page) WaitUntilPageReadyStateIsComplete(ctx context.Context, timeout time.Duration) error {
	return p.observe("wait_until_page_readystate_is_complete", logrus.Fields{"timeout": timeout}, func() error {
		err := p.poller.Poll(ctx, p.poller.Attempts(timeout), "document.readyState is complete", p.readyStateComplete)
		if err != nil {
			return fmt.Errorf("loading page %s: %w", p.schema.name, err)
		}
		return nil
	})
}

func (p *Page) readyStateComplete() (bool, error) {
	state, err := p.driver.ExecuteScript(readyStateScript)
	if err != nil {
		return false, err
	}
	return state == "complete", nil
}

// CurrentURL returns the address of the top-level document.
func (p *Page) CurrentURL() (string, error) {
	var current string
	err := p.observe("current_url", nil, func() error {
		var err error
		current, err = p.driver.CurrentURL()
		return err
	})
	return current, err
}
