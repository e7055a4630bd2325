package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pageprism/domain/entities"
	"pageprism/domain/interfaces"
	"pageprism/infrastructure/config"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// RodController drives a page over CDP with rod. Lookups use
// rod.NotFoundSleeper so they fail at once instead of retrying.
type RodController struct {
	browser *rod.Browser
	page    *rod.Page
	frame   *rod.Page
	logger  *logrus.Logger
}

// NewRodController - launches a browser and opens a blank page
func NewRodController(cfg *config.Config, logger *logrus.Logger) (*RodController, error) {
	l := launcher.New().Headless(cfg.Headless)
	if cfg.ChromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", cfg.ChromeBinary)
		l = l.Bin(cfg.ChromeBinary)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &RodController{
		browser: browser,
		page:    page,
		frame:   page,
		logger:  logger,
	}, nil
}

// rodError - maps rod lookup failures onto the shared sentinels
func rodError(err error, by entities.By, selector string) error {
	if err == nil {
		return nil
	}
	var notFound *rod.ElementNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s=%s", entities.ErrElementNotFound, by, selector)
	}
	errStr := err.Error()
	if strings.Contains(errStr, "Could not find node") || strings.Contains(errStr, "Cannot find context") {
		return fmt.Errorf("%w: %v", entities.ErrStaleElement, err)
	}
	return err
}

// rodRoot is implemented by both *rod.Page and *rod.Element.
type rodRoot interface {
	Element(selector string) (*rod.Element, error)
	ElementX(xpath string) (*rod.Element, error)
	Elements(selector string) (rod.Elements, error)
	ElementsX(xpath string) (rod.Elements, error)
}

func rodFind(root rodRoot, by entities.By, selector string) (interfaces.Element, error) {
	q, err := translate(entities.NewLocator(by, selector))
	if err != nil {
		return nil, err
	}
	var el *rod.Element
	if q.xpath {
		el, err = root.ElementX(q.expr)
	} else {
		el, err = root.Element(q.expr)
	}
	if err != nil {
		return nil, rodError(err, by, selector)
	}
	return rodElement{el}, nil
}

func rodFindAll(root rodRoot, by entities.By, selector string) ([]interfaces.Element, error) {
	q, err := translate(entities.NewLocator(by, selector))
	if err != nil {
		return nil, err
	}
	var found rod.Elements
	if q.xpath {
		found, err = root.ElementsX(q.expr)
	} else {
		found, err = root.Elements(q.expr)
	}
	if err != nil {
		return nil, rodError(err, by, selector)
	}
	els := make([]interfaces.Element, 0, len(found))
	for _, el := range found {
		els = append(els, rodElement{el})
	}
	return els, nil
}

type rodElement struct {
	el *rod.Element
}

func (e rodElement) root() *rod.Element {
	return e.el.Sleeper(rod.NotFoundSleeper)
}

func (e rodElement) FindElement(by entities.By, selector string) (interfaces.Element, error) {
	return rodFind(e.root(), by, selector)
}

func (e rodElement) FindElements(by entities.By, selector string) ([]interfaces.Element, error) {
	return rodFindAll(e.root(), by, selector)
}

func (e rodElement) IsDisplayed() (bool, error) {
	ok, err := e.el.Visible()
	return ok, rodError(err, "", "")
}

func (e rodElement) IsEnabled() (bool, error) {
	disabled, err := e.el.Property("disabled")
	if err != nil {
		return false, rodError(err, "", "")
	}
	return !disabled.Bool(), nil
}

func (r *RodController) root() *rod.Page {
	return r.frame.Sleeper(rod.NotFoundSleeper)
}

// FindElement - finds the first element in the current frame
func (r *RodController) FindElement(by entities.By, selector string) (interfaces.Element, error) {
	return rodFind(r.root(), by, selector)
}

// FindElements - finds every element in the current frame
func (r *RodController) FindElements(by entities.By, selector string) ([]interfaces.Element, error) {
	return rodFindAll(r.root(), by, selector)
}

// Get - navigates and waits for the load event
func (r *RodController) Get(url string) error {
	r.logger.Debugf("Navigating to: %s", url)
	if err := r.page.Navigate(url); err != nil {
		return err
	}
	return r.page.WaitLoad()
}

// CurrentURL - returns the URL of the top-level document
func (r *RodController) CurrentURL() (string, error) {
	info, err := r.page.Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

// ExecuteScript - evaluates a WebDriver-style script body in the current frame
func (r *RodController) ExecuteScript(script string, args ...interface{}) (interface{}, error) {
	evalArgs := make([]interface{}, 0, len(args))
	for _, arg := range args {
		if el, ok := arg.(rodElement); ok {
			arg = el.el.Object
		}
		evalArgs = append(evalArgs, arg)
	}
	res, err := r.frame.Eval(scriptFunction(script), evalArgs...)
	if err != nil {
		return nil, err
	}
	return res.Value.Val(), nil
}

// SwitchToFrame - makes the iframe's document the lookup root
func (r *RodController) SwitchToFrame(frame interfaces.Element) error {
	el, ok := frame.(rodElement)
	if !ok {
		return fmt.Errorf("switch to frame: %T is not a rod element", frame)
	}
	content, err := el.el.Frame()
	if err != nil {
		return rodError(err, "", "")
	}
	r.frame = content
	return nil
}

// SwitchToDefaultContent - makes the top-level page the lookup root again
func (r *RodController) SwitchToDefaultContent() error {
	r.frame = r.page
	return nil
}

// WaitWithTimeout - polls cond at selenium's default interval
func (r *RodController) WaitWithTimeout(ctx context.Context, cond interfaces.Condition, timeout time.Duration) error {
	return pollCondition(ctx, cond, timeout, DefaultWaitInterval)
}

// Close - closes the browser
func (r *RodController) Close() error {
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}

var _ interfaces.Driver = (*RodController)(nil)
