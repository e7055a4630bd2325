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

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// PlaywrightController drives a playwright page. The frame it looks
// elements up in plays the part of WebDriver's switched browsing context.
type PlaywrightController struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	frame   playwright.Frame
	logger  *logrus.Logger
}

// NewPlaywrightController - launches chromium through playwright
func NewPlaywrightController(cfg *config.Config, logger *logrus.Logger) (*PlaywrightController, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOptions := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args: []string{
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	}
	if cfg.ChromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", cfg.ChromeBinary)
		launchOptions.ExecutablePath = playwright.String(cfg.ChromeBinary)
	}

	browser, err := pw.Chromium.Launch(launchOptions)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	page, err := browser.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.OnDialog(func(dialog playwright.Dialog) {
		dialog.Accept()
	})

	return &PlaywrightController{
		pw:      pw,
		browser: browser,
		page:    page,
		frame:   page.MainFrame(),
		logger:  logger,
	}, nil
}

// playwrightError - maps detached-node failures onto ErrStaleElement
func playwrightError(err error) error {
	if err == nil {
		return nil
	}
	errStr := err.Error()
	if strings.Contains(errStr, "not attached to the DOM") || strings.Contains(errStr, "Element is detached") {
		return fmt.Errorf("%w: %v", entities.ErrStaleElement, err)
	}
	return err
}

func playwrightSelector(by entities.By, selector string) (string, error) {
	q, err := translate(entities.NewLocator(by, selector))
	if err != nil {
		return "", err
	}
	if q.xpath {
		return "xpath=" + q.expr, nil
	}
	return "css=" + q.expr, nil
}

// queryRoot is implemented by both playwright.Frame and playwright.ElementHandle.
type queryRoot interface {
	QuerySelectorAll(selector string) ([]playwright.ElementHandle, error)
}

func playwrightFindAll(root queryRoot, by entities.By, selector string) ([]interfaces.Element, error) {
	sel, err := playwrightSelector(by, selector)
	if err != nil {
		return nil, err
	}
	handles, err := root.QuerySelectorAll(sel)
	if err != nil {
		return nil, playwrightError(err)
	}
	els := make([]interfaces.Element, 0, len(handles))
	for _, h := range handles {
		els = append(els, playwrightElement{h})
	}
	return els, nil
}

func playwrightFind(root queryRoot, by entities.By, selector string) (interfaces.Element, error) {
	els, err := playwrightFindAll(root, by, selector)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s=%s", entities.ErrElementNotFound, by, selector)
	}
	return els[0], nil
}

type playwrightElement struct {
	h playwright.ElementHandle
}

func (e playwrightElement) FindElement(by entities.By, selector string) (interfaces.Element, error) {
	return playwrightFind(e.h, by, selector)
}

func (e playwrightElement) FindElements(by entities.By, selector string) ([]interfaces.Element, error) {
	return playwrightFindAll(e.h, by, selector)
}

func (e playwrightElement) IsDisplayed() (bool, error) {
	ok, err := e.h.IsVisible()
	return ok, playwrightError(err)
}

func (e playwrightElement) IsEnabled() (bool, error) {
	ok, err := e.h.IsEnabled()
	return ok, playwrightError(err)
}

// FindElement - finds the first element in the current frame
func (b *PlaywrightController) FindElement(by entities.By, selector string) (interfaces.Element, error) {
	return playwrightFind(b.frame, by, selector)
}

// FindElements - finds every element in the current frame
func (b *PlaywrightController) FindElements(by entities.By, selector string) ([]interfaces.Element, error) {
	return playwrightFindAll(b.frame, by, selector)
}

// Get - navigates to the specified URL and waits for the load event
func (b *PlaywrightController) Get(url string) error {
	b.logger.Debugf("Navigating to: %s", url)
	_, err := b.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(30000),
	})
	return err
}

// CurrentURL - returns the URL of the top-level document
func (b *PlaywrightController) CurrentURL() (string, error) {
	return b.page.URL(), nil
}

// ExecuteScript - evaluates a WebDriver-style script body in the current frame
func (b *PlaywrightController) ExecuteScript(script string, args ...interface{}) (interface{}, error) {
	evalArgs := make([]interface{}, 0, len(args))
	for _, arg := range args {
		if el, ok := arg.(playwrightElement); ok {
			arg = el.h
		}
		evalArgs = append(evalArgs, arg)
	}
	expr := fmt.Sprintf("(args) => (%s).apply(null, args)", scriptFunction(script))
	return b.frame.Evaluate(expr, evalArgs)
}

// SwitchToFrame - makes the iframe's document the lookup root
func (b *PlaywrightController) SwitchToFrame(frame interfaces.Element) error {
	el, ok := frame.(playwrightElement)
	if !ok {
		return fmt.Errorf("switch to frame: %T is not a playwright element", frame)
	}
	content, err := el.h.ContentFrame()
	if err != nil {
		return playwrightError(err)
	}
	if content == nil {
		return errors.New("switch to frame: element is not an iframe")
	}
	b.frame = content
	return nil
}

// SwitchToDefaultContent - makes the main frame the lookup root again
func (b *PlaywrightController) SwitchToDefaultContent() error {
	b.frame = b.page.MainFrame()
	return nil
}

// WaitWithTimeout - polls cond at selenium's default interval
func (b *PlaywrightController) WaitWithTimeout(ctx context.Context, cond interfaces.Condition, timeout time.Duration) error {
	return pollCondition(ctx, cond, timeout, DefaultWaitInterval)
}

// Close - closes the browser and stops playwright
func (b *PlaywrightController) Close() error {
	var closeErr error

	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			errStr := err.Error()
			if !strings.Contains(errStr, "closed") && !strings.Contains(errStr, "target closed") {
				closeErr = fmt.Errorf("failed to close browser: %w", err)
			}
		}
		b.browser = nil
	}

	if b.pw != nil {
		if err := b.pw.Stop(); err != nil {
			if closeErr != nil {
				closeErr = fmt.Errorf("%v; failed to stop playwright: %w", closeErr, err)
			} else {
				closeErr = fmt.Errorf("failed to stop playwright: %w", err)
			}
		}
		b.pw = nil
	}

	return closeErr
}

var _ interfaces.Driver = (*PlaywrightController)(nil)
