package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"pageprism/domain/entities"
	"pageprism/domain/interfaces"
	"pageprism/infrastructure/config"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

// Legacy JSON wire protocol status codes.
const (
	legacyNoSuchElement  = 7
	legacyStaleReference = 10
)

type SeleniumController struct {
	wd      selenium.WebDriver
	service *selenium.Service
	logger  *logrus.Logger
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(cfg *config.Config) (string, error) {
	if path := cfg.DriverPath; path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set BROWSER_DRIVER_PATH environment variable")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(cfg *config.Config) string {
	if path := cfg.ChromeBinary; path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

// NewSeleniumController - opens a selenium session, either on the hub at
// cfg.SeleniumURL or on a chromedriver service started locally
func NewSeleniumController(cfg *config.Config, logger *logrus.Logger) (*SeleniumController, error) {
	caps := selenium.Capabilities{
		"browserName": "chrome",
	}

	chromeCaps := chrome.Capabilities{
		Args: []string{
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	}
	if cfg.Headless {
		chromeCaps.Args = append(chromeCaps.Args, "--headless=new")
	}
	if chromeBinary := findChromeBinary(cfg); chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
		chromeCaps.Path = chromeBinary
	}
	caps.AddChrome(chromeCaps)

	if cfg.SeleniumURL != "" {
		logger.Infof("Connecting to selenium at: %s", cfg.SeleniumURL)
		wd, err := selenium.NewRemote(caps, cfg.SeleniumURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create webdriver: %w", err)
		}
		return &SeleniumController{wd: wd, logger: logger}, nil
	}

	driverPath, err := findChromeDriver(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}
	logger.Infof("Using ChromeDriver at: %s", driverPath)

	service, err := selenium.NewChromeDriverService(driverPath, cfg.DriverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", cfg.DriverPort))
	if err != nil {
		service.Stop()
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found. Please install Google Chrome or set CHROME_BINARY_PATH environment variable. Error: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	return &SeleniumController{
		wd:      wd,
		service: service,
		logger:  logger,
	}, nil
}

// seleniumError - maps lookup failures onto the shared sentinels
func seleniumError(err error, by entities.By, selector string) error {
	var se *selenium.Error
	if errors.As(err, &se) {
		switch {
		case se.Err == "no such element" || se.LegacyCode == legacyNoSuchElement:
			return fmt.Errorf("%w: %s=%s: %v", entities.ErrElementNotFound, by, selector, err)
		case se.Err == "stale element reference" || se.LegacyCode == legacyStaleReference:
			return fmt.Errorf("%w: %v", entities.ErrStaleElement, err)
		}
	}
	return err
}

type seleniumElement struct {
	we selenium.WebElement
}

func (e seleniumElement) FindElement(by entities.By, selector string) (interfaces.Element, error) {
	we, err := e.we.FindElement(string(by), selector)
	if err != nil {
		return nil, seleniumError(err, by, selector)
	}
	return seleniumElement{we}, nil
}

func (e seleniumElement) FindElements(by entities.By, selector string) ([]interfaces.Element, error) {
	wes, err := e.we.FindElements(string(by), selector)
	if err != nil {
		return nil, seleniumError(err, by, selector)
	}
	return wrapSelenium(wes), nil
}

func (e seleniumElement) IsDisplayed() (bool, error) {
	ok, err := e.we.IsDisplayed()
	if err != nil {
		return false, seleniumError(err, "", "")
	}
	return ok, nil
}

func (e seleniumElement) IsEnabled() (bool, error) {
	ok, err := e.we.IsEnabled()
	if err != nil {
		return false, seleniumError(err, "", "")
	}
	return ok, nil
}

func wrapSelenium(wes []selenium.WebElement) []interfaces.Element {
	els := make([]interfaces.Element, 0, len(wes))
	for _, we := range wes {
		els = append(els, seleniumElement{we})
	}
	return els
}

// FindElement - finds the first element in the current browsing context
func (s *SeleniumController) FindElement(by entities.By, selector string) (interfaces.Element, error) {
	we, err := s.wd.FindElement(string(by), selector)
	if err != nil {
		return nil, seleniumError(err, by, selector)
	}
	return seleniumElement{we}, nil
}

// FindElements - finds every element in the current browsing context
func (s *SeleniumController) FindElements(by entities.By, selector string) ([]interfaces.Element, error) {
	wes, err := s.wd.FindElements(string(by), selector)
	if err != nil {
		return nil, seleniumError(err, by, selector)
	}
	return wrapSelenium(wes), nil
}

// Get - navigates browser to specified URL
func (s *SeleniumController) Get(url string) error {
	s.logger.Debugf("Navigating to: %s", url)
	return s.wd.Get(url)
}

// CurrentURL - returns current page URL
func (s *SeleniumController) CurrentURL() (string, error) {
	return s.wd.CurrentURL()
}

// ExecuteScript - runs a script body in the current browsing context
func (s *SeleniumController) ExecuteScript(script string, args ...interface{}) (interface{}, error) {
	wireArgs := make([]interface{}, 0, len(args))
	for _, arg := range args {
		if el, ok := arg.(seleniumElement); ok {
			arg = el.we
		}
		wireArgs = append(wireArgs, arg)
	}
	return s.wd.ExecuteScript(script, wireArgs)
}

// SwitchToFrame - moves the session into an iframe
func (s *SeleniumController) SwitchToFrame(frame interfaces.Element) error {
	el, ok := frame.(seleniumElement)
	if !ok {
		return fmt.Errorf("switch to frame: %T is not a selenium element", frame)
	}
	return s.wd.SwitchFrame(el.we)
}

// SwitchToDefaultContent - moves the session back to the top-level document
func (s *SeleniumController) SwitchToDefaultContent() error {
	return s.wd.SwitchFrame(nil)
}

// WaitWithTimeout - runs selenium's explicit wait with cond
func (s *SeleniumController) WaitWithTimeout(ctx context.Context, cond interfaces.Condition, timeout time.Duration) error {
	var condErr error
	err := s.wd.WaitWithTimeout(func(selenium.WebDriver) (bool, error) {
		if err := ctx.Err(); err != nil {
			condErr = err
			return false, err
		}
		ok, err := cond()
		condErr = err
		return ok, err
	}, timeout)
	if err == nil {
		return nil
	}
	if condErr != nil {
		return condErr
	}
	return fmt.Errorf("%w: %v", entities.ErrTimeout, err)
}

// Close - closes browser and stops ChromeDriver service
func (s *SeleniumController) Close() error {
	var closeErr error
	if s.wd != nil {
		if err := s.wd.Quit(); err != nil {
			closeErr = fmt.Errorf("failed to quit session: %w", err)
		}
		s.wd = nil
	}
	if s.service != nil {
		if err := s.service.Stop(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("failed to stop chromedriver: %w", err))
		}
		s.service = nil
	}
	return closeErr
}

// Ensure SeleniumController implements Driver interface
var _ interfaces.Driver = (*SeleniumController)(nil)
