package entities

import (
	"fmt"
	"strings"
)

// By is a lookup strategy. Values match the WebDriver strategy names so they
// can be handed to a selenium session unchanged.
type By string

const (
	ByID              By = "id"
	ByXPath           By = "xpath"
	ByLinkText        By = "link text"
	ByPartialLinkText By = "partial link text"
	ByName            By = "name"
	ByTagName         By = "tag name"
	ByClassName       By = "class name"
	ByCSSSelector     By = "css selector"
)

var byAliases = map[string]By{
	"id":                ByID,
	"xpath":             ByXPath,
	"link text":         ByLinkText,
	"link":              ByLinkText,
	"partial link text": ByPartialLinkText,
	"partial link":      ByPartialLinkText,
	"name":              ByName,
	"tag name":          ByTagName,
	"tag":               ByTagName,
	"class name":        ByClassName,
	"class":             ByClassName,
	"css selector":      ByCSSSelector,
	"css":               ByCSSSelector,
}

// ParseBy resolves a strategy name or one of its short aliases.
func ParseBy(s string) (By, error) {
	key := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "_", " ")))
	if by, ok := byAliases[key]; ok {
		return by, nil
	}
	return "", fmt.Errorf("%w: unknown lookup strategy %q", ErrConfiguration, s)
}

// Locator pairs a lookup strategy with a selector.
type Locator struct {
	By       By     `json:"by" yaml:"by"`
	Selector string `json:"selector" yaml:"selector"`
}

// NewLocator - creates a locator
func NewLocator(by By, selector string) Locator {
	return Locator{By: by, Selector: selector}
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.By, l.Selector)
}
