package browser

import (
	"fmt"
	"strings"

	"pageprism/domain/entities"
)

// query is a locator rewritten for engines that only evaluate CSS and XPath.
type query struct {
	xpath bool
	expr  string
}

// translate rewrites a locator into a CSS or XPath query. XPath queries are
// relative (".//") so they also work from an element.
func translate(loc entities.Locator) (query, error) {
	sel := loc.Selector
	switch loc.By {
	case entities.ByCSSSelector, entities.ByTagName:
		return query{expr: sel}, nil
	case entities.ByXPath:
		return query{xpath: true, expr: sel}, nil
	case entities.ByID:
		return query{expr: fmt.Sprintf("[id=%s]", cssString(sel))}, nil
	case entities.ByName:
		return query{expr: fmt.Sprintf("[name=%s]", cssString(sel))}, nil
	case entities.ByClassName:
		return query{expr: fmt.Sprintf("[class~=%s]", cssString(sel))}, nil
	case entities.ByLinkText:
		return query{xpath: true, expr: fmt.Sprintf(".//a[normalize-space(.)=%s]", xpathLiteral(sel))}, nil
	case entities.ByPartialLinkText:
		return query{xpath: true, expr: fmt.Sprintf(".//a[contains(., %s)]", xpathLiteral(sel))}, nil
	}
	return query{}, fmt.Errorf("%w: unsupported lookup strategy %q", entities.ErrConfiguration, loc.By)
}

// cssString quotes s as a CSS string.
func cssString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)
	return `"` + r.Replace(s) + `"`
}

// xpathLiteral quotes s as an XPath 1.0 literal. XPath has no escapes, so a
// string holding both quote kinds becomes a concat() call.
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	parts := strings.Split(s, `"`)
	args := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			args = append(args, `'"'`)
		}
		if p != "" {
			args = append(args, `"`+p+`"`)
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}

// scriptFunction wraps a WebDriver-style script body, which reads its
// parameters from `arguments` and answers with `return`, into a function
// expression for engines that evaluate functions.
func scriptFunction(body string) string {
	return "function() {\n" + body + "\n}"
}
