package pom

import (
	"errors"

	"pageprism/domain/entities"
	"pageprism/domain/interfaces"
)

func isMissing(err error) bool {
	return errors.Is(err, entities.ErrElementNotFound) || errors.Is(err, entities.ErrStaleElement)
}

// visibilityOf holds once the first match is displayed and stores it in found.
func visibilityOf(search interfaces.SearchContext, loc entities.Locator, found *interfaces.Element) interfaces.Condition {
	return func() (bool, error) {
		el, err := search.FindElement(loc.By, loc.Selector)
		if isMissing(err) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		displayed, err := el.IsDisplayed()
		if isMissing(err) {
			return false, nil
		}
		if err != nil || !displayed {
			return false, err
		}
		*found = el
		return true, nil
	}
}

// anyVisibilityOf holds once at least one match is displayed and stores all
// matches in found.
func anyVisibilityOf(search interfaces.SearchContext, loc entities.Locator, found *[]interfaces.Element) interfaces.Condition {
	return func() (bool, error) {
		els, err := search.FindElements(loc.By, loc.Selector)
		if err != nil {
			return false, err
		}
		for _, el := range els {
			displayed, err := el.IsDisplayed()
			if isMissing(err) {
				continue
			}
			if err != nil {
				return false, err
			}
			if displayed {
				*found = els
				return true, nil
			}
		}
		return false, nil
	}
}

// invisibilityOf holds when no match is displayed, including when there is no match.
func invisibilityOf(search interfaces.SearchContext, loc entities.Locator) interfaces.Condition {
	return func() (bool, error) {
		els, err := search.FindElements(loc.By, loc.Selector)
		if err != nil {
			return false, err
		}
		for _, el := range els {
			displayed, err := el.IsDisplayed()
			if isMissing(err) {
				continue
			}
			if err != nil {
				return false, err
			}
			if displayed {
				return false, nil
			}
		}
		return true, nil
	}
}

// clickabilityOf holds once the first match is displayed and enabled.
func clickabilityOf(search interfaces.SearchContext, loc entities.Locator, found *interfaces.Element) interfaces.Condition {
	var visible interfaces.Element
	visibleCond := visibilityOf(search, loc, &visible)
	return func() (bool, error) {
		ok, err := visibleCond()
		if err != nil || !ok {
			return false, err
		}
		enabled, err := visible.IsEnabled()
		if isMissing(err) {
			return false, nil
		}
		if err != nil || !enabled {
			return false, err
		}
		*found = visible
		return true, nil
	}
}
