package pom

import "pageprism/domain/entities"

func ID(id string) entities.Locator { return entities.NewLocator(entities.ByID, id) }

func CSS(selector string) entities.Locator {
	return entities.NewLocator(entities.ByCSSSelector, selector)
}

func XPath(expr string) entities.Locator { return entities.NewLocator(entities.ByXPath, expr) }

func Name(name string) entities.Locator { return entities.NewLocator(entities.ByName, name) }

func LinkText(text string) entities.Locator {
	return entities.NewLocator(entities.ByLinkText, text)
}

func PartialLinkText(text string) entities.Locator {
	return entities.NewLocator(entities.ByPartialLinkText, text)
}

func TagName(tag string) entities.Locator { return entities.NewLocator(entities.ByTagName, tag) }

func ClassName(class string) entities.Locator {
	return entities.NewLocator(entities.ByClassName, class)
}
