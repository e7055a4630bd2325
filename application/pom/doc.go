// Package pom builds page objects from declared locator fields.
//
// A page type is declared once with a Builder, one call per field. Building
// expands every field into a fixed family of operations (visibility,
// invisibility and clickability waits, presence checks and a raw fetch) that
// are reachable through typed accessors or by their conventional names:
//
//	var itemPage = pom.NewBuilder("ItemPage").
//		URLTemplate("https://shop.example/items/{id}").
//		Element("title", pom.CSS("h1.title")).
//		Elements("reviews", pom.CSS(".review")).
//		MustBuildPage()
//
//	page := itemPage.New(driver)
//	if err := page.Load(pom.Params{"id": 42}); err != nil {
//		return err
//	}
//	title, err := page.Element("title").WaitUntilVisible(ctx, 5*time.Second)
//
// Pages, sections and frames share one driver session. A session is not safe
// for concurrent use and the frame it is switched into is session-wide, so
// frame scopes on the same session must not be nested or run concurrently.
package pom
