package pom

import (
	"context"
	"testing"
	"time"

	"pageprism/domain/entities"
	"pageprism/infrastructure/browser/fakedriver"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	cardSection = NewBuilder("Card").
			Element("title", CSS(".title")).
			Elements("tags", CSS(".tag")).
			MustBuildSection()

	catalogPage = NewBuilder("Catalog").
			URLTemplate("https://shop.example/catalog").
			Element("search", ID("search")).
			Element("submit", CSS("button[type=submit]")).
			Elements("items", CSS(".item")).
			Section("featured", CSS(".featured"), cardSection).
			Sections("cards", CSS(".card"), cardSection).
			MustBuildPage()
)

func newCatalog(t *testing.T) (*Page, *fakedriver.Driver) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	drv := fakedriver.New()
	return catalogPage.New(drv, WithLogger(logger)), drv
}

func TestHasAndHasNoAreNegations(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(doc *fakedriver.Document)
		field   string
		plural  bool
		present bool
	}{
		{"single absent", func(*fakedriver.Document) {}, "search", false, false},
		{"single present", func(doc *fakedriver.Document) {
			doc.Add(ID("search"), fakedriver.NewElement("search"))
		}, "search", false, true},
		{"single hidden still present", func(doc *fakedriver.Document) {
			doc.Add(ID("search"), fakedriver.NewElement("search").Hidden())
		}, "search", false, true},
		{"plural absent", func(*fakedriver.Document) {}, "items", true, false},
		{"plural present", func(doc *fakedriver.Document) {
			doc.Add(CSS(".item"), fakedriver.NewElement("a"), fakedriver.NewElement("b"))
		}, "items", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, drv := newCatalog(t)
			tt.setup(drv.Top)

			var has, hasNo bool
			var err error
			if tt.plural {
				has, err = page.Elements(tt.field).Has()
				require.NoError(t, err)
				hasNo, err = page.Elements(tt.field).HasNo()
			} else {
				has, err = page.Element(tt.field).Has()
				require.NoError(t, err)
				hasNo, err = page.Element(tt.field).HasNo()
			}
			require.NoError(t, err)
			assert.Equal(t, tt.present, has)
			assert.Equal(t, !has, hasNo)
		})
	}
}

func TestElementFetchDoesNotWait(t *testing.T) {
	page, drv := newCatalog(t)
	drv.BeforePoll = func(int) { t.Fatal("fetch must not poll") }

	_, err := page.Element("search").Element()
	assert.ErrorIs(t, err, entities.ErrElementNotFound)

	els, err := page.Elements("items").Elements()
	require.NoError(t, err)
	assert.Empty(t, els)

	search := fakedriver.NewElement("search")
	drv.Top.Add(ID("search"), search)
	el, err := page.Element("search").Element()
	require.NoError(t, err)
	assert.Same(t, search, el)
}

func TestWaitUntilVisible(t *testing.T) {
	page, drv := newCatalog(t)
	search := fakedriver.NewElement("search").Hidden()
	drv.BeforePoll = func(attempt int) {
		switch attempt {
		case 2:
			drv.Top.Add(ID("search"), search)
		case 3:
			search.Displayed = true
		}
	}

	el, err := page.Element("search").WaitUntilVisible(context.Background(), 5*time.Second)
	require.NoError(t, err)
	assert.Same(t, search, el)
}

func TestWaitUntilVisibleTimesOut(t *testing.T) {
	page, drv := newCatalog(t)
	drv.Top.Add(ID("search"), fakedriver.NewElement("search").Hidden())

	el, err := page.Element("search").WaitUntilVisible(context.Background(), 3*time.Second)
	assert.ErrorIs(t, err, entities.ErrTimeout)
	assert.Nil(t, el)
	assert.Contains(t, err.Error(), "wait_until_search_visible")
}

func TestWaitUntilVisibleUsesDefaultTimeout(t *testing.T) {
	page, drv := newCatalog(t)
	polls := 0
	drv.BeforePoll = func(int) { polls++ }

	_, err := page.Element("search").WaitUntilVisible(context.Background(), 0)
	assert.ErrorIs(t, err, entities.ErrTimeout)
	assert.Equal(t, int(DefaultTimeout/time.Second), polls)
}

func TestWaitUntilInvisible(t *testing.T) {
	tests := []struct {
		name    string
		els     []*fakedriver.Element
		wantErr error
	}{
		{"absent", nil, nil},
		{"hidden", []*fakedriver.Element{fakedriver.NewElement("a").Hidden()}, nil},
		{"stale", []*fakedriver.Element{{Name: "gone", Stale: true}}, nil},
		{"one visible", []*fakedriver.Element{
			fakedriver.NewElement("a").Hidden(),
			fakedriver.NewElement("b"),
		}, entities.ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, drv := newCatalog(t)
			if len(tt.els) > 0 {
				drv.Top.Add(CSS(".item"), tt.els...)
			}
			err := page.Elements("items").WaitUntilInvisible(context.Background(), 2*time.Second)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestWaitUntilInvisibleAfterSpinnerDisappears(t *testing.T) {
	page, drv := newCatalog(t)
	submit := fakedriver.NewElement("submit")
	drv.Top.Add(CSS("button[type=submit]"), submit)
	drv.BeforePoll = func(attempt int) {
		if attempt == 3 {
			drv.Top.Remove(CSS("button[type=submit]"))
		}
	}

	assert.NoError(t, page.Element("submit").WaitUntilInvisible(context.Background(), 5*time.Second))
}

func TestWaitUntilClickable(t *testing.T) {
	page, drv := newCatalog(t)
	submit := fakedriver.NewElement("submit").Disabled()
	drv.Top.Add(CSS("button[type=submit]"), submit)

	_, err := page.Element("submit").WaitUntilClickable(context.Background(), 2*time.Second)
	require.ErrorIs(t, err, entities.ErrTimeout)

	drv.BeforePoll = func(attempt int) {
		if attempt == 2 {
			submit.Enabled = true
		}
	}
	el, err := page.Element("submit").WaitUntilClickable(context.Background(), 5*time.Second)
	require.NoError(t, err)
	assert.Same(t, submit, el)
}

func TestElementsWaitUntilVisibleReturnsAllMatches(t *testing.T) {
	page, drv := newCatalog(t)
	drv.Top.Add(CSS(".item"),
		fakedriver.NewElement("a").Hidden(),
		fakedriver.NewElement("b"),
		fakedriver.NewElement("c").Hidden(),
	)

	els, err := page.Elements("items").WaitUntilVisible(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Len(t, els, 3)
}

func TestWaitStopsWhenContextIsCanceled(t *testing.T) {
	page, _ := newCatalog(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := page.Element("search").WaitUntilVisible(ctx, 5*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFieldMisuseFailsWithConfigurationError(t *testing.T) {
	page, _ := newCatalog(t)

	_, err := page.Element("missing").Has()
	assert.ErrorIs(t, err, entities.ErrConfiguration)

	_, err = page.Element("items").Element()
	assert.ErrorIs(t, err, entities.ErrConfiguration)

	_, err = page.Elements("search").Elements()
	assert.ErrorIs(t, err, entities.ErrConfiguration)

	_, err = page.Section("search").Section()
	assert.ErrorIs(t, err, entities.ErrConfiguration)

	_, err = page.Frame("featured").Frame()
	assert.ErrorIs(t, err, entities.ErrConfiguration)
}

func TestSectionLookupsAreScopedToBase(t *testing.T) {
	page, drv := newCatalog(t)

	pageTitle := fakedriver.NewElement("page title")
	drv.Top.Add(CSS(".title"), pageTitle)

	featured := fakedriver.NewElement("featured")
	featuredTitle := fakedriver.NewElement("featured title")
	featured.Children.Add(CSS(".title"), featuredTitle)
	drv.Top.Add(CSS(".featured"), featured)

	has, err := page.Section("featured").Has()
	require.NoError(t, err)
	assert.True(t, has)

	base, err := page.Section("featured").Element()
	require.NoError(t, err)
	assert.Same(t, featured, base)

	sec, err := page.Section("featured").Section()
	require.NoError(t, err)
	assert.Same(t, featured, sec.Base())

	el, err := sec.Element("title").Element()
	require.NoError(t, err)
	assert.Same(t, featuredTitle, el)

	hasTags, err := sec.Elements("tags").Has()
	require.NoError(t, err)
	assert.False(t, hasTags)

	err = sec.Within(func(s *Section) error {
		assert.Same(t, sec, s)
		return nil
	})
	assert.NoError(t, err)
}

func TestSectionBaseIsNotRefetched(t *testing.T) {
	page, drv := newCatalog(t)
	featured := fakedriver.NewElement("featured")
	drv.Top.Add(CSS(".featured"), featured)

	sec, err := page.Section("featured").Section()
	require.NoError(t, err)

	featured.Stale = true
	drv.Top.Remove(CSS(".featured"))
	drv.Top.Add(CSS(".featured"), fakedriver.NewElement("replacement"))

	_, err = sec.Element("title").Element()
	assert.ErrorIs(t, err, entities.ErrStaleElement)
}

func TestSectionsWrapEveryMatch(t *testing.T) {
	page, drv := newCatalog(t)
	for _, name := range []string{"one", "two", "three"} {
		card := fakedriver.NewElement(name)
		card.Children.Add(CSS(".title"), fakedriver.NewElement(name+" title"))
		drv.Top.Add(CSS(".card"), card)
	}

	secs, err := page.Sections("cards").Sections()
	require.NoError(t, err)
	require.Len(t, secs, 3)

	for i, name := range []string{"one", "two", "three"} {
		el, err := secs[i].Element("title").Element()
		require.NoError(t, err)
		assert.Equal(t, name+" title", el.(*fakedriver.Element).Name)
	}

	_, err = page.Section("featured").Section()
	assert.ErrorIs(t, err, entities.ErrElementNotFound)
}

func TestCallDispatchesGeneratedMethods(t *testing.T) {
	page, drv := newCatalog(t)
	search := fakedriver.NewElement("search")
	drv.Top.Add(ID("search"), search)
	drv.Top.Add(CSS(".item"), fakedriver.NewElement("a"), fakedriver.NewElement("b"))
	ctx := context.Background()

	res, err := page.Call(ctx, "has_search", 0)
	require.NoError(t, err)
	assert.True(t, res.Found)

	res, err = page.Call(ctx, "has_no_items", 0)
	require.NoError(t, err)
	assert.False(t, res.Found)

	res, err = page.Call(ctx, "wait_until_search_to_be_clickable", time.Second)
	require.NoError(t, err)
	assert.Equal(t, entities.OpClickable, res.Method.Op)
	require.Len(t, res.Elements, 1)
	assert.Same(t, search, res.Elements[0])

	res, err = page.Call(ctx, "items_elements", 0)
	require.NoError(t, err)
	assert.Len(t, res.Elements, 2)

	_, err = page.Call(ctx, "wait_until_items_to_be_clickable", time.Second)
	assert.ErrorIs(t, err, entities.ErrConfiguration)
}
