package pom

import (
	"testing"

	"pageprism/domain/entities"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func methodNames(methods []entities.Method) []string {
	names := make([]string, 0, len(methods))
	for _, m := range methods {
		names = append(names, m.Name)
	}
	return names
}

func TestExpansionGeneratesFixedOperationSet(t *testing.T) {
	header := NewBuilder("Header").Element("logo", CSS("img")).MustBuildSection()
	editor := NewBuilder("Editor").Element("body", TagName("body")).MustBuildFrame()

	page := NewBuilder("Dashboard").
		Element("title", CSS("h1")).
		Elements("rows", CSS("tr")).
		Section("header", TagName("header"), header).
		Sections("cards", ClassName("card"), header).
		Frame("editor", ID("editor"), editor).
		MustBuildPage()

	tests := []struct {
		field string
		want  []string
	}{
		{"title", []string{
			"wait_until_title_visible", "wait_until_title_invisible", "wait_until_title_to_be_clickable",
			"has_title", "has_no_title", "title_element",
		}},
		{"rows", []string{
			"wait_until_rows_visible", "wait_until_rows_invisible",
			"has_rows", "has_no_rows", "rows_elements",
		}},
		{"header", []string{
			"wait_until_header_visible", "wait_until_header_invisible", "wait_until_header_to_be_clickable",
			"has_header", "has_no_header", "header_element",
		}},
		{"cards", []string{
			"wait_until_cards_visible", "wait_until_cards_invisible",
			"has_cards", "has_no_cards", "cards_elements",
		}},
		{"editor", []string{
			"wait_until_editor_visible", "wait_until_editor_invisible", "wait_until_editor_to_be_clickable",
			"has_editor", "has_no_editor", "editor_element",
		}},
	}

	total := 0
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, methodNames(page.Schema().MethodsFor(tt.field)))
			for _, name := range tt.want {
				m, ok := page.Schema().Method(name)
				require.True(t, ok, name)
				assert.Equal(t, tt.field, m.Field)
			}
		})
		total += len(tt.want)
	}
	assert.Len(t, page.Schema().Methods(), total)
	assert.Equal(t, []string{"title", "rows", "header", "cards", "editor"}, page.Schema().Fields())
}

func TestBuilderRedeclaredFieldReplacesOperations(t *testing.T) {
	logger, hook := test.NewNullLogger()

	page := NewBuilder("Search").
		WithLogger(logger).
		Element("results", CSS(".result")).
		Element("query", Name("q")).
		Elements("results", CSS(".result")).
		MustBuildPage()

	assert.Equal(t, []string{"results", "query"}, page.Schema().Fields())

	d, ok := page.Schema().Descriptor("results")
	require.True(t, ok)
	assert.Equal(t, entities.KindMulti, d.Kind)

	_, ok = page.Schema().Method("results_element")
	assert.False(t, ok)
	_, ok = page.Schema().Method("wait_until_results_to_be_clickable")
	assert.False(t, ok)
	_, ok = page.Schema().Method("results_elements")
	assert.True(t, ok)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "redeclared")
}

func TestBuilderRejectsInvalidDeclarations(t *testing.T) {
	tests := []struct {
		name  string
		build func() error
	}{
		{"empty selector", func() error {
			_, err := NewBuilder("P").Element("x", CSS("")).BuildPage()
			return err
		}},
		{"empty field name", func() error {
			_, err := NewBuilder("P").Element("", CSS("a")).BuildPage()
			return err
		}},
		{"nil section type", func() error {
			_, err := NewBuilder("P").Section("s", CSS("a"), nil).BuildPage()
			return err
		}},
		{"nil frame type", func() error {
			_, err := NewBuilder("P").Frame("f", CSS("iframe"), nil).BuildPage()
			return err
		}},
		{"bad matcher", func() error {
			_, err := NewBuilder("P").URLMatcher("https://x/(").BuildPage()
			return err
		}},
		{"bad template", func() error {
			_, err := NewBuilder("P").URLTemplate("https://x/{id").BuildPage()
			return err
		}},
		{"section with url", func() error {
			_, err := NewBuilder("S").URLTemplate("https://x/").BuildSection()
			return err
		}},
		{"frame with matcher", func() error {
			_, err := NewBuilder("F").URLMatcher(".*").BuildFrame()
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.build(), entities.ErrConfiguration)
		})
	}
}

func TestMustBuildPanicsOnInvalidDeclaration(t *testing.T) {
	assert.Panics(t, func() {
		NewBuilder("P").Element("x", CSS("")).MustBuildPage()
	})
}
