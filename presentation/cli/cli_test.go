package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pageprism/domain/entities"
	"pageprism/domain/interfaces"
	"pageprism/infrastructure/browser/fakedriver"
	"pageprism/infrastructure/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const definitions = `
pages:
  - name: ProductPage
    url_template: https://shop.example/products/{id}
    url_matcher: https://shop\.example/products/\d+
    fields:
      - {name: title, type: element, by: id, selector: title}
      - {name: reviews, type: sections, by: css, selector: .review, scope: Review}
      - {name: banner, type: element, by: id, selector: banner}
sections:
  - name: Review
    fields:
      - {name: author, type: element, by: class, selector: author}
`

type harness struct {
	defs    string
	drv     *fakedriver.Driver
	started int
	out     bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("PAGEPRISM_DRIVER", config.DriverSelenium)
	t.Setenv("PAGEPRISM_LOG_LEVEL", "error")
	t.Setenv("PAGEPRISM_REPORT_DIR", t.TempDir())

	defs := filepath.Join(t.TempDir(), "shop.yaml")
	require.NoError(t, os.WriteFile(defs, []byte(definitions), 0644))

	drv := fakedriver.New()
	review := fakedriver.NewElement("review")
	review.Children.Add(entities.NewLocator(entities.ByClassName, "author"), fakedriver.NewElement("author"))
	drv.Top.
		Add(entities.NewLocator(entities.ByID, "title"), fakedriver.NewElement("title")).
		Add(entities.NewLocator(entities.ByCSSSelector, ".review"), review)
	return &harness{defs: defs, drv: drv}
}

func (h *harness) run(stdin string, args ...string) error {
	h.out.Reset()
	root := NewRootCommand(func(*config.Config, *logrus.Logger) (interfaces.Driver, error) {
		h.started++
		return h.drv, nil
	})
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&h.out)
	root.SetErr(&h.out)
	return root.ExecuteContext(context.Background())
}

func TestDescribe(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("", "describe", h.defs))
	out := h.out.String()
	assert.Contains(t, out, "ProductPage(3 fields)")
	assert.Contains(t, out, "url matcher:  https://shop\\.example/products/\\d+")
	assert.Contains(t, out, "title element (id=title)")
	assert.Contains(t, out, "wait_until_title_to_be_clickable")
	assert.Contains(t, out, "reviews_elements")
	assert.Contains(t, out, "author element (class name=author)")
	assert.Zero(t, h.started)
}

func TestDescribeUnknownPage(t *testing.T) {
	h := newHarness(t)

	err := h.run("", "describe", h.defs, "CartPage")
	assert.ErrorIs(t, err, entities.ErrConfiguration)
}

func TestProbeText(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("", "probe", h.defs, "ProductPage", "-p", "id=42"))
	out := h.out.String()
	assert.Equal(t, []string{"https://shop.example/products/42"}, h.drv.Visited)
	assert.Contains(t, out, "ProductPage  https://shop.example/products/42")
	assert.Contains(t, out, "loaded: true  ready: true")
	assert.Contains(t, out, "missing: banner")
	assert.True(t, h.drv.Closed)
}

func TestProbeSaveAndShow(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("", "probe", h.defs, "ProductPage", "-p", "id=42", "--save", "-o", "json"))
	var report entities.ProbeReport
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &report))
	assert.True(t, report.Loaded)
	require.Len(t, report.Fields, 3)
	assert.Equal(t, "reviews", report.Fields[1].Name)
	assert.Equal(t, 1, report.Fields[1].Count)

	require.NoError(t, h.run("", "reports"))
	assert.Equal(t, "ProductPage\n", h.out.String())

	require.NoError(t, h.run("", "reports", "show", "ProductPage", "-o", "yaml"))
	assert.Contains(t, h.out.String(), "page: ProductPage")
	assert.Contains(t, h.out.String(), "kind: sections")
}

func TestProbeRejectsBadInput(t *testing.T) {
	h := newHarness(t)

	assert.ErrorContains(t, h.run("", "probe", h.defs, "ProductPage", "-o", "xml"), "unknown output format")
	assert.ErrorContains(t, h.run("", "probe", h.defs, "ProductPage", "-p", "id"), "want key=value")
	assert.ErrorIs(t, h.run("", "probe", h.defs, "CartPage"), entities.ErrConfiguration)
	assert.Zero(t, h.started)
}

func TestDriverFailure(t *testing.T) {
	h := newHarness(t)
	root := NewRootCommand(func(*config.Config, *logrus.Logger) (interfaces.Driver, error) {
		return nil, errors.New("chromedriver not found")
	})
	root.SetArgs([]string{"probe", h.defs, "ProductPage"})
	root.SetOut(&h.out)
	root.SetErr(&h.out)

	err := root.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, "failed to initialize browser: chromedriver not found")
}

func TestShell(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("load id=7\nhas_title\nhas_banner\nquit\n", "shell", h.defs, "ProductPage"))
	out := h.out.String()
	assert.Contains(t, out, "> https://shop.example/products/7\n")
	assert.Contains(t, out, "> true\n")
	assert.Contains(t, out, "> false\n")
	assert.True(t, h.drv.Closed)
}

func TestReportsEmpty(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("", "reports"))
	assert.Contains(t, h.out.String(), "no reports in")
}

func TestInvalidLogLevelFlag(t *testing.T) {
	h := newHarness(t)

	err := h.run("", "--log-level", "loud", "reports")
	assert.ErrorContains(t, err, "invalid log level")
}
