package pom

import (
	"context"
	"errors"
	"testing"
	"time"

	"pageprism/domain/entities"
	"pageprism/infrastructure/browser/fakedriver"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	editorFrame = NewBuilder("Editor").
			Element("body", TagName("body")).
			Elements("paragraphs", TagName("p")).
			MustBuildFrame()

	composePage = NewBuilder("Compose").
			Element("send", ID("send")).
			Frame("editor", ID("editor"), editorFrame).
			MustBuildPage()
)

func newCompose(t *testing.T) (*Page, *fakedriver.Driver, *fakedriver.Element) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	drv := fakedriver.New()

	content := fakedriver.NewDocument().
		Add(TagName("body"), fakedriver.NewElement("editor body")).
		Add(TagName("p"), fakedriver.NewElement("p1"), fakedriver.NewElement("p2"))
	iframe := fakedriver.NewFrame("editor", content)
	drv.Top.Add(ID("editor"), iframe)
	drv.Top.Add(ID("send"), fakedriver.NewElement("send"))

	return composePage.New(drv, WithLogger(logger)), drv, iframe
}

func TestFrameWithinRestoresDefaultContent(t *testing.T) {
	page, drv, iframe := newCompose(t)

	frame, err := page.Frame("editor").Frame()
	require.NoError(t, err)
	assert.Same(t, iframe, frame.FrameElement())
	assert.Nil(t, drv.Frame(), "resolving a frame must not switch into it")

	require.NoError(t, frame.Within(func(*Frame) error { return nil }))
	assert.Nil(t, drv.Frame())
	assert.Equal(t, []string{"frame:editor", "default"}, drv.Switches)
}

func TestFrameFieldsResolveInsideFrame(t *testing.T) {
	page, drv, _ := newCompose(t)
	frame, err := page.Frame("editor").Frame()
	require.NoError(t, err)

	has, err := frame.Element("body").Has()
	require.NoError(t, err)
	assert.False(t, has, "frame content is not visible from the top-level document")

	err = frame.Within(func(f *Frame) error {
		assert.Same(t, drv.Frame(), f.FrameElement())

		body, err := f.Element("body").WaitUntilVisible(context.Background(), time.Second)
		require.NoError(t, err)
		assert.Equal(t, "editor body", body.(*fakedriver.Element).Name)

		paragraphs, err := f.Elements("paragraphs").Elements()
		require.NoError(t, err)
		assert.Len(t, paragraphs, 2)

		hasSend, err := page.Element("send").Has()
		require.NoError(t, err)
		assert.False(t, hasSend, "top-level fields do not resolve while inside the frame")
		return nil
	})
	require.NoError(t, err)

	hasSend, err := page.Element("send").Has()
	require.NoError(t, err)
	assert.True(t, hasSend)
}

func TestFrameWithinRestoresOnError(t *testing.T) {
	page, drv, _ := newCompose(t)
	frame, err := page.Frame("editor").Frame()
	require.NoError(t, err)

	boom := errors.New("boom")
	err = frame.Within(func(*Frame) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, drv.Frame())
}

func TestFrameWithinRestoresOnPanic(t *testing.T) {
	page, drv, _ := newCompose(t)
	frame, err := page.Frame("editor").Frame()
	require.NoError(t, err)

	assert.Panics(t, func() {
		_ = frame.Within(func(*Frame) error { panic("boom") })
	})
	assert.Nil(t, drv.Frame())
	assert.Equal(t, []string{"frame:editor", "default"}, drv.Switches)
}

func TestFrameEnterFailureSkipsBody(t *testing.T) {
	logger, _ := test.NewNullLogger()
	drv := fakedriver.New()
	notAFrame := fakedriver.NewElement("div")

	frame := editorFrame.New(drv, notAFrame, WithLogger(logger))
	called := false
	err := frame.Within(func(*Frame) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
	assert.Empty(t, drv.Switches)
}

func TestFrameFieldOperationsOnIframeElement(t *testing.T) {
	page, drv, iframe := newCompose(t)

	el, err := page.Frame("editor").WaitUntilClickable(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Same(t, iframe, el)

	drv.Top.Remove(ID("editor"))
	hasNo, err := page.Frame("editor").HasNo()
	require.NoError(t, err)
	assert.True(t, hasNo)

	_, err = page.Frame("editor").Frame()
	assert.ErrorIs(t, err, entities.ErrElementNotFound)
}
