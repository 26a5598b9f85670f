package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreview_Defaults(t *testing.T) {
	p := NewPreview()
	assert.True(t, p.Visible())
	assert.Equal(t, -1, p.Selected())

	text, err := p.Text()
	assert.Empty(t, text)
	assert.NoError(t, err)
}

func TestPreview_SelectNotifies(t *testing.T) {
	p := NewPreview()
	var got []int
	p.OnSelect(func(offset int) { got = append(got, offset) })

	p.Select(3)
	p.Select(7)
	assert.Equal(t, []int{3, 7}, got)
	assert.Equal(t, 7, p.Selected())
}

func TestPreview_FailedRenderKeepsText(t *testing.T) {
	p := NewPreview()
	p.SetText("hello", nil)

	p.SetText("", errors.New("boom"))
	text, err := p.Text()
	assert.Equal(t, "hello", text)
	assert.EqualError(t, err, "boom")

	p.SetText("again", nil)
	text, err = p.Text()
	assert.Equal(t, "again", text)
	assert.NoError(t, err)
}

func TestPreview_SelectionClampedToNewText(t *testing.T) {
	p := NewPreview()
	p.SetText("a long rendered text", nil)
	p.Select(15)

	p.SetText("short", nil)
	assert.Equal(t, 5, p.Selected())
}
