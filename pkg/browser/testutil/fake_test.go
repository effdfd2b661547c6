package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesyncim/regform/pkg/browser"
)

func TestFakeElement_Unattached(t *testing.T) {
	ctx := context.Background()
	clicked := false
	el := &FakeElement{Label: "Continue", Checked: true, OnClick: func() { clicked = true }}

	require.NoError(t, el.Click(ctx))
	assert.True(t, clicked)
	assert.Equal(t, 1, el.Clicks)

	require.NoError(t, el.SendKeys(ctx, "James"))
	require.NoError(t, el.Clear(ctx))
	assert.Empty(t, el.Value)

	text, err := el.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Continue", text)

	visible, err := el.Displayed(ctx)
	require.NoError(t, err)
	assert.True(t, visible)

	selected, err := el.Selected(ctx)
	require.NoError(t, err)
	assert.True(t, selected)
}

func TestFakeElement_StaleAfterReload(t *testing.T) {
	ctx := context.Background()
	sess := NewFakeSession("s1")
	el := &FakeElement{Label: "Continue"}
	sess.Put(browser.XPath(`//input[@value="Continue"]`), el)

	_, err := el.Displayed(ctx)
	require.NoError(t, err)

	sess.Reload()
	_, err = el.Displayed(ctx)
	assert.True(t, browser.ErrStale.Has(err))
	assert.True(t, browser.ErrStale.Has(el.Click(ctx)))
	assert.Zero(t, el.Clicks)
}
