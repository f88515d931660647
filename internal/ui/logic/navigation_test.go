package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionStaysVisible(t *testing.T) {
	n := NewNavigator()
	n.UpdateState(40, 10)

	for _, idx := range []int{0, 5, 9, 15, 39, 20, 1, 0} {
		got, _ := n.SetSelectedIndex(idx)
		assert.Equal(t, idx, got)
		assert.True(t, n.IsVisible(idx), "index %d offset %d", idx, n.GetViewportOffset())
	}
}

func TestSelectionIsClamped(t *testing.T) {
	n := NewNavigator()
	n.UpdateState(5, 10)

	got, offset := n.SetSelectedIndex(12)
	assert.Equal(t, 4, got)
	assert.Equal(t, 0, offset, "short lists never scroll")

	got, _ = n.SetSelectedIndex(-3)
	assert.Equal(t, 0, got)
	assert.Equal(t, 1, n.MoveSelection(1))
}

func TestCenterOnOnlyWhenOutOfView(t *testing.T) {
	n := NewNavigator()
	n.UpdateState(100, 10)

	assert.Equal(t, 0, n.CenterOn(3), "already visible")

	offset := n.CenterOn(50)
	assert.Equal(t, 45, offset)
	assert.True(t, n.IsVisible(50))

	assert.Equal(t, 45, n.CenterOn(48), "visible entries do not move the list")

	n.CenterOn(99)
	assert.True(t, n.IsVisible(99))
	_, end := n.VisibleRange()
	assert.Equal(t, 100, end)
}

func TestIndicators(t *testing.T) {
	n := NewNavigator()
	n.UpdateState(30, 10)

	top, bottom := n.Indicators()
	assert.False(t, top)
	assert.True(t, bottom)

	n.SetSelectedIndex(29)
	top, bottom = n.Indicators()
	assert.True(t, top)
	assert.False(t, bottom)
	start, end := n.VisibleRange()
	assert.Equal(t, 30, end)
	assert.Equal(t, 9, end-start, "one line goes to the top indicator")
}

func TestShrinkingListKeepsOffsetInBounds(t *testing.T) {
	n := NewNavigator()
	n.UpdateState(50, 10)
	n.SetSelectedIndex(49)

	n.UpdateState(3, 10)
	assert.Equal(t, 0, n.GetViewportOffset())
	assert.Equal(t, 2, n.GetSelectedIndex())
}
