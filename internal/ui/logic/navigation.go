package logic

// Navigator keeps a scroll window over a flat list of items. It reserves
// a line for each "more above"/"more below" indicator it needs.
type Navigator struct {
	selectedIndex  int
	viewportOffset int
	viewportHeight int
	totalItems     int
}

// NewNavigator creates a new navigator
func NewNavigator() *Navigator {
	return &Navigator{}
}

// UpdateState updates the list size and window height, keeping the offset in bounds
func (n *Navigator) UpdateState(totalItems, viewportHeight int) {
	n.totalItems = totalItems
	n.viewportHeight = viewportHeight
	if n.selectedIndex >= totalItems {
		n.selectedIndex = totalItems - 1
	}
	if n.selectedIndex < 0 {
		n.selectedIndex = 0
	}
	n.clampOffset()
}

// GetSelectedIndex returns the current selected index
func (n *Navigator) GetSelectedIndex() int {
	return n.selectedIndex
}

// GetViewportOffset returns the current viewport offset
func (n *Navigator) GetViewportOffset() int {
	return n.viewportOffset
}

// SetSelectedIndex sets the selected index and scrolls the minimum to show it
func (n *Navigator) SetSelectedIndex(index int) (int, int) {
	n.selectedIndex = n.clampIndex(index)
	n.ensureSelectedVisible()
	return n.selectedIndex, n.viewportOffset
}

// MoveSelection moves the selection by delta items
func (n *Navigator) MoveSelection(delta int) int {
	idx, _ := n.SetSelectedIndex(n.selectedIndex + delta)
	return idx
}

// IsVisible reports whether index is inside the content area of the window
func (n *Navigator) IsVisible(index int) bool {
	top, bottom := n.indicators()
	effective := n.effectiveHeight(top, bottom)
	return index >= n.viewportOffset && index < n.viewportOffset+effective
}

// CenterOn scrolls so index sits in the middle of the window, but only when it is out of view
func (n *Navigator) CenterOn(index int) int {
	index = n.clampIndex(index)
	if n.IsVisible(index) {
		return n.viewportOffset
	}
	n.viewportOffset = index - n.viewportHeight/2
	n.clampOffset()
	return n.viewportOffset
}

// Indicators reports which scroll indicators the current window needs
func (n *Navigator) Indicators() (top, bottom bool) {
	return n.indicators()
}

// VisibleRange returns the half-open range of items shown below the top indicator
func (n *Navigator) VisibleRange() (start, end int) {
	top, bottom := n.indicators()
	start = n.viewportOffset
	end = start + n.effectiveHeight(top, bottom)
	if end > n.totalItems {
		end = n.totalItems
	}
	return start, end
}

func (n *Navigator) indicators() (top, bottom bool) {
	top = n.viewportOffset > 0
	bottom = n.viewportOffset+n.viewportHeight < n.totalItems

	// With a top indicator taking a line, the rest may no longer fit
	if !bottom && top {
		remainingItems := n.totalItems - n.viewportOffset
		availableSpace := n.viewportHeight - 1
		if remainingItems > availableSpace {
			bottom = true
		}
	}
	return top, bottom
}

func (n *Navigator) effectiveHeight(top, bottom bool) int {
	effectiveHeight := n.viewportHeight
	if top {
		effectiveHeight--
	}
	if bottom {
		effectiveHeight--
	}
	if effectiveHeight < 1 {
		effectiveHeight = 1
	}
	return effectiveHeight
}

// ensureSelectedVisible adjusts the viewport to keep the selected item visible
func (n *Navigator) ensureSelectedVisible() {
	if n.selectedIndex < n.viewportOffset {
		n.viewportOffset = n.selectedIndex
	}

	top, bottom := n.indicators()
	effectiveHeight := n.effectiveHeight(top, bottom)

	if n.selectedIndex >= n.viewportOffset+effectiveHeight {
		newOffset := n.selectedIndex - effectiveHeight + 1

		// Near the bottom, show all remaining items without context
		maxPossibleOffset := n.totalItems - effectiveHeight
		if maxPossibleOffset < 0 {
			maxPossibleOffset = 0
		}
		if newOffset > maxPossibleOffset {
			newOffset = maxPossibleOffset
		}
		if newOffset < 0 {
			newOffset = 0
		}
		n.viewportOffset = newOffset

		// The top indicator may have just appeared and taken a line
		top, bottom = n.indicators()
		if eff := n.effectiveHeight(top, bottom); n.selectedIndex >= n.viewportOffset+eff {
			n.viewportOffset = n.selectedIndex - eff + 1
		}
	}

	n.clampOffset()
}

func (n *Navigator) clampOffset() {
	top, bottom := n.indicators()
	maxOffset := n.totalItems - n.effectiveHeight(top, bottom)
	if maxOffset < 0 {
		maxOffset = 0
	}
	if n.viewportOffset > maxOffset {
		n.viewportOffset = maxOffset
	}
	if n.viewportOffset < 0 {
		n.viewportOffset = 0
	}
}

func (n *Navigator) clampIndex(index int) int {
	if index >= n.totalItems {
		index = n.totalItems - 1
	}
	if index < 0 {
		index = 0
	}
	return index
}
