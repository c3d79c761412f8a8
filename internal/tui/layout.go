package tui

// layout is the browser geometry for one terminal size. Widths and the
// height are panel content sizes, borders excluded.
type layout struct {
	listW    int
	previewW int
	bodyH    int
}

const (
	chromeRows = 4 // filter row, status row, top and bottom border
	frameCols  = 4 // left and right border of both panels
	minListW   = 24
	maxListW   = 60
)

func layoutFor(width, height int) layout {
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 24
	}

	l := layout{
		listW: min(max(width*2/5, minListW), maxListW),
		bodyH: max(height-chromeRows, linesPerItem),
	}
	l.previewW = max(width-l.listW-frameCols, 20)
	return l
}

type area int

const (
	areaNone area = iota
	areaList
	areaPreview
)

// locate maps a terminal cell to the panel under it and the body row within
// that panel.
func (l layout) locate(x, y int) (area, int) {
	row := y - 2 // filter row and top border
	if row < 0 || row >= l.bodyH {
		return areaNone, -1
	}

	// list frame spans columns 0..listW+1, the preview frame follows it
	switch {
	case x >= 1 && x <= l.listW:
		return areaList, row
	case x >= l.listW+3 && x <= l.listW+2+l.previewW:
		return areaPreview, row
	}
	return areaNone, -1
}

// visibleItems is how many list entries fit in the body.
func (l layout) visibleItems() int {
	return max(l.bodyH/linesPerItem, 1)
}
