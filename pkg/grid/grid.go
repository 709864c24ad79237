package grid

// GetGridCoords maps a linear cell index onto a grid that is cols wide.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// Rows returns how many rows n cells occupy when laid out cols wide.
// Zero cells still take one row.
func Rows(n, cols int) int {
	if n <= 0 {
		return 1
	}
	return (n + cols - 1) / cols
}

// Layout places fixed-size cells on a pixel grid.
type Layout struct {
	Cols    int
	CellW   int
	CellH   int
	OriginX int
	OriginY int
}

// Cell returns the top-left pixel of cell index.
func (l Layout) Cell(index int) (px, py int) {
	x, y := GetGridCoords(index, l.Cols)
	return l.OriginX + x*l.CellW, l.OriginY + y*l.CellH
}

// Height is the pixel height needed for n cells.
func (l Layout) Height(n int) int {
	return Rows(n, l.Cols) * l.CellH
}
