package model

// Coordinates maps a cell number to its column and row. Row 0 is the bottom
// row; rows alternate direction so consecutive cells stay adjacent.
func (b *Board) Coordinates(cell int) (col, row int, ok bool) {
	if cell < 1 || cell > b.Size {
		return 0, 0, false
	}
	row = (cell - 1) / b.Length
	col = (cell - 1) % b.Length
	if row%2 == 1 {
		col = b.Length - 1 - col
	}
	return col, row, true
}

// CellAt is the inverse of Coordinates.
func (b *Board) CellAt(col, row int) (int, bool) {
	if col < 0 || col >= b.Length || row < 0 || row >= b.Breadth {
		return 0, false
	}
	if row%2 == 1 {
		col = b.Length - 1 - col
	}
	return row*b.Length + col + 1, true
}

// Matrix lays the cell numbers out as matrix[col][row].
func (b *Board) Matrix() [][]int {
	matrix := make([][]int, 0, b.Length)
	for c := 0; c < b.Length; c++ {
		column := make([]int, 0, b.Breadth)
		for r := 0; r < b.Breadth; r++ {
			cell, _ := b.CellAt(c, r)
			column = append(column, cell)
		}
		matrix = append(matrix, column)
	}
	return matrix
}
