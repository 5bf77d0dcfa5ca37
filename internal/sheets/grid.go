package sheets

// sliceRows cuts a range out of a full sheet the way the Sheets API reports
// it: trailing empty cells and trailing empty rows are dropped.
func sliceRows(all [][]string, rng Range) [][]string {
	lastRow := len(all)
	if rng.EndRow > 0 && rng.EndRow < lastRow {
		lastRow = rng.EndRow
	}

	out := make([][]string, 0)
	for r := rng.firstRow(); r <= lastRow; r++ {
		src := all[r-1]
		lastCol := len(src)
		if rng.EndCol > 0 && rng.EndCol < lastCol {
			lastCol = rng.EndCol
		}
		row := make([]string, 0)
		if first := rng.firstCol(); first <= lastCol {
			row = append(row, src[first-1:lastCol]...)
		}
		out = append(out, trimRow(row))
	}

	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out
}

func trimRow(row []string) []string {
	end := len(row)
	for end > 0 && row[end-1] == "" {
		end--
	}
	return row[:end]
}

// lastPopulatedRow returns the 1-based index of the last row holding a value, or 0.
func lastPopulatedRow(all [][]string) int {
	for r := len(all); r > 0; r-- {
		if len(trimRow(all[r-1])) > 0 {
			return r
		}
	}
	return 0
}

// setCell writes a value at 1-based coordinates, growing the grid as needed.
func setCell(all [][]string, col, row int, value string) [][]string {
	for len(all) < row {
		all = append(all, nil)
	}
	cells := all[row-1]
	for len(cells) < col {
		cells = append(cells, "")
	}
	cells[col-1] = value
	all[row-1] = cells
	return all
}

// clearCells blanks a range inside the grid without growing it.
func clearCells(all [][]string, rng Range) {
	lastRow := len(all)
	if rng.EndRow > 0 && rng.EndRow < lastRow {
		lastRow = rng.EndRow
	}
	for r := rng.firstRow(); r <= lastRow; r++ {
		cells := all[r-1]
		lastCol := len(cells)
		if rng.EndCol > 0 && rng.EndCol < lastCol {
			lastCol = rng.EndCol
		}
		for c := rng.firstCol(); c <= lastCol; c++ {
			cells[c-1] = ""
		}
	}
}
