package selection

// Lines resolves between absolute offsets and row/column positions.
// Implementations clamp out-of-range rows and columns.
type Lines interface {
	// CharIdx returns the offset at (row, col) and the bounds of that row.
	CharIdx(row, col int) (int, Region)
	// RowCol returns the row and column of offset.
	RowCol(offset int) (int, int)
}

// Inserter inserts text at an absolute offset.
type Inserter interface {
	InsertString(offset int, s string) error
}

// InsertText types s at every region of sel as if each region held its own
// cursor. Region i lands at its begin plus i times the inserted length, the
// offset it has after the i earlier insertions. Each region collapses to a
// cursor just past its insertion. The first insertion error stops the batch.
func InsertText(sel Selection, buf Inserter, s string) (Selection, error) {
	n := len([]rune(s))
	var out Selection
	for i, r := range sel.Regions() {
		at := r.begin + i*n
		if err := buf.InsertString(at, s); err != nil {
			return sel, err
		}
		out.Insert(Unit(at + n))
	}
	return out, nil
}

// MoveVertical shifts every region of sel by rows lines. Each region keeps
// its column and length where the destination line allows it and is
// clamped to that line otherwise.
func MoveVertical(sel Selection, lines Lines, rows int) Selection {
	return sel.Map(func(r Region) Region {
		row, col := lines.RowCol(r.begin)
		offset, line := lines.CharIdx(max(row+rows, 0), col)
		return r.At(offset).ClampLast(line.last)
	})
}

// MoveHorizontal shifts every region by delta, keeping it inside [0, limit].
func MoveHorizontal(sel Selection, delta, limit int) Selection {
	return sel.Map(func(r Region) Region {
		r = r.TranslateBy(delta)
		if r.begin > limit {
			return r.At(limit).ClampLast(limit)
		}
		return r.ClampLast(limit)
	})
}
