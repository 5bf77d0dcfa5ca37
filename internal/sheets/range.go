package sheets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// Range is an A1 range on a single sheet. Columns and rows are 1-based;
// a zero bound means the range is open on that side.
type Range struct {
	Sheet    string
	StartCol int
	StartRow int
	EndCol   int
	EndRow   int
}

// Cell addresses one cell.
func Cell(sheet string, col, row int) Range {
	return Range{Sheet: sheet, StartCol: col, StartRow: row, EndCol: col, EndRow: row}
}

// Block addresses a closed rectangle.
func Block(sheet string, startCol, startRow, endCol, endRow int) Range {
	return Range{Sheet: sheet, StartCol: startCol, StartRow: startRow, EndCol: endCol, EndRow: endRow}
}

// Columns addresses whole columns, e.g. AUTH!A:E.
func Columns(sheet string, startCol, endCol int) Range {
	return Range{Sheet: sheet, StartCol: startCol, EndCol: endCol}
}

// ColumnsFrom addresses columns starting at a row, e.g. 재고!A2:M.
func ColumnsFrom(sheet string, startCol, startRow, endCol int) Range {
	return Range{Sheet: sheet, StartCol: startCol, StartRow: startRow, EndCol: endCol}
}

// ParseRange parses A1 notation such as "AUTH!A:E", "'My Sheet'!B2" or "재고!A2:M".
func ParseRange(a1 string) (Range, error) {
	a1 = strings.TrimSpace(a1)
	if a1 == "" {
		return Range{}, errors.New("empty range")
	}

	sheet, refs, err := splitSheet(a1)
	if err != nil {
		return Range{}, err
	}
	if sheet == "" {
		return Range{}, fmt.Errorf("range %q has no sheet name", a1)
	}

	rng := Range{Sheet: sheet}
	if refs == "" {
		return rng, nil
	}

	start, end, found := strings.Cut(refs, ":")
	if !found {
		end = start
	}
	if rng.StartCol, rng.StartRow, err = parseRef(start); err != nil {
		return Range{}, fmt.Errorf("range %q: %w", a1, err)
	}
	if rng.EndCol, rng.EndRow, err = parseRef(end); err != nil {
		return Range{}, fmt.Errorf("range %q: %w", a1, err)
	}
	return rng, nil
}

// MustParseRange is ParseRange for constants.
func MustParseRange(a1 string) Range {
	rng, err := ParseRange(a1)
	if err != nil {
		panic(err)
	}
	return rng
}

func splitSheet(a1 string) (string, string, error) {
	if strings.HasPrefix(a1, "'") {
		var b strings.Builder
		for i := 1; i < len(a1); i++ {
			if a1[i] != '\'' {
				b.WriteByte(a1[i])
				continue
			}
			if i+1 < len(a1) && a1[i+1] == '\'' {
				b.WriteByte('\'')
				i++
				continue
			}
			rest := a1[i+1:]
			if rest == "" {
				return b.String(), "", nil
			}
			if !strings.HasPrefix(rest, "!") {
				return "", "", fmt.Errorf("range %q: expected '!' after sheet name", a1)
			}
			return b.String(), rest[1:], nil
		}
		return "", "", fmt.Errorf("range %q: unterminated sheet name", a1)
	}

	idx := strings.LastIndex(a1, "!")
	if idx < 0 {
		return a1, "", nil
	}
	return a1[:idx], a1[idx+1:], nil
}

func parseRef(ref string) (int, int, error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	split := strings.IndexFunc(ref, unicode.IsDigit)
	letters, digits := ref, ""
	if split >= 0 {
		letters, digits = ref[:split], ref[split:]
	}
	if letters == "" {
		return 0, 0, fmt.Errorf("invalid reference %q", ref)
	}

	col, err := excelize.ColumnNameToNumber(letters)
	if err != nil {
		return 0, 0, err
	}
	if digits == "" {
		return col, 0, nil
	}
	row, err := strconv.Atoi(digits)
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("invalid row in reference %q", ref)
	}
	return col, row, nil
}

// String renders the range in A1 notation.
func (r Range) String() string {
	sheet := quoteSheet(r.Sheet)
	if r.StartCol == 0 && r.EndCol == 0 {
		return sheet
	}
	start := formatRef(r.StartCol, r.StartRow)
	if r.StartCol == r.EndCol && r.StartRow == r.EndRow && r.StartRow > 0 {
		return sheet + "!" + start
	}
	return sheet + "!" + start + ":" + formatRef(r.EndCol, r.EndRow)
}

// IsCell reports whether the range addresses exactly one cell.
func (r Range) IsCell() bool {
	return r.StartRow > 0 && r.StartCol > 0 && r.StartCol == r.EndCol && r.StartRow == r.EndRow
}

func (r Range) firstCol() int {
	if r.StartCol < 1 {
		return 1
	}
	return r.StartCol
}

func (r Range) firstRow() int {
	if r.StartRow < 1 {
		return 1
	}
	return r.StartRow
}

// fits checks that rows written at the range origin stay inside its bounds.
func (r Range) fits(rows [][]string) error {
	if r.EndRow > 0 && r.firstRow()+len(rows)-1 > r.EndRow {
		return fmt.Errorf("range %s holds %d rows, got %d", r, r.EndRow-r.firstRow()+1, len(rows))
	}
	if r.EndCol > 0 {
		width := r.EndCol - r.firstCol() + 1
		for _, row := range rows {
			if len(row) > width {
				return fmt.Errorf("range %s holds %d columns, got %d", r, width, len(row))
			}
		}
	}
	return nil
}

func formatRef(col, row int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		name = "A"
	}
	if row < 1 {
		return name
	}
	return name + strconv.Itoa(row)
}

func quoteSheet(name string) string {
	plain := name != ""
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			plain = false
			break
		}
	}
	if plain {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
