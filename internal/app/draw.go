package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"gridcalc/internal/grid"
)

const helpText = "\n i / Enter - edit \n Ctrl+Enter - save&stay \n Shift/Alt+Enter - newline \n = - formula \n : - command \n Ctrl←/Ctrl→ - col width \n Ctrl↑/Ctrl↓ - row height \n F2/F3 - add row/col \n F4/F5 - delete last row/col \n PgUp/PgDn/Home/End - move \n :w [file] | :o file \n :save name | :load name | :rm name | :ls \n :q - quit \n "

var (
	headerStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	activeStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	selectedStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGray)
	errorStyle    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	statusStyle   = tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorWhite)
	caretStyle    = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorLightGray)
)

func (a *App) Draw(s tcell.Screen) {
	s.Clear()
	a.drawHeader(s)
	a.drawRows(s)
	a.drawStatus(s)
	if a.HelpVisible {
		a.drawHelpPopup(s, helpText)
	}
	a.drawCaret(s)
	s.Show()
}

// drawHeader prints column names, highlighting the active column.
func (a *App) drawHeader(s tcell.Screen) {
	w, _ := s.Size()
	x := a.LeftGutter
	for c := a.ViewCol; c < len(a.ColWidths) && x < w; c++ {
		wc := a.ColWidths[c]
		style := headerStyle
		if c == a.CurCol {
			style = activeStyle
			a.fill(s, x, 0, wc, 1, style)
		}
		a.printPadded(s, x, 0, grid.ColToName(c), style, wc)
		x += wc
	}
}

func (a *App) drawRows(s tcell.Screen) {
	w, h := s.Size()
	bottom := h - a.StatusLines
	y := 1
	for r := a.ViewRow; r < len(a.RowHeights) && y < bottom; r++ {
		style := headerStyle
		if r == a.CurRow {
			style = activeStyle
			a.fill(s, 0, y, a.LeftGutter-1, 1, style)
		}
		a.printTextFixedWidth(s, 0, y, strconv.Itoa(r+1), style, a.LeftGutter-1)

		hh := a.RowHeights[r]
		x := a.LeftGutter
		for c := a.ViewCol; c < len(a.ColWidths) && x < w; c++ {
			wc := a.ColWidths[c]
			selected := r == a.CurRow && c == a.CurCol
			text := a.Sheet.Display(r, c)
			if a.Mode == modeInsert && selected {
				text = a.InputBuf
			}

			style := tcell.StyleDefault
			switch {
			case selected:
				style = selectedStyle
			case text == grid.ErrorMarker && a.Sheet.Grid().Cell(r, c).HasFormula():
				style = errorStyle
			}
			a.fill(s, x, y, wc, hh, style)
			for dy, line := range a.splitLines(text, hh) {
				if y+dy < bottom {
					a.printPadded(s, x, y+dy, line, style, wc)
				}
			}
			x += wc
		}
		y += hh
	}
}

// drawStatus renders two lines: position and layout, then the selected
// cell's input (or the edit buffer) with the last status message.
func (a *App) drawStatus(s tcell.Screen) {
	w, h := s.Size()
	statusY := max(0, h-a.StatusLines)

	file := a.File
	if file == "" {
		file = "[no file]"
	}
	left := fmt.Sprintf("Mode:%s  Cell:%s  cw=%d rh=%d  %dx%d  %s",
		a.Mode, grid.ColRowToName(a.CurCol, a.CurRow),
		a.ColWidths[a.CurCol], a.RowHeights[a.CurRow],
		len(a.RowHeights), len(a.ColWidths), file)
	a.printTextFixedWidth(s, 0, statusY, left, statusStyle, w)

	var line string
	if a.Mode == modeInsert {
		line = "EDIT: " + a.InputBuf
	} else {
		line = grid.ColRowToName(a.CurCol, a.CurRow) + ": " + a.Sheet.Input(a.CurRow, a.CurCol)
		if a.Status != "" {
			line += "  | " + a.Status
		}
	}
	a.printTextFixedWidth(s, 0, statusY+1, line, statusStyle, w)
}

// drawCaret marks the end of the edit buffer inside the selected cell.
func (a *App) drawCaret(s tcell.Screen) {
	if a.Mode != modeInsert {
		s.HideCursor()
		return
	}
	w, h := s.Size()
	cellX, cellY := a.cellOrigin(a.CurRow, a.CurCol)
	if cellX < 0 || cellY < 0 || cellX >= w || cellY >= h-a.StatusLines {
		s.HideCursor()
		return
	}

	lines := strings.Split(a.InputBuf, "\n")
	lastIdx := len(lines) - 1
	colW := a.ColWidths[a.CurCol]
	rowH := a.RowHeights[a.CurRow]

	cx := cellX + min(runeLen(lines[lastIdx]), max(0, colW-1))
	if innerW := colW - 2*a.CellPadding; innerW >= 1 {
		cx = cellX + a.CellPadding + min(runeLen(lines[lastIdx]), innerW-1)
	}
	cy := cellY + min(lastIdx, max(0, rowH-1))
	if cx >= w || cy >= h {
		s.HideCursor()
		return
	}
	s.SetContent(cx, cy, '▏', nil, caretStyle)
}

// cellOrigin returns the screen position of a cell's top-left corner
// relative to the current view.
func (a *App) cellOrigin(row, col int) (int, int) {
	x := a.LeftGutter
	if col >= a.ViewCol {
		for c := a.ViewCol; c < col; c++ {
			x += a.ColWidths[c]
		}
	} else {
		for c := col; c < a.ViewCol; c++ {
			x -= a.ColWidths[c]
		}
	}
	y := 1
	if row >= a.ViewRow {
		for r := a.ViewRow; r < row; r++ {
			y += a.RowHeights[r]
		}
	} else {
		for r := row; r < a.ViewRow; r++ {
			y -= a.RowHeights[r]
		}
	}
	return x, y
}

// ----------------------------- Helpers -----------------------------

func (a *App) fill(s tcell.Screen, x, y, width, height int, style tcell.Style) {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			if x+dx >= 0 && y+dy >= 0 {
				s.SetContent(x+dx, y+dy, ' ', nil, style)
			}
		}
	}
}

// printPadded prints str inside a cell of the given width, honoring
// CellPadding when the cell is wide enough.
func (a *App) printPadded(s tcell.Screen, x, y int, str string, style tcell.Style, width int) {
	if inner := width - 2*a.CellPadding; inner > 0 {
		a.printTextFixedWidth(s, x+a.CellPadding, y, str, style, inner)
		return
	}
	a.printTextFixedWidth(s, x, y, str, style, width)
}

func (a *App) printTextFixedWidth(s tcell.Screen, x, y int, str string, style tcell.Style, width int) {
	runes := []rune(str)
	for i := 0; i < width; i++ {
		ch := ' '
		if i < len(runes) {
			ch = runes[i]
		}
		if x+i >= 0 && y >= 0 {
			s.SetContent(x+i, y, ch, nil, style)
		}
	}
}

func (a *App) splitLines(text string, maxLines int) []string {
	if maxLines <= 0 {
		return nil
	}
	out := make([]string, maxLines)
	copy(out, strings.Split(text, "\n"))
	return out
}

func (a *App) drawHelpPopup(s tcell.Screen, help string) {
	w, h := s.Size()
	if w < 10 || h < 5 {
		return
	}

	padding := 4
	maxPW := w - 6
	maxPH := h - 6

	innerW := min(maxPW-padding*2, 50)
	if innerW < 30 {
		innerW = max(30, maxPW-padding*2)
	}
	innerW = min(innerW, maxPW-padding*2)

	lines := wrapText(help, innerW)
	if limit := maxPH - padding*2; limit >= 0 && len(lines) > limit {
		lines = lines[:limit]
	}
	innerH := max(len(lines), 3)

	pw := innerW + padding*2
	ph := innerH + padding*2
	left := (w - pw) / 2
	top := (h - ph) / 2

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDefault)
	a.fill(s, left, top, pw, ph, style)
	drawBorder(s, left, top, pw, ph, style)

	vOffset := (ph - padding*2 - innerH) / 2
	for i, ln := range lines {
		a.printTextFixedWidth(s, left+padding, top+padding+vOffset+i, ln, style, innerW)
	}
}

func drawBorder(s tcell.Screen, left, top, width, height int, style tcell.Style) {
	right, bottom := left+width-1, top+height-1
	for x := left + 1; x < right; x++ {
		s.SetContent(x, top, tcell.RuneHLine, nil, style)
		s.SetContent(x, bottom, tcell.RuneHLine, nil, style)
	}
	for y := top + 1; y < bottom; y++ {
		s.SetContent(left, y, tcell.RuneVLine, nil, style)
		s.SetContent(right, y, tcell.RuneVLine, nil, style)
	}
	s.SetContent(left, top, tcell.RuneULCorner, nil, style)
	s.SetContent(right, top, tcell.RuneURCorner, nil, style)
	s.SetContent(left, bottom, tcell.RuneLLCorner, nil, style)
	s.SetContent(right, bottom, tcell.RuneLRCorner, nil, style)
}

// wrapText breaks s into lines of at most max runes, each indented by one
// space. Words longer than a line are chunked. Paragraphs stay separated by
// an empty line.
func wrapText(s string, max int) []string {
	if max <= 2 {
		return []string{s}
	}

	var result []string
	paragraphs := strings.Split(s, "\n")
	for pi, para := range paragraphs {
		words := strings.Fields(para)
		if len(words) == 0 {
			result = append(result, "")
			continue
		}

		cur := " "
		for _, w := range words {
			if runeLen(w) > max-1 {
				if runeLen(cur) > 1 {
					result = append(result, cur)
				}
				chunks := chunkString(w, max-1)
				for _, c := range chunks[:len(chunks)-1] {
					result = append(result, " "+c)
				}
				cur = " " + chunks[len(chunks)-1]
				continue
			}
			switch {
			case runeLen(cur)+1+runeLen(w) > max:
				result = append(result, cur)
				cur = " " + w
			case runeLen(cur) > 1:
				cur += " " + w
			default:
				cur += w
			}
		}
		result = append(result, cur)

		if pi < len(paragraphs)-1 {
			result = append(result, "")
		}
	}
	return result
}

func runeLen(s string) int {
	return len([]rune(s))
}

func chunkString(s string, size int) []string {
	r := []rune(s)
	var out []string
	for i := 0; i < len(r); i += size {
		out = append(out, string(r[i:min(i+size, len(r))]))
	}
	return out
}

// ----------------------------- Viewport -----------------------------

// ComputeVisible counts the rows and columns that fit on screen starting at
// the current view origin. Both are at least 1.
func (a *App) ComputeVisible(s tcell.Screen) (visibleRows, visibleCols int) {
	w, h := s.Size()
	usableW := max(1, w-a.LeftGutter)
	usableH := max(1, h-a.StatusLines-1)

	sumW := 0
	for c := a.ViewCol; c < len(a.ColWidths); c++ {
		if sumW+a.ColWidths[c] > usableW {
			break
		}
		sumW += a.ColWidths[c]
		visibleCols++
	}
	sumH := 0
	for r := a.ViewRow; r < len(a.RowHeights); r++ {
		if sumH+a.RowHeights[r] > usableH {
			break
		}
		sumH += a.RowHeights[r]
		visibleRows++
	}
	return max(1, visibleRows), max(1, visibleCols)
}

// EnsureCursorVisible scrolls the view so the selected cell is on screen.
func (a *App) EnsureCursorVisible(s tcell.Screen) {
	if s == nil {
		return
	}
	visibleRows, visibleCols := a.ComputeVisible(s)

	if a.CurCol < a.ViewCol {
		a.ViewCol = a.CurCol
	} else if a.CurCol >= a.ViewCol+visibleCols {
		a.ViewCol = a.CurCol - visibleCols + 1
	}
	a.ViewCol = max(0, min(a.ViewCol, len(a.ColWidths)-1))

	if a.CurRow < a.ViewRow {
		a.ViewRow = a.CurRow
	} else if a.CurRow >= a.ViewRow+visibleRows {
		a.ViewRow = a.CurRow - visibleRows + 1
	}
	a.ViewRow = max(0, min(a.ViewRow, len(a.RowHeights)-1))
}
