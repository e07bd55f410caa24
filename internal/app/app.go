package app

import (
	"io"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"gridcalc/internal/grid"
	"gridcalc/internal/sheet"
	"gridcalc/internal/storage"
)

const (
	modeNormal = "normal"
	modeInsert = "insert"
)

type App struct {
	// layout
	LeftGutter    int
	StatusLines   int
	DefaultWidth  int
	DefaultHeight int

	CellPadding int

	// column widths and row heights, one per grid row/column
	ColWidths  []int
	RowHeights []int

	Sheet  *sheet.Sheet
	File   string // document a bare :w writes to
	Status string // last message or error, shown in the status line

	// cursor / view
	CurRow  int
	CurCol  int
	ViewRow int
	ViewCol int

	// UI state
	Mode     string // normal | insert
	InputBuf string
	Quit     bool

	// editing behavior options
	EnterStartsEdit   bool
	MoveAfterEnter    bool
	SelectAllOnEdit   bool
	ReplaceOnNextRune bool

	HelpVisible bool

	dbPath string
	store  *storage.Store
	logger *slog.Logger
}

// NewApp builds an App over an empty grid of the configured size. A nil
// logger discards output.
func NewApp(cfg *Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a := &App{
		LeftGutter:      4,
		StatusLines:     2,
		DefaultWidth:    16,
		DefaultHeight:   1,
		CellPadding:     1,
		Sheet:           sheet.New(grid.New(cfg.Rows, cfg.Cols), logger),
		File:            cfg.File,
		Mode:            modeNormal,
		EnterStartsEdit: true,
		MoveAfterEnter:  true,
		SelectAllOnEdit: true,
		dbPath:          cfg.DBPath,
		logger:          logger,
	}
	a.syncExtents()
	return a
}

// Close releases the sheet store if it was opened.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// Loop runs the UI on s until the user quits or the screen is finalized.
func (a *App) Loop(s tcell.Screen, splash bool) error {
	if splash {
		Splash(s)
	}
	s.EnableMouse()
	s.Clear()
	for !a.Quit {
		a.EnsureCursorVisible(s)
		a.Draw(s)
		switch ev := s.PollEvent().(type) {
		case *tcell.EventKey:
			a.HandleKeyEvent(s, ev)
		case *tcell.EventResize:
			s.Sync()
		case nil:
			return nil
		}
	}
	return nil
}

// ----------------------------- Events / Input -----------------------------

func (a *App) HandleKeyEvent(s tcell.Screen, ev *tcell.EventKey) {
	if a.Mode == modeInsert {
		a.handleInsertKey(ev)
		return
	}

	// help popup swallows keys until closed with Esc or "?"
	if a.HelpVisible {
		if ev.Key() == tcell.KeyEsc || ev.Rune() == '?' {
			a.HelpVisible = false
		}
		return
	}

	mod := ev.Modifiers()
	switch ev.Key() {
	case tcell.KeyEsc:
		a.Status = ""
	case tcell.KeyCtrlC:
		a.Quit = true
	case tcell.KeyUp:
		if mod&tcell.ModCtrl != 0 {
			if a.RowHeights[a.CurRow] > 1 {
				a.RowHeights[a.CurRow]--
			}
		} else if a.CurRow > 0 {
			a.CurRow--
		}
	case tcell.KeyDown:
		if mod&tcell.ModCtrl != 0 {
			a.RowHeights[a.CurRow]++
		} else {
			a.moveDown()
		}
	case tcell.KeyLeft:
		if mod&tcell.ModCtrl != 0 {
			if a.ColWidths[a.CurCol] > 4 {
				a.ColWidths[a.CurCol]--
			}
		} else if a.CurCol > 0 {
			a.CurCol--
		}
	case tcell.KeyRight:
		if mod&tcell.ModCtrl != 0 {
			a.ColWidths[a.CurCol]++
		} else {
			a.moveRight()
		}
	case tcell.KeyPgUp:
		vr, _ := a.ComputeVisible(s)
		a.ViewRow = max(0, a.ViewRow-vr)
		a.CurRow = max(0, a.CurRow-vr)
	case tcell.KeyPgDn:
		vr, _ := a.ComputeVisible(s)
		last := len(a.RowHeights) - 1
		a.ViewRow = min(last, a.ViewRow+vr)
		a.CurRow = min(last, a.CurRow+vr)
	case tcell.KeyHome:
		a.CurRow, a.CurCol = 0, 0
	case tcell.KeyEnd:
		a.CurRow = len(a.RowHeights) - 1
		a.CurCol = len(a.ColWidths) - 1
	case tcell.KeyF2:
		a.Sheet.AddRow()
		a.syncExtents()
	case tcell.KeyF3:
		a.Sheet.AddColumn()
		a.syncExtents()
	case tcell.KeyF4:
		if a.Sheet.DeleteRow() {
			a.syncExtents()
		}
	case tcell.KeyF5:
		if a.Sheet.DeleteColumn() {
			a.syncExtents()
		}
	case tcell.KeyEnter:
		if a.EnterStartsEdit {
			a.startEdit()
		}
	case tcell.KeyRune:
		a.handleNormalRune(s, ev.Rune())
	}
}

func (a *App) handleNormalRune(s tcell.Screen, r rune) {
	switch r {
	case 'q':
		a.Quit = true
	case 'i':
		a.startEdit()
	case ':':
		command, ok := a.PopupInput(s, ":", "")
		if !ok {
			return
		}
		if err := a.ExecuteCommand(command); err != nil {
			a.logger.Warn("command failed", "command", command, "error", err)
			a.Status = err.Error()
		}
	case '=':
		formula, ok := a.PopupInput(s, "", "=")
		if ok {
			a.commit(formula)
		}
	case '?':
		a.HelpVisible = true
	}
}

func (a *App) handleInsertKey(ev *tcell.EventKey) {
	mod := ev.Modifiers()
	switch ev.Key() {
	case tcell.KeyEsc:
		a.Mode = modeNormal
		a.InputBuf = ""
		a.ReplaceOnNextRune = false
	case tcell.KeyEnter:
		// Shift+Enter or Alt+Enter puts a newline into the cell
		if mod&(tcell.ModShift|tcell.ModAlt) != 0 {
			a.InputBuf += "\n"
			return
		}
		a.commit(a.InputBuf)
		a.Mode = modeNormal
		a.InputBuf = ""
		a.ReplaceOnNextRune = false
		// Ctrl+Enter stays on the cell
		if mod&tcell.ModCtrl == 0 && a.MoveAfterEnter {
			a.moveDown()
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if runes := []rune(a.InputBuf); len(runes) > 0 {
			a.InputBuf = string(runes[:len(runes)-1])
		}
		a.ReplaceOnNextRune = false
	case tcell.KeyRune:
		if a.ReplaceOnNextRune {
			a.InputBuf = string(ev.Rune())
			a.ReplaceOnNextRune = false
		} else {
			a.InputBuf += string(ev.Rune())
		}
	}
}

func (a *App) startEdit() {
	a.Mode = modeInsert
	a.InputBuf = a.Sheet.Input(a.CurRow, a.CurCol)
	a.ReplaceOnNextRune = a.SelectAllOnEdit
}

// commit stores text into the selected cell. Formula errors end up in the
// status line; the cell itself shows ERROR.
func (a *App) commit(text string) {
	_, err := a.Sheet.SetInput(a.CurRow, a.CurCol, text)
	if err != nil {
		a.Status = grid.ColRowToName(a.CurCol, a.CurRow) + ": " + err.Error()
	} else {
		a.Status = ""
	}
	a.syncExtents()
}

func (a *App) moveDown() {
	if a.CurRow+1 >= a.Sheet.Grid().Rows {
		a.Sheet.AddRow()
		a.syncExtents()
	}
	a.CurRow++
}

func (a *App) moveRight() {
	if a.CurCol+1 >= a.Sheet.Grid().Columns {
		a.Sheet.AddColumn()
		a.syncExtents()
	}
	a.CurCol++
}

// syncExtents resizes the layout slices to the grid extents, keeping
// existing sizes, and pulls the cursor back inside.
func (a *App) syncExtents() {
	g := a.Sheet.Grid()
	a.ColWidths = resize(a.ColWidths, g.Columns, a.DefaultWidth)
	a.RowHeights = resize(a.RowHeights, g.Rows, a.DefaultHeight)
	a.CurRow = min(a.CurRow, g.Rows-1)
	a.CurCol = min(a.CurCol, g.Columns-1)
	a.ViewRow = min(a.ViewRow, a.CurRow)
	a.ViewCol = min(a.ViewCol, a.CurCol)
}

func resize(sizes []int, n, def int) []int {
	if len(sizes) >= n {
		return sizes[:n]
	}
	for len(sizes) < n {
		sizes = append(sizes, def)
	}
	return sizes
}
