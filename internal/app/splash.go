package app

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

var splashTitle = []struct {
	char  rune
	color tcell.Color
}{
	{'G', tcell.ColorWhite},
	{'R', tcell.ColorWhite},
	{'I', tcell.ColorWhite},
	{'D', tcell.ColorWhite},
	{':', tcell.ColorYellow},
	{'C', tcell.ColorYellow},
	{'A', tcell.ColorYellow},
	{'L', tcell.ColorYellow},
	{'C', tcell.ColorYellow},
}

const splashHint = "Press any key to enter the application"

// Splash reveals the title letter by letter and waits for a key.
func Splash(s tcell.Screen) {
	width, height := s.Size()
	startX := (width - len(splashTitle)) / 2
	y := height / 2
	hintStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for reveal := 1; reveal <= len(splashTitle); reveal++ {
		s.Clear()
		for i, l := range splashTitle[:reveal] {
			s.SetContent(startX+i, y, l.char, nil, tcell.StyleDefault.Foreground(l.color).Bold(true))
		}
		hintX := (width - len(splashHint)) / 2
		for i, ch := range splashHint {
			s.SetContent(hintX+i, y+2, ch, nil, hintStyle)
		}
		s.Show()
		time.Sleep(150 * time.Millisecond)
	}

	for {
		switch s.PollEvent().(type) {
		case *tcell.EventKey, nil:
			return
		case *tcell.EventResize:
			s.Sync()
		}
	}
}
