package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"phosmap/editor"
	"phosmap/layout"
)

// Run drives the interactive terminal viewer until the user quits. All
// events are handled to completion on this goroutine before the next one is
// polled; savePath is where 'w' writes the layout document.
func Run(session *editor.Session, savePath string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	w, h := screen.Size()
	session.Viewport().BaseW = float64(w) * CellPxW
	session.Viewport().BaseH = float64(h-1) * CellPxH

	renderer := NewRenderer(screen, 1)

	var (
		buttonDown   bool
		alignPending bool
	)

	for {
		renderer.Draw(session)

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			w, h := ev.Size()
			session.Viewport().BaseW = float64(w) * CellPxW
			session.Viewport().BaseH = float64(h-1) * CellPxH
			screen.Sync()

		case *tcell.EventKey:
			if alignPending {
				alignPending = false
				if op, ok := alignOpForKey(ev.Rune()); ok {
					session.AlignSelection(op)
				}
				continue
			}
			if quit := handleKey(session, ev, savePath, &alignPending, log); quit {
				return nil
			}

		case *tcell.EventMouse:
			buttonDown = handleMouse(session, ev, buttonDown)
		}
	}
}

// handleKey processes one key event. Returns true to quit.
func handleKey(session *editor.Session, ev *tcell.EventKey, savePath string, alignPending *bool, log *zap.Logger) bool {
	shift := ev.Modifiers()&tcell.ModShift != 0
	step := 1.0
	if shift {
		step = 10.0
	}

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		session.ClearSelection()
		return false
	case tcell.KeyLeft:
		session.Nudge(-step, 0)
		return false
	case tcell.KeyRight:
		session.Nudge(step, 0)
		return false
	case tcell.KeyUp:
		session.Nudge(0, -step)
		return false
	case tcell.KeyDown:
		session.Nudge(0, step)
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case 's':
		session.SetSelectMode(!session.SelectMode())
	case 'r':
		session.ResetView()
	case 'g':
		session.GroupSelection()
	case 'u':
		session.DissolveSelection()
	case 'x':
		session.DeleteSelection()
	case 'p':
		session.CycleSelection()
	case 'z':
		session.Undo()
	case 'y':
		session.Redo()
	case '+', '=':
		session.Viewport().ZoomIn(nil)
	case '-':
		session.Viewport().ZoomOut(nil)
	case 'a':
		*alignPending = true
	case 'w':
		if savePath == "" {
			break
		}
		if err := layout.Save(savePath, session.Store().Document()); err != nil {
			log.Error("save failed", zap.String("path", savePath), zap.Error(err))
			session.SetBanner("save failed: " + err.Error())
		} else {
			session.SetBanner("saved " + savePath)
		}
	}
	return false
}

// alignOpForKey maps the second key of the two-key align chord.
func alignOpForKey(r rune) (editor.AlignOp, bool) {
	switch r {
	case 'l':
		return editor.AlignLeft, true
	case 't':
		return editor.AlignTop, true
	case 'c':
		return editor.AlignCenterX, true
	case 'm':
		return editor.AlignCenterY, true
	case 'h':
		return editor.DistributeHorizontally, true
	case 'v':
		return editor.DistributeVertically, true
	}
	return 0, false
}

// handleMouse converts tcell mouse events to pointer commands. tcell reports
// the full button state, so presses and releases are detected from the
// transitions. Returns the new button-down state.
func handleMouse(session *editor.Session, ev *tcell.EventMouse, wasDown bool) bool {
	cx, cy := ev.Position()
	sx, sy := CellToScreen(cx, cy)
	buttons := ev.Buttons()

	if buttons&tcell.WheelUp != 0 {
		session.Wheel(true, sx, sy)
		return wasDown
	}
	if buttons&tcell.WheelDown != 0 {
		session.Wheel(false, sx, sy)
		return wasDown
	}

	down := buttons&tcell.Button1 != 0
	switch {
	case down && !wasDown:
		additive := ev.Modifiers()&(tcell.ModShift|tcell.ModCtrl) != 0
		session.PointerDown(sx, sy, additive)
	case down && wasDown:
		session.PointerMove(sx, sy)
	case !down && wasDown:
		session.PointerUp(sx, sy)
	}
	return down
}
