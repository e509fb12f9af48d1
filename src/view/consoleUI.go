package view

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"

	"polylife/src/universe"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//ConsoleUI is the interactive terminal viewer
//the universe is handed over by Register and every handler works on it explicitly
type ConsoleUI struct {
	u       universe.Universe
	g       *gocui.Gui
	k       []keyBindings
	palette Palette
	brush   universe.Cell
}

var (
	runningStateDescr = map[universe.RunningState]string{
		universe.RunningStateManual:   aurora.Colorize("waiting", aurora.BlueFg).String(),
		universe.RunningStateStep:     "do the step",
		universe.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		universe.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}
)

func NewViewTerminal(p Palette) (*ConsoleUI, error) {

	var err error
	t := ConsoleUI{
		palette: p,
		brush:   1,
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, errors.Wrap(err, "create terminal ui")
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'q', "Q", "Exit", t.cmdQuit, ""},
		{gocui.KeySpace, "SPACE", "Run/Pause", t.cmdToggle, ""},
		{'n', "N", "Next step", t.cmdNextRound, ""},
		{'r', "R", "Randomize", t.cmdSettleWithRandom, ""},
		{'e', "E", "Empty", t.cmdClear, ""},
		{'k', "K", "Faster", t.cmdFaster, ""},
		{gocui.KeyArrowUp, "UP", "Faster", t.cmdFaster, ""},
		{'j', "J", "Slower", t.cmdSlower, ""},
		{gocui.KeyArrowDown, "DOWN", "Slower", t.cmdSlower, ""},
		{'1', "1", "Species 1", t.cmdBrush(1), ""},
		{'2', "2", "Species 2", t.cmdBrush(2), ""},
		{'3', "3", "Species 3", t.cmdBrush(3), ""},
		{gocui.MouseLeft, "MOUSE L", "Paint", t.cmdPaint, "battlefield"},
		{gocui.MouseRight, "MOUSE R", "Erase", t.cmdErase, "battlefield"},
	}
	t.g.SetManagerFunc(t.layout)

	if err = t.initKeyBindings(t.k); err != nil {
		t.g.Close()
		return nil, err
	}

	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return errors.Wrapf(err, "bind key %v", kb.name)
		}
	}
	return nil
}

func (t *ConsoleUI) Register(u universe.Universe) {
	t.u = u
}

//Start runs the terminal main loop until the user quits
func (t *ConsoleUI) Start() {
	defer t.g.Close()
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
}

func (t *ConsoleUI) Refresh() {
	t.renderField(t.u.Snapshot())
	t.renderConfiguration()
	t.renderStatus()
}

func (t *ConsoleUI) renderField(a universe.Area) {

	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View("battlefield")
		if e != nil {
			//the layout has not created the view yet
			return nil
		}
		//the entire field is redrawing at once now
		v.Clear()

		maxW, maxH := v.Size()
		var b bytes.Buffer
		if a.Width > maxW || a.Height > maxH {
			t.palette.Render(&b, a, maxW, maxH-1)
			b.WriteByte(10)
			b.WriteString(aurora.Colorize("The field size is larger than the viewing area", aurora.RedFg).String())
		} else {
			t.palette.Render(&b, a, 0, 0)
		}
		_, _ = fmt.Fprint(v, b.String())
		return nil
	})
}

func (t *ConsoleUI) renderStatus() {
	s := t.u.Status()
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Step", "%v", s.IterationNum))
			_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", s.LiveCells))
			for c := 1; c < len(s.Population); c++ {
				_, _ = fmt.Fprintln(v, t.renderProp(fmt.Sprintf("  %v species %v", t.palette.Glyph(universe.Cell(c)), c), "%v", s.Population[c]))
			}
			if s.Period > 0 {
				_, _ = fmt.Fprintln(v, t.renderProp("Cycle", "period %v", s.Period))
			}
			_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
			_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
			_, _ = fmt.Fprintln(v, t.renderProp("Brush", "%v", t.palette.Glyph(t.brush)))
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	//it needs to call Update when calls from goroutine
	t.g.Update(func(g *gocui.Gui) error {
		c := t.u.Options()
		if v, e := g.View("configuration"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", c.Width, c.Height))
			_, _ = fmt.Fprintln(v, t.renderProp("Topology", "%v", c.Topology))
			_, _ = fmt.Fprintln(v, t.renderProp("Species", "%v", c.CellTypes))
			_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", c.Interval))
			_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "%v steps", c.MaxSteps))
		}
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("battlefield")
		return nil

	} else {
		if _, err := t.headerLayout(g, 3, "This is \"The Life\" game simulation"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration()
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus()
	}

	if v, err := g.SetView("battlefield", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Battle Field"
		v.Frame = true
		t.renderField(t.u.Snapshot())
	}

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		v.Wrap = true
		_, _ = fmt.Fprintln(v, t.helpLine())
	}

	return nil
}

func (t *ConsoleUI) helpLine() string {
	b := bytes.Buffer{}
	b.WriteString("KEYBINDINGS: ")
	for i, k := range t.k {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(aurora.Green(k.name).String())
		b.WriteString(": ")
		b.WriteString(k.descr)
	}
	return b.String()
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		if maxX < len(text) {
			return v, errors.Errorf("terminal width is too small: %v", maxX)
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", (maxX-len(text))/2)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	t.u.Step()
	return nil
}

func (t *ConsoleUI) cmdToggle(_ *gocui.View) error {
	t.u.Toggle()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.u.Clear()
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	t.u.SettleWithRandomData()
	return nil
}

func (t *ConsoleUI) cmdFaster(_ *gocui.View) error {
	t.u.Faster()
	return nil
}

func (t *ConsoleUI) cmdSlower(_ *gocui.View) error {
	t.u.Slower()
	return nil
}

//cmdBrush selects the species painted by the left mouse button
func (t *ConsoleUI) cmdBrush(c universe.Cell) func(v *gocui.View) error {
	return func(_ *gocui.View) error {
		if int(c) > t.u.Options().CellTypes {
			return nil
		}
		t.brush = c
		t.renderStatus()
		return nil
	}
}

func (t *ConsoleUI) cmdPaint(v *gocui.View) error {
	t.paintAtCursor(v, t.brush)
	return nil
}

func (t *ConsoleUI) cmdErase(v *gocui.View) error {
	t.paintAtCursor(v, universe.Dead)
	return nil
}

//paintAtCursor converts the view cursor into field coordinates, one glyph per cell
func (t *ConsoleUI) paintAtCursor(v *gocui.View, c universe.Cell) {
	cx, cy := v.Cursor()
	ox, oy := v.Origin()
	x, y := cx+ox, cy+oy
	o := t.u.Options()
	if x >= o.Width || y >= o.Height {
		return
	}
	t.u.PaintCell(x, y, c)
}
