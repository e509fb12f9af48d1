package view

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	"polylife/src/universe"
)

//ConsoleOut is the headless viewer, it reports progress as plain text
type ConsoleOut struct {
	u          universe.Universe
	w          io.Writer
	palette    Palette
	printField bool
	startTime  time.Time
}

func NewConsoleOut(w io.Writer, p Palette, printField bool) *ConsoleOut {
	return &ConsoleOut{w: w, palette: p, printField: printField}
}

func (c *ConsoleOut) Refresh() {
	st := c.u.Status()
	if st.RunningMode == universe.RunningStateRun {
		if st.IterationNum%10 == 0 {
			fmt.Fprintf(c.w, "  Iterations done: %v\n", st.IterationNum)
		}
	}
}

func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	o := c.u.Options()
	fmt.Fprintln(c.w, "Running configuration:")
	fmt.Fprintf(c.w, "  Dimension: %v x %v\n", o.Width, o.Height)
	fmt.Fprintf(c.w, "  Interval: %v\n", o.Interval)
	fmt.Fprintf(c.w, "  Max iterations: %v steps\n", o.MaxSteps)
	fmt.Fprintf(c.w, "  Seed: %v\n", o.Seed)
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	fmt.Fprintln(c.w, "\nSimulation started...")
}

//Summary prints the final status, and the field itself when asked to
func (c *ConsoleOut) Summary() {
	st := c.u.Status()
	totalTime := time.Since(c.startTime).Round(time.Millisecond)
	resultData := map[string]interface{}{
		"Last iteration": st.IterationNum,
		"Total time":     totalTime,
		"Live cells":     st.LiveCells,
		"Mode":           st.RunningMode,
	}
	for i := 1; i < len(st.Population); i++ {
		resultData[fmt.Sprintf("Species %v", i)] = st.Population[i]
	}
	if st.Period > 0 {
		resultData["Cycle period"] = st.Period
	}
	fmt.Fprintln(c.w, "\nFinished:")
	c.printHashData(resultData)

	if c.printField {
		var b bytes.Buffer
		c.palette.Render(&b, c.u.Snapshot(), 0, 0)
		b.WriteByte(10)
		_, _ = c.w.Write(b.Bytes())
	}
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
