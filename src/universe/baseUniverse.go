package universe

import (
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
)

//Options represents the Universe's configurable options
type Options struct {
	Width        int
	Height       int
	CellTypes    int
	Topology     Topology
	Interval     time.Duration
	IntervalStep time.Duration
	MaxSteps     int
	HistoryDepth int                    //how many past generations are kept to detect cycles, 0 disables it
	Seed         int64                  //seed for SettleWithRandomData
	Advanced     map[string]interface{} //advanced options (engine specific)
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	Population    []int //cells per value, index 0 holds the dead cells
	Period        int   //length of the detected cycle, 0 if none
	IterationTime time.Duration
	Details       map[string]interface{} //advanced details (engine specific)
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(u Universe)
	Start()
}

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name        string  //template name
	Descr       string  //template descr
	Coordinates [][]int //array of [x,y] coordinates
}

//The universe running status at the concrete moment
type RunningState int

//default options
const (
	DefSimulationInterval = time.Millisecond * 40
	DefIntervalStep       = time.Millisecond * 20
	DefMaxSteps           = 1000
	DefWidth              = 40
	DefHeight             = 15
	DefCellTypes          = 1
	DefHistoryDepth       = 4
)

const (
	RunningStateManual RunningState = iota
	RunningStateStep
	RunningStateRun
	RunningStateFinished
)

func (rs RunningState) String() string {
	switch rs {
	case RunningStateManual:
		return "waiting"
	case RunningStateStep:
		return "step"
	case RunningStateRun:
		return "running"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}

var DefaultUniverseOptions = Options{
	Width:        DefWidth,
	Height:       DefHeight,
	CellTypes:    DefCellTypes,
	Topology:     Wrap,
	Interval:     DefSimulationInterval,
	IntervalStep: DefIntervalStep,
	MaxSteps:     DefMaxSteps,
	HistoryDepth: DefHistoryDepth,
}

//DefaultTemplates are registered in every new universe
var DefaultTemplates = []Template{
	{"blinker", "period 2 oscillator", [][]int{{1, 0}, {1, 1}, {1, 2}}},
	{"block", "2x2 still life", [][]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}},
	{"glider", "diagonal spaceship", [][]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}},
	{"testSample1", "the test sample with 3 stable patterns", [][]int{
		{1, 1}, {1, 2},
		{2, 1}, {2, 2},
		{3, 3},
		{4, 2},
		{4, 3},
		{5, 3},
	}},
}

//BaseUniverse runs a Simulation
//implements Universe interface
//every mutation is a command executed by the single mainLoop goroutine, so the simulation is never touched concurrently
type BaseUniverse struct {
	options Options
	state   struct {
		Status
		sync.Mutex
	}
	area struct {
		*Simulation
		sync.Mutex
	}
	rng       *rand.Rand
	history   []string
	runID     int
	stateCh   chan Status
	views     []Viewer
	templates map[string]Template
	controlCh chan func()
	closeCh   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

//NewBaseUniverse creates the BaseUniverse instance and starts its main loop
func NewBaseUniverse(o *Options, stateCh chan Status) (*BaseUniverse, error) {
	if o == nil {
		o = &DefaultUniverseOptions
	}
	opts := *o
	if opts.Interval < 0 {
		return nil, errors.Errorf("invalid interval %v: must not be negative", opts.Interval)
	}
	if opts.MaxSteps < 0 {
		return nil, errors.Errorf("invalid max steps %v: must not be negative", opts.MaxSteps)
	}
	if opts.HistoryDepth < 0 {
		return nil, errors.Errorf("invalid history depth %v: must not be negative", opts.HistoryDepth)
	}
	if opts.IntervalStep <= 0 {
		opts.IntervalStep = DefIntervalStep
	}

	sim, err := New(opts.Height, opts.Width, opts.CellTypes, opts.Topology)
	if err != nil {
		return nil, errors.Wrap(err, "create universe")
	}

	opts.Advanced = make(map[string]interface{}, len(o.Advanced)+3)
	for k, v := range o.Advanced {
		opts.Advanced[k] = v
	}
	opts.Advanced["engine"] = "double-buffered"
	opts.Advanced["topology"] = opts.Topology.String()
	opts.Advanced["cell types"] = opts.CellTypes

	u := BaseUniverse{
		options:   opts,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		controlCh: make(chan func(), 1),
		closeCh:   make(chan struct{}),
		done:      make(chan struct{}),
		stateCh:   stateCh,
		templates: map[string]Template{},
	}
	u.area.Simulation = sim
	u.state.Details = make(map[string]interface{})
	u.state.Population = sim.Population()
	for _, tmpl := range DefaultTemplates {
		u.templates[tmpl.Name] = tmpl
	}

	go u.mainLoop()
	return &u, nil
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (u *BaseUniverse) AddTemplate(tmpl Template) {
	u.exec(func() {
		u.templates[tmpl.Name] = tmpl
	})
}

//Settle settles the universe with cells of the given species
//vc - array of x,y coordinates
func (u *BaseUniverse) Settle(vc [][]int, c Cell) {
	u.exec(func() {
		u.settle(vc, c)
	})
}

//SettleTemplate populates the universe with the seeding template
func (u *BaseUniverse) SettleTemplate(name string, c Cell) {
	u.exec(func() {
		tmpl, ok := u.templates[name]
		if !ok {
			return
		}
		u.settle(tmpl.Coordinates, c)
	})
}

//SettleWithRandomData fills every cell with a random species or leaves it dead
func (u *BaseUniverse) SettleWithRandomData() {
	u.exec(func() {
		u.area.Lock()
		u.area.Randomize(u.rng)
		u.area.Unlock()
		u.touched()
	})
}

//PaintCell sets the cell at point x, y
func (u *BaseUniverse) PaintCell(x int, y int, c Cell) {
	u.exec(func() {
		u.settle([][]int{{x, y}}, c)
	})
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
func (u *BaseUniverse) RegisterViewer(v Viewer) {
	v.Register(u)
	u.exec(func() {
		u.views = append(u.views, v)
	})
}

//StateCh returns the channel with the universe's status updates
func (u *BaseUniverse) StateCh() chan Status {
	return u.stateCh
}

//Status returns current universe status represented by Status struct
func (u *BaseUniverse) Status() Status {
	u.state.Lock()
	defer u.state.Unlock()
	st := u.state.Status
	st.Population = append([]int(nil), u.state.Population...)
	return st
}

//Options returns current universe configuration represented by Options struct
func (u *BaseUniverse) Options() Options {
	u.state.Lock()
	defer u.state.Unlock()
	return u.options
}

//Snapshot returns a copy of the current universe area (field where cells is living)
func (u *BaseUniverse) Snapshot() Area {
	u.area.Lock()
	defer u.area.Unlock()
	return u.area.Snapshot()
}

//SetInterval changes the pause between the steps of a running simulation
func (u *BaseUniverse) SetInterval(d time.Duration) {
	if d < 0 {
		d = 0
	}
	u.state.Lock()
	u.options.Interval = d
	u.state.Unlock()
	u.exec(u.refreshView)
}

//Faster shortens the interval by one IntervalStep
func (u *BaseUniverse) Faster() {
	o := u.Options()
	u.SetInterval(o.Interval - o.IntervalStep)
}

//Slower lengthens the interval by one IntervalStep
func (u *BaseUniverse) Slower() {
	o := u.Options()
	u.SetInterval(o.Interval + o.IntervalStep)
}

//Run starts the universe simulation, returns immediately
func (u *BaseUniverse) Run() {
	u.exec(u.run)
}

//Stop stops the universe simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (u *BaseUniverse) Stop() {
	u.exec(u.stop)
}

//Toggle stops a running simulation or starts a stopped one
func (u *BaseUniverse) Toggle() {
	u.exec(func() {
		if u.runningMode() == RunningStateRun {
			u.stop()
		} else {
			u.run()
		}
	})
}

//Step do one simulation step, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (u *BaseUniverse) Step() {
	u.exec(u.step)
}

//Clear clears the universe (kill all cells and reset all counters), returns immediately
//the Status struct will be written to the stateCh on finish
func (u *BaseUniverse) Clear() {
	u.exec(u.clear)
}

//Close stops the main loop, returns immediately
func (u *BaseUniverse) Close() {
	u.closeOnce.Do(func() {
		close(u.closeCh)
	})
}

//exec queues the command for the main loop
//returns false when the universe is closed
func (u *BaseUniverse) exec(cmd func()) bool {
	select {
	case <-u.done:
		return false
	default:
	}
	select {
	case u.controlCh <- cmd:
		return true
	case <-u.done:
		return false
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (u *BaseUniverse) mainLoop() {
	defer close(u.done)
	for {
		select {
		case cmd := <-u.controlCh:
			cmd()
		case <-u.closeCh:
			return
		}
	}
}

//settle places the Cell at each x,y, the topology decides what happens off-grid
func (u *BaseUniverse) settle(vc [][]int, c Cell) {
	u.area.Lock()
	for _, v := range vc {
		if len(v) < 2 {
			continue
		}
		u.area.SetCell(v[1], v[0], c)
	}
	u.area.Unlock()
	u.touched()
}

//touched refreshes counters after the area was changed outside of a step
//an edited field starts a new run, so the step limit counts from zero again
func (u *BaseUniverse) touched() {
	u.history = nil
	u.area.Lock()
	pop := u.area.Population()
	u.area.Unlock()
	u.state.Lock()
	u.state.IterationNum = 0
	u.state.Population = pop
	u.state.LiveCells = live(pop)
	u.state.Period = 0
	u.state.Unlock()
	u.refreshView()
}

func (u *BaseUniverse) runningMode() RunningState {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.RunningMode
}

//switchRunningState switch the state of the universe to RunningState
//also writes the new state to the stateCh to signal upper control software
func (u *BaseUniverse) switchRunningState(to RunningState) {
	u.state.Lock()
	u.state.RunningMode = to
	st := u.state.Status
	st.Population = append([]int(nil), u.state.Population...)
	u.state.Unlock()
	if u.stateCh != nil {
		u.stateCh <- st
	}
}

//run starts the universe simulation
//simulation will stop on Stop() calling or when the boundary conditions are reached
func (u *BaseUniverse) run() {
	if u.runningMode() == RunningStateRun {
		return
	}
	u.runID++
	id := u.runID
	u.switchRunningState(RunningStateRun)
	go func() {
		for {
			var (
				proceed  bool
				interval time.Duration
			)
			stepped := make(chan struct{})
			if !u.exec(func() {
				defer close(stepped)
				if u.runID != id || u.runningMode() != RunningStateRun {
					return
				}
				u.step()
				proceed = u.runningMode() == RunningStateRun
				interval = u.Options().Interval
			}) {
				return
			}
			select {
			case <-stepped:
			case <-u.done:
				return
			}
			if !proceed {
				return
			}
			if interval > 0 {
				time.Sleep(interval)
			}
		}
	}()
}

//stop stops the universe running cycle
func (u *BaseUniverse) stop() {
	if u.runningMode() == RunningStateRun {
		u.switchRunningState(RunningStateManual)
	}
}

//step does the new one state calculation for entire universe
func (u *BaseUniverse) step() {

	finished := false
	rm := u.runningMode()
	defer func() {
		switch {
		case finished:
			u.switchRunningState(RunningStateFinished)
		case rm == RunningStateFinished:
			u.switchRunningState(RunningStateManual)
		default:
			u.switchRunningState(rm)
		}
		u.refreshView()
	}()

	u.state.Lock()
	maxIter := u.options.MaxSteps
	if maxIter != 0 && u.state.IterationNum >= maxIter {
		u.state.Unlock()
		finished = true
		return
	}
	u.state.IterationNum++
	u.state.Unlock()

	u.switchRunningState(RunningStateStep)
	isAlive, changed, period := u.nextIteration()
	if !isAlive || !changed || period > 0 {
		finished = true
	}
}

//clear clears the universe data, reset all counters
func (u *BaseUniverse) clear() {
	u.area.Lock()
	u.area.Clear()
	pop := u.area.Population()
	u.area.Unlock()

	u.history = nil
	u.state.Lock()
	u.state.IterationNum = 0
	u.state.LiveCells = 0
	u.state.Population = pop
	u.state.Period = 0
	u.state.IterationTime = 0
	u.state.Unlock()
	u.switchRunningState(RunningStateManual)
	u.refreshView()
}

//nextIteration does one simulation cycle and updates all related metrics
func (u *BaseUniverse) nextIteration() (hasLiveEntities bool, changed bool, period int) {
	start := time.Now()
	u.area.Lock()
	u.area.Step()
	changed = u.area.Changed()
	pop := u.area.Population()
	hash := u.area.Hash()
	u.area.Unlock()

	period = u.remember(hash)
	liveCells := live(pop)

	u.state.Lock()
	u.state.LiveCells = liveCells
	u.state.Population = pop
	u.state.Period = period
	u.state.IterationTime = time.Since(start)
	u.state.Unlock()
	hasLiveEntities = liveCells > 0
	return
}

//remember stores the generation hash and returns the period of the cycle it closes, 0 if none
func (u *BaseUniverse) remember(hash string) (period int) {
	depth := u.options.HistoryDepth
	if depth == 0 {
		return 0
	}
	for i := len(u.history) - 1; i >= 0; i-- {
		if u.history[i] == hash {
			period = len(u.history) - i
			break
		}
	}
	u.history = append(u.history, hash)
	if len(u.history) > depth {
		u.history = u.history[len(u.history)-depth:]
	}
	return
}

//refreshView calls Refresh event for all registered views
func (u *BaseUniverse) refreshView() {
	for _, v := range u.views {
		v.Refresh()
	}
}

func live(pop []int) int {
	n := 0
	for _, c := range pop[1:] {
		n += c
	}
	return n
}
