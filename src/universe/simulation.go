package universe

import (
	"crypto/md5"
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
)

//MaxCellTypes is the default ceiling for the number of live species
const MaxCellTypes = 3

/*
	Simulation is the double-buffered cellular automaton engine
	current is the authoritative grid, scratch is the frozen copy of current taken at the start of Step
	all neighbor lookups during Step read scratch, all writes land in current
	Simulation has no internal locking, the owner must serialize calls to mutators
*/
type Simulation struct {
	height    int
	width     int
	cellTypes int
	topology  Topology
	current   Area
	scratch   Area
	histogram []int
}

//New allocates a simulation with all cells dead
func New(height, width, cellTypes int, topology Topology) (*Simulation, error) {
	if height <= 0 || width <= 0 {
		return nil, errors.Errorf("invalid grid dimensions %vx%v: width and height must be positive", width, height)
	}
	if cellTypes < 1 || cellTypes > MaxCellTypes {
		return nil, errors.Errorf("invalid number of cell types %v: must be within [1, %v]", cellTypes, MaxCellTypes)
	}
	if topology != Wrap && topology != Bordered {
		return nil, errors.Errorf("invalid topology %v", int(topology))
	}
	return &Simulation{
		height:    height,
		width:     width,
		cellTypes: cellTypes,
		topology:  topology,
		current:   createArea(width, height),
		scratch:   createArea(width, height),
		histogram: make([]int, cellTypes),
	}, nil
}

//Height returns the number of rows
func (s *Simulation) Height() int { return s.height }

//Width returns the number of columns
func (s *Simulation) Width() int { return s.width }

//CellTypes returns the number of species
func (s *Simulation) CellTypes() int { return s.cellTypes }

//Topology returns how off-grid coordinates are resolved
func (s *Simulation) Topology() Topology { return s.topology }

//resolve maps (y, x) to a position inside the grid
//ok is false when the topology puts the position off-grid
func (s *Simulation) resolve(y, x int) (ry int, rx int, ok bool) {
	if y >= 0 && y < s.height && x >= 0 && x < s.width {
		return y, x, true
	}
	if s.topology == Bordered {
		return 0, 0, false
	}
	//full modulo, so offsets of any magnitude land on the torus
	ry = (y%s.height + s.height) % s.height
	rx = (x%s.width + s.width) % s.width
	return ry, rx, true
}

func (s *Simulation) get(a Area, y, x int) Cell {
	ry, rx, ok := s.resolve(y, x)
	if !ok {
		return Dead
	}
	return a.Entities[ry][rx]
}

//Cell reads the current grid at topology-adjusted coordinates
func (s *Simulation) Cell(y, x int) Cell {
	return s.get(s.current, y, x)
}

//SetCell writes the current grid at topology-adjusted coordinates
//writes outside a bordered grid are dropped, values above the number of species are stored as the last species
func (s *Simulation) SetCell(y, x int, v Cell) {
	ry, rx, ok := s.resolve(y, x)
	if !ok {
		return
	}
	if int(v) > s.cellTypes {
		v = Cell(s.cellTypes)
	}
	s.current.Entities[ry][rx] = v
}

//Step advances the grid by one generation
func (s *Simulation) Step() {
	s.scratch.copyFrom(s.current)
	for y := 0; y < s.height; y++ {
		row := s.current.Entities[y]
		for x := range row {
			row[x] = s.NextState(y, x)
		}
	}
}

//Clear kills every cell of the current grid, scratch is left untouched
func (s *Simulation) Clear() {
	s.current.fill(Dead)
}

//Randomize sets every cell to a uniformly chosen value in [0, cellTypes]
func (s *Simulation) Randomize(rng *rand.Rand) {
	cells := s.current.Cells()
	for i := range cells {
		cells[i] = Cell(rng.Intn(s.cellTypes + 1))
	}
}

//Snapshot returns a deep copy of the current grid
func (s *Simulation) Snapshot() Area {
	return s.current.clone()
}

//Population counts cells per value, index 0 holds the dead cells
func (s *Simulation) Population() []int {
	p := make([]int, s.cellTypes+1)
	for _, c := range s.current.Cells() {
		p[c]++
	}
	return p
}

//Changed reports whether the current grid differs from the snapshot taken by the last Step
func (s *Simulation) Changed() bool {
	prev := s.scratch.Cells()
	for i, c := range s.current.Cells() {
		if prev[i] != c {
			return true
		}
	}
	return false
}

//Hash returns the md5 digest of the current grid
func (s *Simulation) Hash() string {
	cells := s.current.Cells()
	b := make([]byte, len(cells))
	for i, c := range cells {
		b[i] = byte(c)
	}
	return fmt.Sprintf("%x", md5.Sum(b))
}
