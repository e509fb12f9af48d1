package universe

//Cell is the state of one grid position: 0 is dead, 1..K is a live species
type Cell uint8

//Dead is the empty cell value
const Dead Cell = 0

//Topology describes how coordinates outside the grid are resolved
type Topology int

const (
	//Wrap joins opposite edges, the grid is a torus
	Wrap Topology = iota
	//Bordered treats everything outside the grid as permanently dead
	Bordered
)

func (t Topology) String() string {
	switch t {
	case Wrap:
		return "wrap"
	case Bordered:
		return "bordered"
	}
	return "unknown"
}

//Area is a rectangular field of cells
//Entities rows share one row-major backing slice
type Area struct {
	Width    int
	Height   int
	Entities [][]Cell
	cells    []Cell
}

//createArea allocates the new area with all cells dead
func createArea(width int, height int) Area {

	area := Area{Width: width, Height: height, Entities: make([][]Cell, height)}
	area.cells = make([]Cell, width*height)
	for i := range area.Entities {
		start := width * i
		area.Entities[i] = area.cells[start : start+width : start+width]
	}
	return area
}

//Cells exposes the backing slice in row-major order
func (a Area) Cells() []Cell { return a.cells }

//copyFrom overwrites the area with the content of src, both areas must have the same shape
func (a Area) copyFrom(src Area) {
	copy(a.cells, src.cells)
}

//clone returns a deep copy of the area
func (a Area) clone() Area {
	c := createArea(a.Width, a.Height)
	c.copyFrom(a)
	return c
}

//fill sets every cell to the value
func (a Area) fill(v Cell) {
	for i := range a.cells {
		a.cells[i] = v
	}
}
