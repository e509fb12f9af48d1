package universe

//Census scans the 3x3 block around (y, x) in the scratch grid
//count is the number of live cells among the 8 neighbors
//majority is the species with the highest tally in the block, the center included; ties go to the lowest species id
func (s *Simulation) Census(y, x int) (count int, majority Cell) {
	h := s.histogram
	for i := range h {
		h[i] = 0
	}

	n := 0
	for i := -1; i < 2; i++ {
		for j := -1; j < 2; j++ {
			if c := s.get(s.scratch, y+i, x+j); c != Dead {
				h[c-1]++
				n++
			}
		}
	}

	hi := 0
	for i := range h {
		//strict comparison keeps the first index on ties
		if h[i] > h[hi] {
			hi = i
		}
	}

	if s.get(s.scratch, y, x) != Dead {
		n--
	}
	return n, Cell(hi + 1)
}

//NextState applies the birth/survival rule to the scratch cell at (y, x)
//a live cell survives with 2 or 3 live neighbors, a dead cell is born with exactly 3
//surviving and newborn cells take the majority species of the block
func (s *Simulation) NextState(y, x int) Cell {
	count, majority := s.Census(y, x)
	if s.get(s.scratch, y, x) != Dead {
		if count < 2 || count > 3 {
			return Dead
		}
		return majority
	}
	if count == 3 {
		return majority
	}
	return Dead
}
