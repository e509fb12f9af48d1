package universe

import (
	"sort"
	"testing"
)

var (
	testTemplate = Template{"ts1", "", [][]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}, {3, 3}, {4, 2}, {4, 3}, {5, 3}}}

	configurations = map[string]func(o *Options){
		"wrap": func(o *Options) {
			o.Topology = Wrap
		},
		"bordered": func(o *Options) {
			o.Topology = Bordered
		},
		"wrap3species": func(o *Options) {
			o.Topology = Wrap
			o.CellTypes = MaxCellTypes
		},
	}
)

const (
	width  = 200
	height = 200
)

func universeStep(u Universe, b *testing.B) {
	u.AddTemplate(testTemplate)
	stateCh := u.StateCh()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		u.Clear()
		<-stateCh //wait for finish
		u.SettleTemplate("ts1", 1)
		b.StartTimer()
		u.Step()
		for {
			st := <-stateCh
			if st.RunningMode == RunningStateManual || st.RunningMode == RunningStateFinished {
				break
			}
		}
	}
	u.Close()
}

func newStateCh() chan Status {
	return make(chan Status, 10)
}

func newUniverseOptions() *Options {
	o := DefaultUniverseOptions
	o.Interval = 0
	o.Width = width
	o.Height = height
	return &o
}

func configurationNames() (names []string) {
	names = make([]string, 0, len(configurations))
	for k := range configurations {
		names = append(names, k)
	}
	sort.Strings(names)
	return
}

func Benchmark_Step(b *testing.B) {
	for _, c := range configurationNames() {
		b.Run(c, func(b *testing.B) {
			o := newUniverseOptions()
			configurations[c](o)
			u, err := NewBaseUniverse(o, newStateCh())
			if err != nil {
				b.Fatal(err)
			}
			universeStep(u, b)
		})
	}
}

func Benchmark_SimulationStep(b *testing.B) {
	for _, c := range configurationNames() {
		b.Run(c, func(b *testing.B) {
			o := newUniverseOptions()
			configurations[c](o)
			s, err := New(o.Height, o.Width, o.CellTypes, o.Topology)
			if err != nil {
				b.Fatal(err)
			}
			for _, v := range testTemplate.Coordinates {
				s.SetCell(v[1], v[0], 1)
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s.Step()
			}
		})
	}
}
