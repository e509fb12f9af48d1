package universe

import "time"

type Universe interface {
	Status() Status
	Options() Options
	Snapshot() Area
	StateCh() chan Status
	AddTemplate(tmpl Template)
	SettleTemplate(name string, c Cell)
	SettleWithRandomData()
	Settle(vc [][]int, c Cell)
	PaintCell(x int, y int, c Cell)
	RegisterViewer(v Viewer)
	SetInterval(d time.Duration)
	Faster()
	Slower()
	Run()
	Stop()
	Toggle()
	Step()
	Clear()
	Close()
}
