package core

import "github.com/sarchlab/akita/v4/sim"

// Engine drives an Orchestrator to completion on top of akita's event
// engine instead of a hand-rolled for loop, so the six-phase schedule
// composes with the rest of the akita ecosystem as an ordinary
// ticking component.
type Engine struct {
	*sim.TickingComponent
	engine    sim.Engine
	orch      *Orchestrator
	maxCycles uint64
}

// NewEngine wraps orch as a ticking akita component backed by a serial
// engine. The tick frequency is nominal -- this simulator has no wall-clock
// semantics, only a cycle count -- so 1GHz simply gives akita's scheduler a
// concrete, monotonically increasing event time to order ticks by.
func NewEngine(name string, orch *Orchestrator, maxCycles uint64) *Engine {
	e := &Engine{orch: orch, maxCycles: maxCycles, engine: sim.NewSerialEngine()}
	e.TickingComponent = sim.NewTickingComponent(name, e.engine, 1*sim.GHz, e)
	return e
}

// Tick implements sim.Ticker: run one orchestrator cycle and ask to be
// rescheduled until Done, enforcing the same cycle ceiling Orchestrator.Run
// would.
func (e *Engine) Tick() bool {
	if e.orch.Done() {
		return false
	}
	if e.orch.Cycle() >= e.maxCycles {
		panic("tomasulo: simulation did not terminate within the configured cycle ceiling")
	}
	e.orch.Tick()
	return true
}

// Run schedules the first tick and drives the underlying engine until the
// orchestrator reports Done.
func (e *Engine) Run() {
	e.TickLater()
	if err := e.engine.Run(); err != nil {
		panic(err)
	}
}

// Orchestrator exposes the wrapped orchestrator once Run returns.
func (e *Engine) Orchestrator() *Orchestrator { return e.orch }
