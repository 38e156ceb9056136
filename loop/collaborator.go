package loop

// Simulation is the mutable state the scheduler steps. Advance moves it
// forward by exactly one discrete step.
type Simulation interface {
	Advance() error
}

// View draws the current state of the simulation it is bound to.
// A view is bound to one simulation for its whole lifetime.
type View interface {
	Render() error
}

// SimulationView is the collaborator the scheduler drives: a simulation
// together with the view bound to it.
type SimulationView interface {
	Simulation
	View
}

type composed struct {
	Simulation
	View
}

// Compose binds a simulation and its view into a single SimulationView.
func Compose(sim Simulation, view View) SimulationView {
	return composed{Simulation: sim, View: view}
}

// NopView is a View that draws nothing, for headless runs.
type NopView struct{}

// Render does nothing.
func (NopView) Render() error { return nil }
