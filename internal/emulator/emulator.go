package emulator

import (
	"strconv"

	"github.com/gxcore/gxcore/internal/action"
	"github.com/gxcore/gxcore/internal/component"
	"github.com/gxcore/gxcore/internal/log"
	"github.com/gxcore/gxcore/internal/template"
)

// RunState controls the top-level loop (spec.md §4.9/§5).
type RunState int

const (
	NotRunning RunState = iota
	Paused
	Running
	Quitting
)

func (s RunState) String() string {
	switch s {
	case NotRunning:
		return "NotRunning"
	case Paused:
		return "Paused"
	case Running:
		return "Running"
	case Quitting:
		return "Quitting"
	default:
		return "Unknown"
	}
}

// Emulator owns the component tree, the undo/redo history, and the
// top-level run state. It satisfies internal/action.Host, so every
// structural or variable mutation flows through an Action pushed onto
// Actions().
type Emulator struct {
	root     *component.Component
	actions  *action.ActionStack
	runState RunState
	dirty    bool
	wasRunning bool

	logger    *log.Logger
	observers []func()
}

// New builds an Emulator with a fresh, empty root. logger may be nil, in
// which case internal/log's no-op behavior does not apply — callers that
// don't want logging should pass log.NewNop().
func New(logger *log.Logger) *Emulator {
	e := &Emulator{runState: NotRunning, logger: logger}
	e.root = NewRootComponent()
	e.actions = action.NewActionStack(e)
	return e
}

// Actions returns the undo/redo stack driving every structural mutation.
func (e *Emulator) Actions() *action.ActionStack { return e.actions }

// RunState returns the current top-level run state.
func (e *Emulator) RunState() RunState { return e.runState }

// SetRunState transitions the run state. It only records the new state;
// Run notices a transition into Running from anything else and flushes
// cached state across the tree before its next executeCycles call
// (spec.md §4.9's run() pseudocode).
func (e *Emulator) SetRunState(s RunState) {
	e.runState = s
}

// Observe registers fn to be called every time Notify fires (component
// edits, action push/undo/redo, variable assignment) — the hook the UI
// layer uses to know it is stale.
func (e *Emulator) Observe(fn func()) {
	e.observers = append(e.observers, fn)
}

// RootComponent, SetRootComponent, DirtyFlag, SetDirtyFlag, ClearEmulation,
// and Notify implement internal/action.Host.

func (e *Emulator) RootComponent() *component.Component { return e.root }

func (e *Emulator) SetRootComponent(root *component.Component) { e.root = root }

func (e *Emulator) DirtyFlag() bool { return e.dirty }

func (e *Emulator) SetDirtyFlag(dirty bool) { e.dirty = dirty }

// ClearEmulation discards the current tree and history entirely, replacing
// the root with a fresh empty one. Grounded on ClearEmulationAction.cc via
// internal/action.ClearEmulationAction, which calls this as its Execute.
func (e *Emulator) ClearEmulation() {
	e.root = NewRootComponent()
	e.actions.Clear()
	e.dirty = false
}

// Notify runs every registered observer. Called by internal/action after
// every action push/undo/redo.
func (e *Emulator) Notify() {
	for _, obs := range e.observers {
		obs()
	}
}

// PreRunCheck validates the tree and collects any non-fatal warnings.
func (e *Emulator) PreRunCheck() (ok bool, warnings []string) {
	ok = e.root.PreRunCheck(func(msg string) {
		warnings = append(warnings, msg)
	})
	return ok, warnings
}

// time/step read back the root's two extra state variables. The component
// model is reflective and string-typed at the edges, so these parse the
// same textual form Serialize/SetVariableValue use elsewhere.
func (e *Emulator) time() float64 {
	v, ok := e.root.GetVariable("time")
	if !ok {
		return 0
	}
	f, _ := strconv.ParseFloat(v.String(), 64)
	return f
}

func (e *Emulator) step() uint64 {
	v, ok := e.root.GetVariable("step")
	if !ok {
		return 0
	}
	n, _ := strconv.ParseUint(v.String(), 10, 64)
	return n
}

func (e *Emulator) setTime(t float64) {
	e.root.SetVariableValue("time", strconv.FormatFloat(t, 'g', -1, 64))
}

func (e *Emulator) setStep(n uint64) {
	e.root.SetVariableValue("step", strconv.FormatUint(n, 10))
}

// cpus collects every component in the tree offering the CPU capability.
func cpus(c *component.Component) []*component.Component {
	var out []*component.Component
	if _, ok := c.AsCPU(); ok {
		out = append(out, c)
	}
	for _, child := range c.Children() {
		out = append(out, cpus(child)...)
	}
	return out
}

// executeCycles converts budgetSeconds of wall-time into a cycle count for
// every CPU in the tree (budget times that CPU's frequency), executes that
// many cycles on each, and folds
// the actually-executed counts into the root's step counter. time always
// advances by the full budget regardless of how many cycles a CPU actually
// consumed, matching spec.md §4.9.
func (e *Emulator) executeCycles(budgetSeconds float64) {
	var executedTotal uint64
	for _, c := range cpus(e.root) {
		cpu, ok := c.AsCPU()
		if !ok {
			continue
		}
		cycles := int(budgetSeconds * cpu.Frequency())
		if cycles <= 0 {
			continue
		}
		executed := cpu.Execute(cycles)
		executedTotal += uint64(executed)
	}
	e.setStep(e.step() + executedTotal)
	e.setTime(e.time() + budgetSeconds)
}

// Step runs exactly one cycle-budget chunk regardless of run state, for the
// UI's single-step command. It does not consult or change RunState.
func (e *Emulator) Step(budgetSeconds float64) {
	e.executeCycles(budgetSeconds)
}

// Run drives the top-level loop until RunState becomes Quitting, calling
// onPaused once per iteration while paused to read and execute the next
// command. This mirrors spec.md §4.9's run() pseudocode; everything other
// than the Running/Paused dispatch (including what a command actually
// does) lives outside the core, in onPaused.
func (e *Emulator) Run(budgetSeconds float64, onPaused func(*Emulator)) {
	for e.runState != Quitting {
		switch e.runState {
		case Running:
			if !e.wasRunning {
				e.root.FlushCachedState()
			}
			e.wasRunning = true
			e.executeCycles(budgetSeconds)
		case Paused:
			e.wasRunning = false
			onPaused(e)
		default:
			e.wasRunning = false
			onPaused(e)
		}
	}
}

// NewComponent creates a detached component by class name, or by registered
// template name (tried second, so an ambiguous name favors a plain class).
func NewComponent(class string) (*component.Component, bool) {
	if c, ok := component.Create(class, ""); ok {
		return c, true
	}
	return template.Get(class)
}
