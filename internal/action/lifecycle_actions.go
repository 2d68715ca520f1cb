package action

import (
	"fmt"
	"os"
	"strings"

	"github.com/gxcore/gxcore/internal/component"
)

// ResetAction resets the entire tree to its construction defaults. Grounded
// on ResetAction.cc: rather than reversing each variable's change
// individually, Undo restores a full clone of the tree taken immediately
// before Execute runs Reset() — a deliberately coarse undo, matching the
// source.
type ResetAction struct {
	base
	host         Host
	before       *component.Component
	restoreDirty func()
}

// NewResetAction builds an action that will reset host's current tree.
func NewResetAction(host Host) *ResetAction {
	return &ResetAction{base: newBase("reset emulation", true), host: host}
}

func (a *ResetAction) Execute() {
	a.restoreDirty = dirtyTransition(a.host)
	a.before = a.host.RootComponent().Clone()
	a.host.RootComponent().Reset()
	a.host.Notify()
}

func (a *ResetAction) Undo() {
	if a.before != nil {
		a.host.SetRootComponent(a.before)
	}
	if a.restoreDirty != nil {
		a.restoreDirty()
	}
	a.host.Notify()
}

// LoadEmulationAction reads a saved component tree from a .gxemul file and
// installs it under the component found at targetPath. Grounded on
// LoadEmulationAction.cc: the target must resolve to exactly one component
// via partial-path matching (ambiguous or missing matches are an error at
// construction), and a filename without the .gxemul extension is accepted
// with a warning rather than rejected outright.
type LoadEmulationAction struct {
	base
	host     Host
	filename string
	target   string
	warning  string
	loaded   *component.Component
}

// NewLoadEmulationAction resolves targetPartialPath against host's current
// tree and prepares to load filename into it. Returns an error if the
// partial path matches zero or more than one component.
func NewLoadEmulationAction(host Host, filename, targetPartialPath string) (*LoadEmulationAction, error) {
	matches := host.RootComponent().FindPathByPartialMatch(targetPartialPath)
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no component matches %q", targetPartialPath)
	case 1:
	default:
		return nil, fmt.Errorf("ambiguous target %q: matches %v", targetPartialPath, matches)
	}

	a := &LoadEmulationAction{
		base:     newBase(fmt.Sprintf("load %s", filename), true),
		host:     host,
		filename: filename,
		target:   matches[0],
	}
	if !strings.HasSuffix(filename, ".gxemul") {
		a.warning = fmt.Sprintf("%s does not have the .gxemul extension", filename)
	}
	return a, nil
}

// Warning returns the non-fatal diagnostic captured at construction, if
// any (the UI surfaces this rather than aborting the load).
func (a *LoadEmulationAction) Warning() string { return a.warning }

func (a *LoadEmulationAction) Execute() {
	f, err := os.Open(a.filename)
	if err != nil {
		return
	}
	defer f.Close()
	loaded, err := component.Deserialize(f)
	if err != nil {
		return
	}

	target, ok := a.host.RootComponent().LookupPath(a.target)
	if !ok {
		return
	}
	_ = target.AddChild(loaded, -1)
	a.loaded = loaded
	a.host.SetDirtyFlag(true)
	a.host.Notify()
}

func (a *LoadEmulationAction) Undo() {
	if a.loaded != nil {
		target, ok := a.host.RootComponent().LookupPath(a.target)
		if ok {
			_, _ = target.RemoveChild(a.loaded)
		}
	}
	a.host.Notify()
}

// ClearEmulationAction discards the entire current tree, replacing it with
// a bare root. Grounded on ClearEmulationAction.cc: constructed with
// undoable=false, and Undo is unreachable — the ActionStack never calls
// Undo on a non-undoable action, since pushing one clears both stacks
// instead of pushing onto the undo stack.
type ClearEmulationAction struct {
	base
	host Host
}

// NewClearEmulationAction builds a non-undoable action that clears host's
// emulation.
func NewClearEmulationAction(host Host) *ClearEmulationAction {
	return &ClearEmulationAction{base: newBase("clear emulation", false), host: host}
}

func (a *ClearEmulationAction) Execute() {
	a.host.ClearEmulation()
	a.host.Notify()
}

// Undo panics: a non-undoable action must never reach the undo stack.
func (a *ClearEmulationAction) Undo() {
	panic("ClearEmulationAction is not undoable")
}
