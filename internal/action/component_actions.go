package action

import (
	"fmt"

	"github.com/gxcore/gxcore/internal/component"
)

// dirtyTransition sets the host's dirty flag to true and returns a closure
// that restores whatever it was before, for an action's Undo to call.
// Mirrors the save/set/restore pattern every concrete action in
// original_source applies around its own Execute/Undo. The stack also marks
// the host dirty after every push (ActionStack.PushActionAndExecute); the
// restore closure is what lets an action's Undo put the old value back.
func dirtyTransition(host Host) func() {
	old := host.DirtyFlag()
	host.SetDirtyFlag(true)
	return func() { host.SetDirtyFlag(old) }
}

// AddComponentAction inserts componentToAdd as a child of the component
// found at parentPath. Grounded on AddComponentAction.cc: the target is
// resolved to a path once at construction time (via GeneratePath in the
// source); Undo looks the parent up again by that path and removes the
// added component from it by identity.
type AddComponentAction struct {
	base
	host         Host
	component    *component.Component
	path         string
	restoreDirty func()
}

// NewAddComponentAction builds an action that will add componentToAdd as a
// child of parent. parent must already be reachable from host.RootComponent().
func NewAddComponentAction(host Host, componentToAdd, parent *component.Component) *AddComponentAction {
	return &AddComponentAction{
		base:      newBase(fmt.Sprintf("add %s", componentToAdd.ClassName()), true),
		host:      host,
		component: componentToAdd,
		path:      parent.Path(),
	}
}

func (a *AddComponentAction) Execute() {
	a.restoreDirty = dirtyTransition(a.host)
	parent, ok := a.host.RootComponent().LookupPath(a.path)
	if !ok {
		return
	}
	_ = parent.AddChild(a.component, -1)
	a.host.Notify()
}

func (a *AddComponentAction) Undo() {
	parent, ok := a.host.RootComponent().LookupPath(a.path)
	if ok {
		_, _ = parent.RemoveChild(a.component)
	}
	if a.restoreDirty != nil {
		a.restoreDirty()
	}
	a.host.Notify()
}

// RemoveComponentAction detaches a component from the tree. Grounded on
// RemoveComponentAction.cc: the removed component's path and its parent's
// path are captured at construction time, and its former position among its
// siblings is recorded when Execute removes it, so Undo can re-insert it
// exactly where it was rather than at the end.
type RemoveComponentAction struct {
	base
	host         Host
	path         string
	parentPath   string
	position     int
	removed      *component.Component
	restoreDirty func()
}

// NewRemoveComponentAction builds an action that will remove target from
// its current parent.
func NewRemoveComponentAction(host Host, target *component.Component) *RemoveComponentAction {
	return &RemoveComponentAction{
		base:       newBase(fmt.Sprintf("remove %s", target.ClassName()), true),
		host:       host,
		path:       target.Path(),
		parentPath: target.Parent().Path(),
	}
}

func (a *RemoveComponentAction) Execute() {
	a.restoreDirty = dirtyTransition(a.host)
	target, ok := a.host.RootComponent().LookupPath(a.path)
	if !ok {
		return
	}
	parent := target.Parent()
	pos, err := parent.RemoveChild(target)
	if err != nil {
		return
	}
	a.position = pos
	a.removed = target
	a.host.Notify()
}

func (a *RemoveComponentAction) Undo() {
	if a.removed != nil {
		parent, ok := a.host.RootComponent().LookupPath(a.parentPath)
		if ok {
			_ = parent.AddChild(a.removed, a.position)
		}
	}
	if a.restoreDirty != nil {
		a.restoreDirty()
	}
	a.host.Notify()
}
