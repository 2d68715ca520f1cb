// Package action implements undoable/redoable operations on a component
// tree: the Action/ActionStack pair and the concrete actions a UI or CLI
// layer issues instead of mutating the tree directly. Grounded on
// original_source/src/include/Action.h, ActionStack.h, and
// src/main/actions/*.cc.
package action

import (
	"github.com/google/uuid"

	"github.com/gxcore/gxcore/internal/component"
)

// Host is the subset of the owning emulator an Action needs: the live root
// component, the dirty flag, emulation lifecycle, and a UI-refresh hook.
// Actions depend on this interface rather than a concrete emulator type so
// internal/action has no import cycle with internal/emulator.
type Host interface {
	RootComponent() *component.Component
	SetRootComponent(root *component.Component)
	DirtyFlag() bool
	SetDirtyFlag(dirty bool)
	ClearEmulation()
	Notify()
}

// Action is a wrapper around an undoable/redoable operation on the
// component tree (Action.h).
type Action interface {
	Execute()
	Undo()
	Undoable() bool
	Description() string
	ID() uuid.UUID
	assignID()
}

// base holds the fields every concrete action carries: a description for
// UI display and the undoable flag Action.h documents, plus a uuid assigned
// when the action is pushed onto a stack, so trace output can correlate
// log lines for a given undo/redo entry.
type base struct {
	description string
	undoable    bool
	id          uuid.UUID
}

func newBase(description string, undoable bool) base {
	return base{description: description, undoable: undoable}
}

func (b base) Description() string { return b.description }
func (b base) Undoable() bool      { return b.undoable }
func (b base) ID() uuid.UUID       { return b.id }
func (b *base) assignID()          { b.id = uuid.New() }
