package action

// ActionStack holds the undo and redo stacks for a single emulator
// instance, grounded on ActionStack.h/.cc. The host passed to each action's
// Execute/Undo is fixed at construction.
type ActionStack struct {
	host Host
	undo []Action
	redo []Action
}

// NewActionStack creates an empty stack bound to host.
func NewActionStack(host Host) *ActionStack {
	return &ActionStack{host: host}
}

// PushActionAndExecute pushes a onto the undo stack (clearing the redo stack
// if a is undoable, or clearing both stacks entirely if it is not), notifies
// the host, and only then executes a. Execution happens after the stack
// mutation because a itself may mutate the stack, e.g. ClearEmulationAction
// clearing history as a side effect (ActionStack.cc). Every push, undoable
// or not, leaves the host's dirty flag set.
func (s *ActionStack) PushActionAndExecute(a Action) {
	a.assignID()
	if a.Undoable() {
		s.undo = append(s.undo, a)
		s.ClearRedo()
	} else {
		s.Clear()
	}
	s.host.Notify()
	a.Execute()
	s.host.SetDirtyFlag(true)
}

// Undo pops the most recent undoable action, undoes it, and moves it to the
// redo stack. No-op if the undo stack is empty.
func (s *ActionStack) Undo() {
	if len(s.undo) == 0 {
		return
	}
	n := len(s.undo) - 1
	a := s.undo[n]
	s.undo = s.undo[:n]
	a.Undo()
	s.redo = append(s.redo, a)
	s.host.Notify()
}

// Redo pops the most recently undone action, re-executes it, and moves it
// back to the undo stack. No-op if the redo stack is empty.
func (s *ActionStack) Redo() {
	if len(s.redo) == 0 {
		return
	}
	n := len(s.redo) - 1
	a := s.redo[n]
	s.redo = s.redo[:n]
	a.Execute()
	s.undo = append(s.undo, a)
	s.host.Notify()
}

// Clear empties both stacks.
func (s *ActionStack) Clear() {
	s.undo = nil
	s.redo = nil
}

// ClearRedo empties only the redo stack, discarding any undone-but-not-yet-
// redone actions. Called whenever a fresh action is pushed, since the redo
// history it would have led to no longer applies.
func (s *ActionStack) ClearRedo() {
	s.redo = nil
}

// IsUndoPossible reports whether Undo would do anything.
func (s *ActionStack) IsUndoPossible() bool { return len(s.undo) > 0 }

// IsRedoPossible reports whether Redo would do anything.
func (s *ActionStack) IsRedoPossible() bool { return len(s.redo) > 0 }

// GetNrOfUndoableActions returns the undo stack depth.
func (s *ActionStack) GetNrOfUndoableActions() int { return len(s.undo) }

// GetNrOfRedoableActions returns the redo stack depth.
func (s *ActionStack) GetNrOfRedoableActions() int { return len(s.redo) }
