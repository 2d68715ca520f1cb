package emulator

import (
	"fmt"
	"os"
	"strings"

	"github.com/gxcore/gxcore/internal/action"
	"github.com/gxcore/gxcore/internal/component"
	"github.com/gxcore/gxcore/internal/statevar"
)

// ExecuteCommand dispatches one already-tokenized command line against e's
// tree and action stack. This is the command surface spec.md §6 lists as
// "consumed from the UI (not part of the core, listed only as contract)" —
// kept here rather than duplicated across every UI collaborator (the
// Paused-console TUI and a future cobra CLI both call this), since its
// behavior (which Action each verb pushes) is the one part of the contract
// that has to be identical everywhere.
func (e *Emulator) ExecuteCommand(tokens []string) (output string, err error) {
	if len(tokens) == 0 {
		return "", nil
	}
	switch tokens[0] {
	case "add":
		return e.cmdAdd(tokens[1:])
	case "remove":
		return e.cmdRemove(tokens[1:])
	case "reset":
		e.actions.PushActionAndExecute(action.NewResetAction(e))
		return "reset", nil
	case "load":
		return e.cmdLoad(tokens[1:])
	case "save":
		return e.cmdSave(tokens[1:])
	case "set":
		return e.cmdSet(tokens[1:])
	case "undo":
		e.actions.Undo()
		return "undo", nil
	case "redo":
		e.actions.Redo()
		return "redo", nil
	case "backward-step":
		return "", fmt.Errorf("backward-step: not supported (no cell-level rewind in the dyntrans core)")
	case "tree":
		return strings.Join(renderTree(e.root, 0), "\n"), nil
	case "list-components":
		return strings.Join(component.RegisteredClasses(), "\n"), nil
	case "help":
		return helpText, nil
	default:
		return "", fmt.Errorf("unknown command: %s", tokens[0])
	}
}

const helpText = `commands: add <class> <parentPath> [name]
          remove <path>
          reset
          load <file> <targetPath>
          save <file>
          set <path> <variable> <value>
          undo
          redo
          tree
          list-components
          help`

func (e *Emulator) cmdAdd(args []string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("usage: add <class> <parentPath> [name]")
	}
	class, parentPath := args[0], args[1]

	matches := e.root.FindPathByPartialMatch(parentPath)
	if len(matches) != 1 {
		return "", fmt.Errorf("add: %q matches %d components, want exactly 1", parentPath, len(matches))
	}
	parent, ok := e.root.LookupPath(matches[0])
	if !ok {
		return "", fmt.Errorf("add: could not resolve %q", matches[0])
	}

	child, ok := NewComponent(class)
	if !ok {
		return "", fmt.Errorf("add: unknown component class or template %q", class)
	}
	if len(args) >= 3 {
		child.SetVariableValue("name", args[2])
	}

	e.actions.PushActionAndExecute(action.NewAddComponentAction(e, child, parent))
	return fmt.Sprintf("added %s under %s", class, matches[0]), nil
}

func (e *Emulator) cmdRemove(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: remove <path>")
	}
	matches := e.root.FindPathByPartialMatch(args[0])
	if len(matches) != 1 {
		return "", fmt.Errorf("remove: %q matches %d components, want exactly 1", args[0], len(matches))
	}
	target, ok := e.root.LookupPath(matches[0])
	if !ok || target.Parent() == nil {
		return "", fmt.Errorf("remove: %q has no parent to detach from", matches[0])
	}

	e.actions.PushActionAndExecute(action.NewRemoveComponentAction(e, target))
	return fmt.Sprintf("removed %s", matches[0]), nil
}

func (e *Emulator) cmdLoad(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("usage: load <file> <targetPath>")
	}
	a, err := action.NewLoadEmulationAction(e, args[0], args[1])
	if err != nil {
		return "", err
	}
	e.actions.PushActionAndExecute(a)
	if w := a.Warning(); w != "" {
		return "loaded " + args[0] + " (warning: " + w + ")", nil
	}
	return "loaded " + args[0], nil
}

func (e *Emulator) cmdSave(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: save <file>")
	}
	f, err := os.Create(args[0])
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := e.root.Serialize(statevar.NewContext(f)); err != nil {
		return "", err
	}
	e.dirty = false
	return "saved " + args[0], nil
}

func (e *Emulator) cmdSet(args []string) (string, error) {
	if len(args) != 3 {
		return "", fmt.Errorf("usage: set <path> <variable> <value>")
	}
	matches := e.root.FindPathByPartialMatch(args[0])
	if len(matches) != 1 {
		return "", fmt.Errorf("set: %q matches %d components, want exactly 1", args[0], len(matches))
	}
	target, ok := e.root.LookupPath(matches[0])
	if !ok {
		return "", fmt.Errorf("set: could not resolve %q", matches[0])
	}

	a, err := action.NewVariableAssignmentAction(e, target, args[1], args[2])
	if err != nil {
		return "", err
	}
	e.actions.PushActionAndExecute(a)
	return fmt.Sprintf("set %s.%s = %s", matches[0], args[1], args[2]), nil
}
