package action

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/gxcore/gxcore/internal/component"
)

// VariableAssignmentAction sets a named variable on a component to a new
// value, restoring the old textual value on Undo. Grounded on
// VariableAssignmentAction.cc: the old value is captured via the variable's
// own ToString()/escaped form at construction time, and both Execute and
// Undo go through the variable's normal SetValue parse path rather than
// poking the backing field directly.
//
// If newValueExpr is prefixed with "=" the remainder is evaluated as a
// JavaScript expression (via goja) and its result's string form is what
// gets assigned, e.g. "=2+2" assigns "4". Anything else is taken as a
// literal in the variable's own textual syntax.
type VariableAssignmentAction struct {
	base
	host         Host
	path         string
	varName      string
	newValueExpr string
	oldValue     string
	restoreDirty func()
}

// NewVariableAssignmentAction builds an action that will set target's
// varName to newValueExpr.
func NewVariableAssignmentAction(host Host, target *component.Component, varName, newValueExpr string) (*VariableAssignmentAction, error) {
	v, ok := target.GetVariable(varName)
	if !ok {
		return nil, fmt.Errorf("no such variable: %s", varName)
	}
	return &VariableAssignmentAction{
		base:         newBase(fmt.Sprintf("set %s.%s", target.Path(), varName), true),
		host:         host,
		path:         target.Path(),
		varName:      varName,
		newValueExpr: newValueExpr,
		oldValue:     v.String(),
	}, nil
}

// evaluate resolves newValueExpr to the literal value that gets assigned,
// running it through goja when it is a "="-prefixed expression.
func evaluate(expr string) (string, error) {
	rest, isExpr := strings.CutPrefix(expr, "=")
	if !isExpr {
		return expr, nil
	}
	vm := goja.New()
	result, err := vm.RunString(rest)
	if err != nil {
		return "", fmt.Errorf("evaluating %q: %w", rest, err)
	}
	return result.String(), nil
}

func (a *VariableAssignmentAction) Execute() {
	a.restoreDirty = dirtyTransition(a.host)
	target, ok := a.host.RootComponent().LookupPath(a.path)
	if !ok {
		return
	}
	value, err := evaluate(a.newValueExpr)
	if err != nil {
		return
	}
	target.SetVariableValue(a.varName, value)
	a.host.Notify()
}

func (a *VariableAssignmentAction) Undo() {
	target, ok := a.host.RootComponent().LookupPath(a.path)
	if ok {
		target.SetVariableValue(a.varName, a.oldValue)
	}
	if a.restoreDirty != nil {
		a.restoreDirty()
	}
	a.host.Notify()
}
