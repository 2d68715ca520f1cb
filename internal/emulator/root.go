// Package emulator is the root component and top-level run loop: the glue
// spec.md §4.9 describes but leaves outside the component model proper.
package emulator

import (
	"github.com/gxcore/gxcore/internal/component"
	"github.com/gxcore/gxcore/internal/statevar"
)

// rootClassName is a reserved class tag; it is never registered with
// component.Register, so NewRootComponent is the only way to obtain one —
// the root is a distinguished singleton kind, not createable via the
// factory (spec.md §4.9).
const rootClassName = "root"

// NewRootComponent builds a fresh, empty root. In addition to the base
// "name"/"template" variables every component carries, the root has "time"
// (seconds of virtual time elapsed) and "step" (instructions executed).
// Reset zeroes both and recurses into children.
func NewRootComponent() *component.Component {
	root := component.New(rootClassName, "root")
	root.SetVariableValue("name", "root")

	var timeVar float64
	var stepVar uint64
	root.AddVariable(statevar.NewDouble("time", &timeVar))
	root.AddVariable(statevar.NewUint64("step", &stepVar))

	root.SetResetState(func() {
		timeVar = 0
		stepVar = 0
	})

	return root
}
