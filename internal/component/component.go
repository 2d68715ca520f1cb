// Package component implements the tree node at the center of the machine
// model: identity, state variables, parent/child structure, and the two
// capability queries (AsBus, AsCPU) that stand in for the virtual-inheritance
// hierarchy of the source this was distilled from.
package component

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gxcore/gxcore/internal/gxerr"
	"github.com/gxcore/gxcore/internal/statevar"
)

// Endianness selects byte order for a bus transfer.
type Endianness int

const (
	LittleEndian Endianness = iota
	BigEndian
)

// AddressDataBus is the capability a component offers when it can accept a
// latched address followed by a data transfer (RAM, a routing mainbus, or a
// CPU reflecting its own bus handle onto itself).
type AddressDataBus interface {
	AddressSelect(addr uint64)
	ReadData(width int, endian Endianness) (value uint64, ok bool)
	WriteData(value uint64, width int, endian Endianness) bool
}

// CPU is the capability a component offers when it can execute instructions.
type CPU interface {
	PC() uint64
	SetPC(uint64)
	Frequency() float64
	Execute(nrOfCycles int) (executed int)
}

// Component is a tree node: class name, visible class name, a non-owning
// parent back-reference, strongly-owned children, and a name-keyed set of
// StateVariables. Two optional capability trait objects (bus, cpu) are
// filled in by concrete constructors (internal/bus.Ram, internal/cpu/m88k)
// in place of a virtual base class.
type Component struct {
	className        string
	visibleClassName string

	parent   *Component
	children []*Component

	vars     map[string]*statevar.Variable
	varOrder []string

	name     string
	template string

	bus AddressDataBus
	cpu CPU

	resetState           func()
	preRunCheckComponent func(warn func(string)) bool
	flushCachedState     func()
}

// New creates a detached Component of the given class. Concrete component
// constructors call this first, then register their variables and, if
// applicable, install a bus or CPU capability with SetBus/SetCPU.
func New(className, visibleClassName string) *Component {
	c := &Component{
		className:        className,
		visibleClassName: visibleClassName,
		vars:             make(map[string]*statevar.Variable),
	}
	c.AddVariable(statevar.NewString("name", &c.name))
	c.AddVariable(statevar.NewString("template", &c.template))
	return c
}

// ClassName returns the component's concrete class, e.g. "ram", "m88k_cpu".
func (c *Component) ClassName() string { return c.className }

// VisibleClassName returns the family label under which the UI groups this
// component, e.g. all CPU classes surface as "cpu".
func (c *Component) VisibleClassName() string { return c.visibleClassName }

// Name returns the component's instance name, or "" if it was never set.
func (c *Component) Name() string { return c.name }

// SetBus installs the AddressDataBus capability; called by constructors of
// components that can serve as a bus target (RAM, a routing mainbus, a CPU
// reflecting onto itself).
func (c *Component) SetBus(bus AddressDataBus) { c.bus = bus }

// SetCPU installs the CPU capability.
func (c *Component) SetCPU(cpu CPU) { c.cpu = cpu }

// SetResetState installs the component-local (non-recursive) reset hook a
// concrete component uses to restore its extra fields to construction
// defaults, invoked by Reset before the base class's own variables reset.
func (c *Component) SetResetState(f func()) { c.resetState = f }

// SetPreRunCheck installs the component-local pre-run validation hook. warn
// is called for non-fatal diagnostics; the hook returns false only for a
// condition that makes running unsafe.
func (c *Component) SetPreRunCheck(f func(warn func(string)) bool) { c.preRunCheckComponent = f }

// SetFlushCachedState installs the component-local cached-state invalidation
// hook (e.g. clearing a cached bus handle or translation page pointer).
func (c *Component) SetFlushCachedState(f func()) { c.flushCachedState = f }

// AsAddressDataBus returns the component's bus capability, if any.
func (c *Component) AsAddressDataBus() (AddressDataBus, bool) {
	if c.bus == nil {
		return nil, false
	}
	return c.bus, true
}

// AsCPU returns the component's CPU capability, if any.
func (c *Component) AsCPU() (CPU, bool) {
	if c.cpu == nil {
		return nil, false
	}
	return c.cpu, true
}

// Parent returns the non-owning parent back-reference, or nil at the root.
func (c *Component) Parent() *Component { return c.parent }

// Children returns the live slice of child components. Callers must not
// retain it across an AddChild/RemoveChild call.
func (c *Component) Children() []*Component { return c.children }

// AddVariable registers v under its own name. Returns false, leaving the
// component unchanged, if the name is already in use — this is only ever
// called from a constructor or reset path, never once the tree is live.
func (c *Component) AddVariable(v *statevar.Variable) bool {
	if _, exists := c.vars[v.Name()]; exists {
		return false
	}
	c.vars[v.Name()] = v
	c.varOrder = append(c.varOrder, v.Name())
	return true
}

// GetVariableNames returns variable names in registration order.
func (c *Component) GetVariableNames() []string {
	out := make([]string, len(c.varOrder))
	copy(out, c.varOrder)
	return out
}

// GetVariable returns the named variable, or ok=false if unknown.
func (c *Component) GetVariable(name string) (*statevar.Variable, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// SetVariableValue parses expression and stores it into the named variable.
// Returns false if the name is unknown or the expression fails to parse.
func (c *Component) SetVariableValue(name, expression string) bool {
	v, ok := c.vars[name]
	if !ok {
		return false
	}
	return v.SetValue(expression)
}

// isAncestorOf reports whether c is already somewhere above candidate in the
// tree, i.e. whether adding candidate under some descendant of c would
// create a cycle.
func (c *Component) isAncestorOf(candidate *Component) bool {
	for p := candidate; p != nil; p = p.parent {
		if p == c {
			return true
		}
	}
	return false
}

// AddChild appends (or inserts at position, if 0 <= position <= len) a child
// component. It fails if child already has a parent, or if child is an
// ancestor of c (which would introduce a cycle).
func (c *Component) AddChild(child *Component, position int) error {
	if child.parent != nil {
		return gxerr.New(gxerr.InvariantViolation, child.Path(), "component already has a parent")
	}
	if child == c || child.isAncestorOf(c) {
		return gxerr.New(gxerr.InvariantViolation, child.Path(), "would introduce a cycle")
	}
	child.parent = c
	if position < 0 || position > len(c.children) {
		c.children = append(c.children, child)
		return nil
	}
	c.children = append(c.children, nil)
	copy(c.children[position+1:], c.children[position:])
	c.children[position] = child
	return nil
}

// RemoveChild detaches childToRemove and returns the zero-based index it
// occupied, so an Undo can reinsert it at the same position.
func (c *Component) RemoveChild(childToRemove *Component) (int, error) {
	for i, ch := range c.children {
		if ch == childToRemove {
			c.children = append(c.children[:i], c.children[i+1:]...)
			childToRemove.parent = nil
			return i, nil
		}
	}
	return -1, gxerr.New(gxerr.PathNotFound, childToRemove.Path(), "not a child of this component")
}

// segmentName returns the path segment a component contributes: its "name"
// variable if set, otherwise "(className)" — which may make the resulting
// path non-unique, per the addressing scheme's own rule.
func (c *Component) segmentName() string {
	if c.name != "" {
		return c.name
	}
	return "(" + c.className + ")"
}

// Path renders the full dotted path from the tree root down to c.
func (c *Component) Path() string {
	var segs []string
	for p := c; p != nil; p = p.parent {
		segs = append([]string{p.segmentName()}, segs...)
	}
	return strings.Join(segs, ".")
}

// LookupPath resolves a dotted path starting at c. The first segment must
// match c's own segment name; subsequent segments walk into children.
func (c *Component) LookupPath(path string) (*Component, bool) {
	if path == "" {
		return nil, false
	}
	return c.lookupPath(strings.Split(path, "."), 0)
}

func (c *Component) lookupPath(segs []string, index int) (*Component, bool) {
	if segs[index] != c.segmentName() {
		return nil, false
	}
	if index == len(segs)-1 {
		return c, true
	}
	next := segs[index+1]
	for _, child := range c.children {
		if child.segmentName() == next {
			return child.lookupPath(segs, index+1)
		}
	}
	return nil, false
}

// FindPathByPartialMatch returns every full path in the tree rooted at c
// whose trailing segments match partial, interpreted segment-wise: every
// segment but the last must be equal, and the last segment of partial must
// be a prefix of the path's last segment, so "pci" matches ".pcibus0" but
// not ".otherpci". An empty partial returns every path in the tree.
func (c *Component) FindPathByPartialMatch(partial string) []string {
	var all []string
	c.collectPaths(&all)
	if partial == "" {
		return all
	}
	want := strings.Split(partial, ".")
	var out []string
	for _, p := range all {
		have := strings.Split(p, ".")
		if len(have) < len(want) {
			continue
		}
		tail := have[len(have)-len(want):]
		if sameSegments(tail, want) {
			out = append(out, p)
		}
	}
	return out
}

func sameSegments(a, b []string) bool {
	for i := range a {
		if i == len(a)-1 {
			return strings.HasPrefix(a[i], b[i])
		}
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (c *Component) collectPaths(out *[]string) {
	*out = append(*out, c.Path())
	for _, child := range c.children {
		child.collectPaths(out)
	}
}

// Clone returns a deep, detached structural copy: every descendant cloned,
// every variable value copied, no shared state with the original.
func (c *Component) Clone() *Component {
	clone, ok := Create(c.className, c.visibleClassName)
	if !ok {
		// No factory registered (e.g. an ad-hoc test component): fall back
		// to a bare shell that still carries every variable by value.
		clone = New(c.className, c.visibleClassName)
	}
	for _, name := range c.varOrder {
		src := c.vars[name]
		if dst, ok := clone.vars[name]; ok {
			dst.CopyValueFrom(src)
			continue
		}
		// Factory didn't pre-register this name (shouldn't normally
		// happen for a same-class clone); add a fresh, independently
		// backed copy so no state is silently dropped or aliased.
		fresh := statevar.NewZero(src.Type(), name)
		fresh.CopyValueFrom(src)
		clone.vars[name] = fresh
		clone.varOrder = append(clone.varOrder, name)
	}
	for _, child := range c.children {
		childClone := child.Clone()
		_ = clone.AddChild(childClone, -1)
	}
	return clone
}

// Reset runs the component-local reset hook installed via SetResetState, if
// any, then recurses into children. Only what that hook restores returns to
// its default; every other variable, including the base name and template
// variables, keeps its current value.
func (c *Component) Reset() {
	if c.resetState != nil {
		c.resetState()
	}
	for _, child := range c.children {
		child.Reset()
	}
}

// FlushCachedState invalidates per-run cached pointers (bus handle,
// translation page) across the whole subtree rooted at c, in preparation
// for a fresh run.
func (c *Component) FlushCachedState() {
	if c.flushCachedState != nil {
		c.flushCachedState()
	}
	for _, child := range c.children {
		child.FlushCachedState()
	}
}

// PreRunCheck validates the subtree rooted at c, recursively. Warnings are
// reported through warn (typically wired to the UI collaborator / logger);
// the overall result is false if any component reports itself unsafe to run.
func (c *Component) PreRunCheck(warn func(string)) bool {
	ok := true
	if c.preRunCheckComponent != nil {
		if !c.preRunCheckComponent(warn) {
			ok = false
		}
	}
	for _, child := range c.children {
		if !child.PreRunCheck(warn) {
			ok = false
		}
	}
	return ok
}

// StructuralChecksum folds this component's variables and its entire
// subtree into a running FNV-1a accumulator, used to compare trees across a
// serialize/deserialize round trip or an undo/redo pair without depending on
// byte-identical textual output.
func (c *Component) StructuralChecksum() uint64 {
	return c.addChecksum(offsetBasis)
}

const offsetBasis = 14695981039346656037

func (c *Component) addChecksum(acc uint64) uint64 {
	names := make([]string, len(c.varOrder))
	copy(names, c.varOrder)
	sort.Strings(names)
	for _, name := range names {
		acc = statevar.Checksum(acc, c.vars[name])
	}
	for _, child := range c.children {
		acc = child.addChecksum(acc)
	}
	return acc
}

// CheckConsistency serializes and deserializes c (with all its children),
// and compares the checksum of the original against the reconstructed tree.
func (c *Component) CheckConsistency() bool {
	var sb strings.Builder
	if err := c.Serialize(statevar.NewContext(&sb)); err != nil {
		return false
	}
	rebuilt, err := Deserialize(strings.NewReader(sb.String()))
	if err != nil {
		return false
	}
	return c.StructuralChecksum() == rebuilt.StructuralChecksum()
}

// String renders a one-line description, handy in error messages and logs.
func (c *Component) String() string {
	return fmt.Sprintf("%s(%s)", c.className, c.Path())
}
