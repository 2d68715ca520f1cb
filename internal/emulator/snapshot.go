package emulator

import (
	"errors"
	"sort"
	"strings"

	"github.com/gxcore/gxcore/internal/component"
	"github.com/gxcore/gxcore/internal/cpu/m88k"
	"github.com/gxcore/gxcore/internal/ui/tui"
)

var errNotARegister = errors.New("not a register variable")

// Snapshot builds the read-only view the Paused console (or any other UI
// collaborator) shows for one command prompt: the component tree, the
// first CPU's register dump (with deltas against the previous snapshot),
// and a short disassembly window around that CPU's pc.
func (e *Emulator) Snapshot(prevRegisters map[string]string) tui.Snapshot {
	_, warnings := e.PreRunCheck()

	snap := tui.Snapshot{
		Tree:     renderTree(e.root, 0),
		Warnings: warnings,
	}

	cpuComponents := cpus(e.root)
	if len(cpuComponents) == 0 {
		return snap
	}
	first := cpuComponents[0]

	snap.Registers = registerDump(first, prevRegisters)
	snap.Disasm = disassembleAround(first)
	return snap
}

func renderTree(c *component.Component, depth int) []string {
	label := c.ClassName()
	if c.Name() != "" {
		label = c.Name() + " (" + c.ClassName() + ")"
	}
	lines := []string{strings.Repeat("  ", depth) + label}
	for _, child := range c.Children() {
		lines = append(lines, renderTree(child, depth+1)...)
	}
	return lines
}

// registerDump reads every "rN" state variable off c in numeric order,
// flagging any whose value differs from prev.
func registerDump(c *component.Component, prev map[string]string) []tui.Register {
	var names []string
	for _, name := range c.GetVariableNames() {
		if strings.HasPrefix(name, "r") {
			if _, err := parseRegisterIndex(name); err == nil {
				names = append(names, name)
			}
		}
	}
	sort.Slice(names, func(i, j int) bool {
		a, _ := parseRegisterIndex(names[i])
		b, _ := parseRegisterIndex(names[j])
		return a < b
	})

	out := make([]tui.Register, 0, len(names))
	for _, name := range names {
		v, ok := c.GetVariable(name)
		if !ok {
			continue
		}
		value := v.String()
		out = append(out, tui.Register{
			Name:    name,
			Value:   value,
			Changed: prev != nil && prev[name] != "" && prev[name] != value,
		})
	}
	return out
}

func parseRegisterIndex(name string) (int, error) {
	if len(name) < 2 {
		return 0, errNotARegister
	}
	n := 0
	for _, r := range name[1:] {
		if r < '0' || r > '9' {
			return 0, errNotARegister
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}

// disassembleAround renders a handful of instructions starting at c's pc.
// Only m88k_cpu currently implements disassembly; other architectures fall
// back to an empty window.
func disassembleAround(c *component.Component) []string {
	cpu, ok := c.AsCPU()
	if !ok {
		return nil
	}
	m, ok := cpu.(*m88k.CPU)
	if !ok {
		return nil
	}

	const windowInstructions = 8
	pc := m.PC()
	var lines []string
	for i := 0; i < windowInstructions; i++ {
		word, ok := m.ReadInstructionWord(pc)
		if !ok {
			break
		}
		bytes := []byte{byte(word >> 24), byte(word >> 16), byte(word >> 8), byte(word)}
		consumed, toks := m88k.DisassembleInstruction(pc, bytes, true)
		if consumed == 0 {
			break
		}
		lines = append(lines, strings.Join(toks, " "))
		pc += uint64(consumed)
	}
	return lines
}
