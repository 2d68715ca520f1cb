package bus

import (
	"github.com/gxcore/gxcore/internal/component"
	"github.com/gxcore/gxcore/internal/statevar"
)

// MemoryMapped holds the three state variables every memory-mapped
// component carries (spec §3, §4.3), grounded on
// original_source/.../MemoryMappedComponent.h's m_memoryMappedBase/
// m_memoryMappedSize/m_memoryMappedAddrMul fields. Concrete components
// embed it and call RegisterVariables from their constructor.
type MemoryMapped struct {
	base    uint64
	size    uint64
	addrMul uint64
}

// RegisterVariables binds base/size/addrMul onto c under their standard
// names, with addrMul defaulting to 1 (no address scaling).
func (m *MemoryMapped) RegisterVariables(c *component.Component) {
	m.addrMul = 1
	c.AddVariable(statevar.NewUint64("memoryMappedBase", &m.base))
	c.AddVariable(statevar.NewUint64("memoryMappedSize", &m.size))
	c.AddVariable(statevar.NewUint64("memoryMappedAddrMul", &m.addrMul))
}

// MemoryMappedWindow returns the component's address window, used by the
// routing bus's overlap check and address-to-child dispatch.
func (m *MemoryMapped) MemoryMappedWindow() (base, size, addrMul uint64) {
	return m.base, m.size, m.addrMul
}
