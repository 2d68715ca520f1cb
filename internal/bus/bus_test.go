package bus

import "testing"

func TestRamZeroOnReadBeforeWrite(t *testing.T) {
	r := NewRam("ram")
	r.AddressSelect(0x1000)
	v, ok := r.ReadData(4, LittleEndian)
	if !ok || v != 0 {
		t.Fatalf("ReadData before any write = (%#x, %v), want (0, true)", v, ok)
	}
}

func TestRamWriteThenReadRoundTrips(t *testing.T) {
	r := NewRam("ram")
	r.AddressSelect(0x2000)
	if ok := r.WriteData(0xdeadbeef, 4, LittleEndian); !ok {
		t.Fatalf("WriteData failed")
	}
	r.AddressSelect(0x2000)
	v, ok := r.ReadData(4, LittleEndian)
	if !ok || v != 0xdeadbeef {
		t.Fatalf("ReadData after write = (%#x, %v), want (0xdeadbeef, true)", v, ok)
	}
}

func TestRamEndiannessConsistency(t *testing.T) {
	r := NewRam("ram")
	r.AddressSelect(0x3000)
	r.WriteData(0x01020304, 4, BigEndian)
	r.AddressSelect(0x3000)
	le, _ := r.ReadData(4, LittleEndian)
	if le != 0x04030201 {
		t.Fatalf("reading big-endian write as little-endian = %#x, want 0x04030201", le)
	}
	r.AddressSelect(0x3000)
	be, _ := r.ReadData(4, BigEndian)
	if be != 0x01020304 {
		t.Fatalf("reading big-endian write as big-endian = %#x, want 0x01020304", be)
	}
}

func TestRamWriteProtected(t *testing.T) {
	r := NewRam("rom")
	r.SetVariableValue("writeProtected", "true")
	r.AddressSelect(0x4000)
	if ok := r.WriteData(1, 1, LittleEndian); ok {
		t.Fatalf("WriteData succeeded on a write-protected RAM")
	}
}

func TestRamByteVsWordConsistency(t *testing.T) {
	r := NewRam("ram")
	r.AddressSelect(0x5000)
	r.WriteData(0x11223344, 4, LittleEndian)

	for i, want := range []byte{0x44, 0x33, 0x22, 0x11} {
		r.AddressSelect(0x5000 + uint64(i))
		v, ok := r.ReadData(1, LittleEndian)
		if !ok || byte(v) != want {
			t.Fatalf("byte %d = %#x, want %#x", i, v, want)
		}
	}
}

func TestMainbusRoutesToChildWindow(t *testing.T) {
	mb := NewMainbus()
	ram := NewRam("ram")
	ram.SetVariableValue("memoryMappedBase", "0x1000")
	ram.SetVariableValue("memoryMappedSize", "0x1000")
	mb.AddChild(ram.Component, -1)

	mb.AddressSelect(0x1500)
	if ok := mb.WriteData(0x42, 1, LittleEndian); !ok {
		t.Fatalf("WriteData through mainbus failed")
	}

	ram.AddressSelect(0x500) // 0x1500 - base(0x1000)
	v, ok := ram.ReadData(1, LittleEndian)
	if !ok || v != 0x42 {
		t.Fatalf("ram at translated offset = (%#x, %v), want (0x42, true)", v, ok)
	}
}

func TestMainbusReportsFailureOutsideAnyWindow(t *testing.T) {
	mb := NewMainbus()
	ram := NewRam("ram")
	ram.SetVariableValue("memoryMappedBase", "0x1000")
	ram.SetVariableValue("memoryMappedSize", "0x1000")
	mb.AddChild(ram.Component, -1)

	mb.AddressSelect(0x9000)
	if _, ok := mb.ReadData(1, LittleEndian); ok {
		t.Fatalf("ReadData succeeded outside every window")
	}
}

func TestCheckOverlapDetectsOverlappingWindows(t *testing.T) {
	mb := NewMainbus()
	a := NewRam("ram")
	a.SetVariableValue("memoryMappedBase", "0x1000")
	a.SetVariableValue("memoryMappedSize", "0x1000")
	b := NewRam("ram")
	b.SetVariableValue("memoryMappedBase", "0x1800")
	b.SetVariableValue("memoryMappedSize", "0x1000")
	mb.AddChild(a.Component, -1)
	mb.AddChild(b.Component, -1)

	if err := CheckOverlap(mb.Component); err == nil {
		t.Fatalf("expected overlap error, got nil")
	}
}
