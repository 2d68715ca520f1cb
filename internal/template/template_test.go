package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/gxcore/gxcore/internal/bus"
	_ "github.com/gxcore/gxcore/internal/cpu/m88k"
)

const luna88kYAML = `
class: mainbus
name: mainbus0
children:
  - class: m88k_cpu
    name: cpu0
    variables:
      model: "88100"
  - class: ram
    name: ram0
`

func TestParseAndInstantiate(t *testing.T) {
	root, err := Load(strings.NewReader(luna88kYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if root.Name() != "mainbus0" {
		t.Fatalf("root name = %q, want mainbus0", root.Name())
	}
	if len(root.Children()) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children()))
	}
	cpu, ok := root.LookupPath("mainbus0.cpu0")
	if !ok {
		t.Fatalf("could not look up mainbus0.cpu0")
	}
	if cpu.ClassName() != "m88k_cpu" {
		t.Fatalf("cpu0 class = %q, want m88k_cpu", cpu.ClassName())
	}
}

func TestInstantiateUnknownClass(t *testing.T) {
	_, err := Load(strings.NewReader("class: no_such_component\n"))
	if err == nil {
		t.Fatalf("expected an error for an unregistered class")
	}
}

func TestLoadDirRegistersByBasename(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "luna88k.yaml"), []byte(luna88kYAML), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	names, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(names) != 1 || names[0] != "luna88k" {
		t.Fatalf("names = %v, want [luna88k]", names)
	}

	root, ok := Get("luna88k")
	if !ok {
		t.Fatalf("Get(luna88k) not found")
	}
	if len(root.Children()) != 2 {
		t.Fatalf("expected 2 children from registered template")
	}
}
