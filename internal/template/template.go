// Package template loads declarative machine descriptions from YAML and
// instantiates them as component trees through the same factory/registry
// internal/component.Create uses for a plain `add`. This is the concrete
// home for spec.md §4.2's "template" attribute and template-machine
// creation, which the source expresses purely as C++ MACHINE_REGISTER
// boilerplate (original_source/src/machines/*.cc) with no file format of
// its own; here a template is a `*.yaml` file shaped like the tree it
// builds.
package template

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gxcore/gxcore/internal/component"
	"github.com/gxcore/gxcore/internal/gxerr"
)

// Node is one component in a template tree: its class, optional instance
// name, initial variable values, and children.
type Node struct {
	Class     string            `yaml:"class"`
	Name      string            `yaml:"name,omitempty"`
	Variables map[string]string `yaml:"variables,omitempty"`
	Children  []Node            `yaml:"children,omitempty"`
}

// Parse reads a single template tree from r.
func Parse(r io.Reader) (*Node, error) {
	var n Node
	if err := yaml.NewDecoder(r).Decode(&n); err != nil {
		return nil, gxerr.New(gxerr.FileFormatError, "", "parsing template: "+err.Error())
	}
	return &n, nil
}

// Instantiate builds a detached component tree from n, via the same
// Create factory registry a plain `add` command uses. Variable values are
// applied in sorted key order so a malformed template fails deterministically.
func (n *Node) Instantiate() (*component.Component, error) {
	c, ok := component.Create(n.Class, "")
	if !ok {
		return nil, gxerr.New(gxerr.PathNotFound, "", "unknown component class: "+n.Class)
	}
	if n.Name != "" {
		if !c.SetVariableValue("name", n.Name) {
			return nil, gxerr.New(gxerr.InvariantViolation, n.Class, "could not set name")
		}
	}

	keys := make([]string, 0, len(n.Variables))
	for k := range n.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !c.SetVariableValue(k, n.Variables[k]) {
			return nil, gxerr.New(gxerr.InvariantViolation, c.Path(), "could not set variable "+k)
		}
	}

	for i := range n.Children {
		child, err := n.Children[i].Instantiate()
		if err != nil {
			return nil, err
		}
		if err := c.AddChild(child, -1); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Load parses and instantiates a template tree from r in one step.
func Load(r io.Reader) (*component.Component, error) {
	n, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return n.Instantiate()
}

// registry holds named templates, keyed by the basename the file was
// loaded under (without its .yaml extension), for `add <templateName>`
// style instantiation.
var registry = make(map[string]*Node)

// LoadDir parses every *.yaml/*.yml file in dir and registers it under its
// basename, returning the names registered.
func LoadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, gxerr.New(gxerr.FileFormatError, dir, "reading template directory: "+err.Error())
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			return names, gxerr.New(gxerr.FileFormatError, e.Name(), "opening template: "+err.Error())
		}
		n, err := Parse(f)
		f.Close()
		if err != nil {
			return names, err
		}
		registry[name] = n
		names = append(names, name)
	}
	return names, nil
}

// Get returns the registered template named name, instantiated fresh.
func Get(name string) (*component.Component, bool) {
	n, ok := registry[name]
	if !ok {
		return nil, false
	}
	c, err := n.Instantiate()
	if err != nil {
		return nil, false
	}
	return c, true
}

// RegisteredNames returns every loaded template name, sorted.
func RegisteredNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
