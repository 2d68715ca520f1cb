// Package trace provides types for collecting and annotating emulation
// events: action execute/undo/redo, component tree edits, bus accesses, cpu
// exceptions, and file loads. internal/log.Trace feeds events created here
// via NewEvent; an Enricher then attaches secondary tags and annotations
// before the event reaches a timeline view.
package trace

import "time"

// Tag represents a trace event category.
// Tags are stored without # prefix; the prefix is added on rendering.
type Tag string

// Standard tags for trace events.
const (
	Action          Tag = "action"
	Undo            Tag = "undo"
	Redo            Tag = "redo"
	ComponentAdd    Tag = "component-add"
	ComponentRemove Tag = "component-remove"
	VariableSet     Tag = "variable-set"
	Bus             Tag = "bus"
	BusFault        Tag = "bus-fault"
	BusRead         Tag = "bus-read"
	BusWrite        Tag = "bus-write"
	CPU             Tag = "cpu"
	CPUException    Tag = "cpu-exception"
	CPUTrap         Tag = "cpu-trap"
	Loader          Tag = "loader"
	Reset           Tag = "reset"
)

// Tags is a collection of tags with helper methods.
type Tags []Tag

// Has returns true if the tag collection contains the given tag.
func (t Tags) Has(tag Tag) bool {
	for _, x := range t {
		if x == tag {
			return true
		}
	}
	return false
}

// Add adds a tag if not already present.
func (t *Tags) Add(tag Tag) {
	if !t.Has(tag) {
		*t = append(*t, tag)
	}
}

// Strings returns tags as strings with # prefix for display.
func (t Tags) Strings() []string {
	out := make([]string, len(t))
	for i, tag := range t {
		out[i] = "#" + string(tag)
	}
	return out
}

// Raw returns tags as strings without # prefix.
func (t Tags) Raw() []string {
	out := make([]string, len(t))
	for i, tag := range t {
		out[i] = string(tag)
	}
	return out
}

// Primary returns the first tag or empty string if none.
func (t Tags) Primary() Tag {
	if len(t) > 0 {
		return t[0]
	}
	return ""
}

// Annotations holds key-value metadata for trace events.
type Annotations map[string]string

// Set adds or updates an annotation.
func (a Annotations) Set(k, v string) {
	a[k] = v
}

// Get retrieves an annotation value.
func (a Annotations) Get(k string) string {
	return a[k]
}

// Has returns true if the annotation exists.
func (a Annotations) Has(k string) bool {
	_, ok := a[k]
	return ok
}

// Event represents a trace event with rich metadata.
type Event struct {
	PC          uint64      // Program counter at the time of the event, 0 if not applicable
	Tags        Tags        // Multiple hashtags, first is primary
	Name        string      // Event name (e.g., "execute", "fault", "add")
	Detail      string      // Additional detail (e.g., "addr=0x1000", "class=ram")
	Annotations Annotations // Key-value metadata
	Timestamp   time.Time   // When the event occurred
}

// NewEvent creates a new trace event with the given parameters.
func NewEvent(pc uint64, category, name, detail string) *Event {
	return &Event{
		PC:          pc,
		Tags:        Tags{Tag(category)},
		Name:        name,
		Detail:      detail,
		Annotations: make(Annotations),
		Timestamp:   time.Now(),
	}
}

// AddTag adds a tag to the event.
func (e *Event) AddTag(tag Tag) {
	e.Tags.Add(tag)
}

// Annotate sets an annotation on the event.
func (e *Event) Annotate(k, v string) {
	if e.Annotations == nil {
		e.Annotations = make(Annotations)
	}
	e.Annotations.Set(k, v)
}

// PrimaryTag returns the primary (first) tag with # prefix.
func (e *Event) PrimaryTag() string {
	if len(e.Tags) > 0 {
		return "#" + string(e.Tags[0])
	}
	return ""
}

// Enricher enriches trace events based on category and name.
type Enricher func(e *Event)

// DefaultEnricher adds secondary tags and annotations based on an event's
// primary category and name.
func DefaultEnricher(e *Event) {
	if len(e.Tags) == 0 {
		return
	}

	category := string(e.Tags[0])

	switch category {
	case "action":
		switch e.Name {
		case "undo":
			e.AddTag(Undo)
		case "redo":
			e.AddTag(Redo)
		default:
			e.AddTag(Action)
		}

	case "component":
		switch e.Name {
		case "add":
			e.AddTag(ComponentAdd)
		case "remove":
			e.AddTag(ComponentRemove)
		case "reset":
			e.AddTag(Reset)
		}

	case "variable":
		e.AddTag(VariableSet)

	case "bus":
		e.AddTag(Bus)
		switch e.Name {
		case "fault":
			e.AddTag(BusFault)
			e.Annotate("severity", "warn")
		case "read":
			e.AddTag(BusRead)
		case "write":
			e.AddTag(BusWrite)
		}

	case "cpu":
		e.AddTag(CPU)
		switch e.Name {
		case "exception":
			e.AddTag(CPUException)
		case "trap":
			e.AddTag(CPUTrap)
		}

	case "loader":
		e.AddTag(Loader)
	}
}
