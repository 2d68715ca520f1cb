package trace

import "testing"

func TestTagsAddIsIdempotent(t *testing.T) {
	var tags Tags
	tags.Add(Action)
	tags.Add(Action)
	if len(tags) != 1 {
		t.Fatalf("expected 1 tag, got %d", len(tags))
	}
}

func TestNewEventAndPrimaryTag(t *testing.T) {
	e := NewEvent(0x1000, "bus", "fault", "addr=0xdeadbeef")
	if e.PrimaryTag() != "#bus" {
		t.Fatalf("PrimaryTag = %q", e.PrimaryTag())
	}
	if e.PC != 0x1000 || e.Name != "fault" {
		t.Fatalf("unexpected event fields: %+v", e)
	}
}

func TestDefaultEnricherBusFault(t *testing.T) {
	e := NewEvent(0x2000, "bus", "fault", "unmapped")
	DefaultEnricher(e)

	if !e.Tags.Has(BusFault) {
		t.Fatalf("expected bus-fault tag, got %v", e.Tags)
	}
	if e.Annotations.Get("severity") != "warn" {
		t.Fatalf("expected severity=warn annotation")
	}
}

func TestDefaultEnricherActionUndo(t *testing.T) {
	e := NewEvent(0, "action", "undo", "remove component ram0")
	DefaultEnricher(e)

	if !e.Tags.Has(Undo) {
		t.Fatalf("expected undo tag, got %v", e.Tags)
	}
}

func TestDefaultEnricherComponentAdd(t *testing.T) {
	e := NewEvent(0, "component", "add", "class=ram")
	DefaultEnricher(e)

	if !e.Tags.Has(ComponentAdd) {
		t.Fatalf("expected component-add tag, got %v", e.Tags)
	}
}
