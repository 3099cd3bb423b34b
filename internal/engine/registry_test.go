package engine

import (
	"context"
	"errors"
	"testing"
)

func noopExecutor(context.Context) (any, error) { return "ok", nil }

func TestRegistryPreservesRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	ids := []string{"bios", "drivers", "battery", "displays"}
	for _, id := range ids {
		if err := reg.Register(Descriptor{ID: id}, noopExecutor); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}

	all := reg.All()
	if len(all) != len(ids) {
		t.Fatalf("expected %d descriptors, got %d", len(ids), len(all))
	}
	for i, d := range all {
		if d.ID != ids[i] {
			t.Fatalf("descriptor %d: expected %s, got %s", i, ids[i], d.ID)
		}
	}
}

func TestRegistryRejectsDuplicateID(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Descriptor{ID: "bios"}, noopExecutor); err != nil {
		t.Fatalf("first register: %v", err)
	}

	err := reg.Register(Descriptor{ID: "bios"}, noopExecutor)
	if err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	var dup *DuplicateProbeError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateProbeError, got %T: %v", err, err)
	}
	if dup.ID != "bios" {
		t.Fatalf("unexpected duplicate id %q", dup.ID)
	}
	if reg.Len() != 1 {
		t.Fatalf("failed registration must not modify the registry, len=%d", reg.Len())
	}
}

func TestRegistryRejectsEmptyIDAndNilExecutor(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Descriptor{}, noopExecutor); err == nil {
		t.Fatal("expected empty id to be rejected")
	}
	if err := reg.Register(Descriptor{ID: "bios"}, nil); err == nil {
		t.Fatal("expected nil executor to be rejected")
	}
}

func TestRegistryAllReturnsCopy(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Descriptor{ID: "bios"}, noopExecutor); err != nil {
		t.Fatalf("register: %v", err)
	}

	all := reg.All()
	all[0].ID = "mutated"
	if reg.All()[0].ID != "bios" {
		t.Fatal("All must return a copy")
	}
}
