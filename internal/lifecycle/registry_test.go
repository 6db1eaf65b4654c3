package lifecycle

import (
	"context"
	"errors"
	"testing"
)

func TestRegistryFireOrder(t *testing.T) {
	reg := NewRegistry()
	var order []string

	reg.Bind(KindMembership, BeforeSave, func(ctx context.Context, evt Event) error {
		order = append(order, "first")
		return nil
	})
	reg.Bind(KindMembership, BeforeSave, func(ctx context.Context, evt Event) error {
		order = append(order, "second")
		return nil
	})

	err := reg.Fire(context.Background(), Event{Kind: KindMembership, Point: BeforeSave})
	if err != nil {
		t.Fatalf("Fire failed: %v", err)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("expected bind order [first second], got %v", order)
	}
}

func TestRegistryErrorStopsChain(t *testing.T) {
	reg := NewRegistry()
	veto := errors.New("vetoed")
	ran := false

	reg.Bind(KindGroup, BeforeDelete, func(ctx context.Context, evt Event) error {
		return veto
	})
	reg.Bind(KindGroup, BeforeDelete, func(ctx context.Context, evt Event) error {
		ran = true
		return nil
	})

	err := reg.Fire(context.Background(), Event{Kind: KindGroup, Point: BeforeDelete})
	if !errors.Is(err, veto) {
		t.Fatalf("expected veto error, got %v", err)
	}
	if ran {
		t.Error("reaction after the veto should not have run")
	}
}

func TestRegistryUnboundPointIsNoOp(t *testing.T) {
	reg := NewRegistry()

	reg.Bind(KindGroup, AfterSave, func(ctx context.Context, evt Event) error {
		t.Error("reaction for a different point should not fire")
		return nil
	})

	if err := reg.Fire(context.Background(), Event{Kind: KindGroup, Point: BeforeDelete}); err != nil {
		t.Fatalf("Fire on unbound point failed: %v", err)
	}
	if err := reg.Fire(context.Background(), Event{Kind: KindInvitation, Point: AfterSave}); err != nil {
		t.Fatalf("Fire on unbound kind failed: %v", err)
	}
}

func TestRegistryPassesEventThrough(t *testing.T) {
	reg := NewRegistry()
	record := &struct{ Name string }{Name: "trip"}

	reg.Bind(KindGroup, BeforeSave, func(ctx context.Context, evt Event) error {
		if !evt.Created {
			t.Error("expected Created to be set")
		}
		if evt.Record != record {
			t.Error("expected the triggering record on the event")
		}
		return nil
	})

	err := reg.Fire(context.Background(), Event{
		Kind:    KindGroup,
		Point:   BeforeSave,
		Created: true,
		Record:  record,
	})
	if err != nil {
		t.Fatalf("Fire failed: %v", err)
	}
}
