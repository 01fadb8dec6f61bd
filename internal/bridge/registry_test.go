package bridge

import (
	"bytes"
	"log"
	"testing"

	"github.com/dmaxwell/rasterfx/internal/domain"
)

func TestRegistryRegisterAndResolve(t *testing.T) {
	reg := NewRegistry(nil)

	var got domain.EffectOutcome
	if err := reg.Register("job-1", func(o domain.EffectOutcome) { got = o }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.Size() != 1 {
		t.Fatalf("expected size 1, got %d", reg.Size())
	}

	if !reg.Resolve("job-1", domain.EffectOutcome{ID: "job-1"}) {
		t.Fatal("expected resolve to find the pending entry")
	}
	if got.ID != "job-1" {
		t.Fatalf("resolver received outcome for %q", got.ID)
	}
	if reg.Size() != 0 {
		t.Fatal("resolved entry should be removed")
	}

	// Second delivery for the same id is an anomaly, not a crash.
	if reg.Resolve("job-1", domain.EffectOutcome{ID: "job-1"}) {
		t.Fatal("resolving an already-resolved id should report false")
	}
}

func TestRegistryRejectsDuplicateID(t *testing.T) {
	reg := NewRegistry(nil)
	resolve := func(domain.EffectOutcome) {}

	if err := reg.Register("dup", resolve); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := reg.Register("dup", resolve); err == nil {
		t.Fatal("expected duplicate id to be rejected")
	}
	if err := reg.Register("", resolve); err == nil {
		t.Fatal("expected empty id to be rejected")
	}
	if err := reg.Register("nil-resolver", nil); err == nil {
		t.Fatal("expected nil resolver to be rejected")
	}
}

func TestRegistryLogsUnknownID(t *testing.T) {
	var buf bytes.Buffer
	reg := NewRegistry(log.New(&buf, "", 0))

	if reg.Resolve("ghost", domain.EffectOutcome{ID: "ghost"}) {
		t.Fatal("expected unknown id to report false")
	}
	if !bytes.Contains(buf.Bytes(), []byte("ghost")) {
		t.Fatalf("expected anomaly log to name the id, got %q", buf.String())
	}
}

func TestRegistryRemoveDiscardsWithoutInvoking(t *testing.T) {
	reg := NewRegistry(nil)

	called := false
	if err := reg.Register("rollback", func(domain.EffectOutcome) { called = true }); err != nil {
		t.Fatalf("register: %v", err)
	}
	reg.Remove("rollback")

	if reg.Size() != 0 {
		t.Fatal("removed entry should not count as in flight")
	}
	if called {
		t.Fatal("remove must not invoke the resolver")
	}
	reg.Remove("rollback") // idempotent
}
