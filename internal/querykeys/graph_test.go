package querykeys

import (
	"context"
	"testing"
	"time"

	"petcast-web/internal/querycache"
)

func targetSet(ts []querycache.Target) map[string]bool {
	out := make(map[string]bool, len(ts))
	for _, t := range ts {
		k := t.Key.String()
		if t.Prefix {
			k += "/*"
		}
		out[k] = true
	}
	return out
}

func TestAffected_PetUpdate(t *testing.T) {
	got := targetSet(Affected(Change{
		Resource: ResourcePet,
		ID:       "7",
		Scopes:   map[string]string{ScopeOwner: "3"},
	}))

	for _, k := range []string{"pets", "pets/7", "pets/owner/3", "statistics/*"} {
		if !got[k] {
			t.Fatalf("expected %q in affected set %v", k, got)
		}
	}
	if got["pets/owner/4"] || got["pets/*"] {
		t.Fatalf("unexpected broad invalidation %v", got)
	}
}

func TestAffected_PetMovedBetweenOwners(t *testing.T) {
	got := targetSet(Affected(Change{
		Resource: ResourcePet,
		ID:       "7",
		Scopes:   map[string]string{ScopeOwner: "3", ScopePreviousOwner: "4"},
	}))
	if !got["pets/owner/3"] || !got["pets/owner/4"] {
		t.Fatalf("both owners' lists must be invalidated, got %v", got)
	}
}

func TestAffected_MissingScopeFallsBackToFamily(t *testing.T) {
	got := targetSet(Affected(Change{Resource: ResourceAppointment, ID: "5", Scopes: map[string]string{ScopeOwner: "3"}}))
	if !got["appointments"] || !got["appointments/today"] || !got["appointments/status/*"] {
		t.Fatalf("unscoped lists must always be invalidated, got %v", got)
	}
	if !got["appointments/owner/3"] || got["appointments/owner/*"] {
		t.Fatalf("known owner must be invalidated exactly, got %v", got)
	}
	if !got["appointments/pet/*"] || !got["appointments/vet/*"] {
		t.Fatalf("unknown pet and vet must invalidate their whole family, got %v", got)
	}
	for k := range got {
		if k == "appointments/" || k == "appointments/pet/" || k == "appointments/owner/" {
			t.Fatalf("empty scope produced key %q", k)
		}
	}
}

func TestAffected_UnknownOwnerReachesEveryOwnerList(t *testing.T) {
	c := querycache.New(querycache.Options{StaleTime: time.Minute})
	for _, k := range []Key{Pets(), PetsByOwner("3"), PetsByOwner("4"), MedicalRecordsByPet("7")} {
		querycache.Use(context.Background(), c, querycache.Query[int]{
			Key: k, Enabled: true,
			Fetch: func(context.Context) (int, error) { return 1, nil },
		})
	}

	c.Invalidate(Affected(Change{Resource: ResourcePet, ID: "9"})...)

	for _, k := range []Key{Pets(), PetsByOwner("3"), PetsByOwner("4")} {
		if info, _ := c.Inspect(k); !info.Invalidated {
			t.Fatalf("expected %s invalidated", k)
		}
	}
	if info, _ := c.Inspect(MedicalRecordsByPet("7")); info.Invalidated {
		t.Fatalf("other resources must stay fresh")
	}
}

func TestAffected_Deduplicates(t *testing.T) {
	ts := Affected(
		Change{Resource: ResourceAppointment, ID: "1", Scopes: map[string]string{ScopeOwner: "3"}},
		Change{Resource: ResourceAppointment, ID: "1", Scopes: map[string]string{ScopeOwner: "3"}},
	)
	if len(ts) != len(targetSet(ts)) {
		t.Fatalf("duplicated targets: %v", ts)
	}
}

func TestGraph_EveryResourceHasDependents(t *testing.T) {
	for _, r := range []Resource{
		ResourceOwner, ResourceVet, ResourcePet, ResourceMedicalRecord,
		ResourceReminder, ResourceAppointment, ResourceWhatsApp,
	} {
		if len(Affected(Change{Resource: r, ID: "1"})) == 0 {
			t.Fatalf("resource %q has no declared dependents", r)
		}
	}
}

func TestAffected_AppliedToCache(t *testing.T) {
	c := querycache.New(querycache.Options{StaleTime: time.Minute})
	for _, k := range []Key{Pets(), Pet("7"), PetsByOwner("3"), PetsByOwner("4"), Appointments()} {
		querycache.Use(context.Background(), c, querycache.Query[int]{
			Key: k, Enabled: true,
			Fetch: func(context.Context) (int, error) { return 1, nil },
		})
	}

	c.Invalidate(Affected(Change{Resource: ResourcePet, ID: "7", Scopes: map[string]string{ScopeOwner: "3"}})...)

	stale := map[string]bool{"pets": true, "pets/7": true, "pets/owner/3": true}
	for _, info := range c.Entries(Key{}) {
		if info.Invalidated != stale[info.Key] {
			t.Fatalf("key %s: invalidated=%v, want %v", info.Key, info.Invalidated, stale[info.Key])
		}
	}
}
