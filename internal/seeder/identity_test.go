package seeder

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/Lumos-Labs-HQ/gymseed/internal/types"
)

type plainHasher struct{}

func (plainHasher) Hash(clear string) (string, error) {
	return "plain:" + clear, nil
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) {
	return "", errors.New("hasher unavailable")
}

func testOptions(mode Mode) Options {
	opts := DefaultOptions()
	opts.Mode = mode
	opts.Clear = mode.DefaultClear()
	return opts
}

func newIdentityGen(t *testing.T, store *memStore, opts Options) (*IdentityGenerator, *memTx, *Roster) {
	t.Helper()
	tx, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	roster := NewRoster()
	gen := NewDataGenerator(rand.New(rand.NewSource(5)))
	return NewIdentityGenerator(tx, gen, plainHasher{}, opts, roster), tx.(*memTx), roster
}

func TestIdentityRoleSubtypeOneToOne(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	ig, tx, roster := newIdentityGen(t, store, testOptions(ModeFullReset))

	if err := ig.SeedDemo(ctx, DefaultDemoUsers()); err != nil {
		t.Fatalf("SeedDemo failed: %v", err)
	}
	for _, role := range types.Roles {
		if _, err := ig.Generate(ctx, role, 4); err != nil {
			t.Fatalf("Generate(%s) failed: %v", role, err)
		}
	}

	if len(tx.s.users) != 5+4*len(types.Roles) {
		t.Fatalf("Expected %d users, got %d", 5+4*len(types.Roles), len(tx.s.users))
	}

	for id, u := range tx.s.users {
		roles := tx.s.roles[id]
		if len(roles) != 1 {
			t.Errorf("User %d has %d roles, want 1", id, len(roles))
			continue
		}
		subtypes := 0
		for role, profiles := range tx.s.profiles {
			if p, ok := profiles[id]; ok {
				subtypes++
				if !roles[role] {
					t.Errorf("User %d has a %s row but role %v", id, role, roles)
				}
				checkProfile(t, p)
			}
		}
		if subtypes != 1 {
			t.Errorf("User %d has %d subtype rows, want 1", id, subtypes)
		}
		if !strings.HasPrefix(u.PasswordHash, "plain:") {
			t.Errorf("User %d password was not hashed: %q", id, u.PasswordHash)
		}
	}

	for role, profiles := range tx.s.profiles {
		for id := range profiles {
			if _, ok := tx.s.users[id]; !ok {
				t.Errorf("Orphan %s row for user %d", role, id)
			}
		}
	}

	if got := len(roster.IDs[types.RoleMember]); got != 6 {
		t.Errorf("Expected 6 member ids, got %d", got)
	}
}

func checkProfile(t *testing.T, p types.Profile) {
	t.Helper()
	switch p.Role {
	case types.RoleAdmin:
		if p.Authorisation != "all" {
			t.Errorf("Expected admin authorisation 'all', got %q", p.Authorisation)
		}
	case types.RoleCoach:
		if len(strings.Fields(p.Bio)) != 12 {
			t.Errorf("Expected a 12-word bio, got %q", p.Bio)
		}
	case types.RoleMember:
		if p.Status != types.MembershipApproved {
			t.Errorf("Expected member status approved, got %q", p.Status)
		}
		if p.Credits < 5 || p.Credits > 20 {
			t.Errorf("Expected credits in [5, 20], got %d", p.Credits)
		}
	}
}

func TestDemoIdentitiesHoldLowestIDs(t *testing.T) {
	ctx := context.Background()
	ig, _, roster := newIdentityGen(t, newMemStore(), testOptions(ModeFullReset))

	if err := ig.SeedDemo(ctx, DefaultDemoUsers()); err != nil {
		t.Fatalf("SeedDemo failed: %v", err)
	}
	if _, err := ig.Generate(ctx, types.RoleMember, 10); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	demo := roster.Demo[types.RoleMember]
	if len(demo) != 2 {
		t.Fatalf("Expected 2 demo members, got %v", demo)
	}
	for _, id := range roster.IDs[types.RoleMember] {
		if contains(demo, id) {
			continue
		}
		for _, d := range demo {
			if id < d {
				t.Errorf("Random member %d has a lower id than demo member %d", id, d)
			}
		}
	}
}

func TestIdentityRetriesDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	opts := testOptions(ModeFullReset)

	// Same seed as newIdentityGen, so the first generated email is known.
	probe := NewDataGenerator(rand.New(rand.NewSource(5)))
	first := probe.Email(probe.FirstName(), probe.LastName(), opts.EmailDomain)
	store.takenEmails[first] = true

	ig, tx, _ := newIdentityGen(t, store, opts)
	ids, err := ig.Generate(ctx, types.RoleCoach, 1)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("Expected 1 coach, got %d", len(ids))
	}
	if tx.s.users[ids[0]].Email == first {
		t.Errorf("Expected a regenerated email, got %s again", first)
	}
	if store.takenEmails[first] {
		t.Error("Expected the duplicate to have been hit")
	}
}

func TestDemoDuplicateIsFatalInFullReset(t *testing.T) {
	store := newMemStore()
	store.takenEmails["alice.admin@example.com"] = true
	ig, _, _ := newIdentityGen(t, store, testOptions(ModeFullReset))

	err := ig.SeedDemo(context.Background(), DefaultDemoUsers())
	if !errors.Is(err, types.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate for a taken demo email, got %v", err)
	}
}

func TestIdentityAdditiveSkipsExisting(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	opts := testOptions(ModeAdditive)

	for run := 1; run <= 2; run++ {
		ig, tx, roster := newIdentityGen(t, store, opts)
		if err := ig.SeedDemo(ctx, DefaultDemoUsers()); err != nil {
			t.Fatalf("run %d: SeedDemo failed: %v", run, err)
		}
		if _, err := ig.Generate(ctx, types.RoleMember, 3); err != nil {
			t.Fatalf("run %d: Generate failed: %v", run, err)
		}
		if len(tx.s.users) != 8 {
			t.Errorf("run %d: Expected 8 users, got %d", run, len(tx.s.users))
		}

		wantCreated := 0
		if run == 1 {
			wantCreated = 5
		}
		if roster.Created[types.RoleMember] != wantCreated {
			t.Errorf("run %d: Expected %d new members, got %d", run, wantCreated, roster.Created[types.RoleMember])
		}
		if len(roster.IDs[types.RoleMember]) != 5 {
			t.Errorf("run %d: Expected 5 member ids, got %d", run, len(roster.IDs[types.RoleMember]))
		}
		if err := tx.Commit(ctx); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
	}
}

func TestIdentityHasherFailure(t *testing.T) {
	tx, _ := newMemStore().Begin(context.Background())
	gen := NewDataGenerator(rand.New(rand.NewSource(1)))
	ig := NewIdentityGenerator(tx, gen, failingHasher{}, testOptions(ModeFullReset), NewRoster())

	if _, err := ig.Generate(context.Background(), types.RoleMember, 1); err == nil {
		t.Error("Expected hasher error to surface")
	}
}
