package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lumos-Labs-HQ/gymseed/internal/auth"
	"github.com/Lumos-Labs-HQ/gymseed/internal/types"
	"github.com/fatih/color"
)

const adminAuthorisation = "all"

// IdentityGenerator creates users together with their role link and the
// subtype row of that role.
type IdentityGenerator struct {
	tx     Tx
	gen    *DataGenerator
	hasher auth.Hasher
	opts   Options
	roster *Roster
	seq    map[types.Role]int
}

func NewIdentityGenerator(tx Tx, gen *DataGenerator, hasher auth.Hasher, opts Options, roster *Roster) *IdentityGenerator {
	return &IdentityGenerator{
		tx:     tx,
		gen:    gen,
		hasher: hasher,
		opts:   opts,
		roster: roster,
		seq:    make(map[types.Role]int),
	}
}

// SeedDemo creates the fixed demo accounts. They are written before any
// random identity, so they hold the lowest ids of their role.
func (g *IdentityGenerator) SeedDemo(ctx context.Context, demos []DemoUser) error {
	for _, d := range demos {
		g.gen.Reserve(d.Email, d.Phone)
	}

	for _, d := range demos {
		u := types.User{
			FirstName: d.FirstName,
			LastName:  d.LastName,
			Email:     d.Email,
			Phone:     d.Phone,
			Role:      d.Role,
		}
		id, created, err := g.create(ctx, u, g.opts.DemoPassword, nil)
		if err != nil {
			return fmt.Errorf("demo user %s: %w", d.Email, err)
		}
		g.roster.add(d.Role, id, true, created)
	}
	return nil
}

// Generate creates count random identities of role and returns their ids
// in creation order.
func (g *IdentityGenerator) Generate(ctx context.Context, role types.Role, count int) ([]int64, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		fresh := func() types.User { return g.random(role) }
		id, created, err := g.create(ctx, fresh(), g.gen.Password(), fresh)
		if err != nil {
			return ids, fmt.Errorf("%s %d/%d: %w", role, i+1, count, err)
		}
		g.roster.add(role, id, false, created)
		ids = append(ids, id)
	}
	return ids, nil
}

func (g *IdentityGenerator) random(role types.Role) types.User {
	u := types.User{
		FirstName: g.gen.FirstName(),
		LastName:  g.gen.LastName(),
		Phone:     g.gen.Phone(),
		Role:      role,
	}
	if g.opts.Mode == ModeAdditive {
		g.seq[role]++
		u.Email = g.gen.OrdinalEmail(string(role), g.seq[role], g.opts.EmailDomain)
	} else {
		u.Email = g.gen.Email(u.FirstName, u.LastName, g.opts.EmailDomain)
	}
	return u
}

// create writes u, its role link and its profile. In full-reset mode a
// duplicate email is regenerated through fresh; a nil fresh makes it fatal.
// In additive mode an existing user is resolved by email instead.
func (g *IdentityGenerator) create(ctx context.Context, u types.User, password string, fresh func() types.User) (int64, bool, error) {
	hash, err := g.hasher.Hash(password)
	if err != nil {
		return 0, false, fmt.Errorf("failed to hash password: %w", err)
	}
	policy := g.opts.Mode.Policy()

	var created bool
	for attempt := 1; ; attempt++ {
		u.PasswordHash = hash
		created, err = g.tx.CreateUser(ctx, &u, policy)
		if err == nil {
			break
		}
		if !errors.Is(err, types.ErrDuplicate) || fresh == nil || attempt >= g.opts.MaxAttempts {
			return 0, false, err
		}
		color.Yellow("  ⚠️  %s already taken, regenerating", u.Email)
		u = fresh()
	}

	if !created {
		existing, err := g.tx.FindUserByEmail(ctx, u.Email)
		if err != nil {
			return 0, false, err
		}
		u.ID = existing.ID
	}

	if _, err := g.tx.AssignRole(ctx, u.ID, u.Role, policy); err != nil {
		return 0, false, err
	}
	if _, err := g.tx.CreateProfile(ctx, g.profile(u), policy); err != nil {
		return 0, false, err
	}
	return u.ID, created, nil
}

func (g *IdentityGenerator) profile(u types.User) types.Profile {
	p := types.Profile{UserID: u.ID, Role: u.Role}
	switch u.Role {
	case types.RoleAdmin:
		p.Authorisation = adminAuthorisation
	case types.RoleCoach:
		p.Bio = g.gen.Sentence(12)
	case types.RoleMember:
		p.Status = types.MembershipApproved
		p.Credits = g.gen.Between(g.opts.CreditsMin, g.opts.CreditsMax)
	}
	return p
}
