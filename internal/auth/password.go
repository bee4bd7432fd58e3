package auth

import "golang.org/x/crypto/bcrypt"

// Hasher turns a clear-text password into the opaque value stored in
// users.password_hash.
type Hasher interface {
	Hash(clear string) (string, error)
}

// BcryptHasher hashes with bcrypt at Cost. A zero Cost uses bcrypt.DefaultCost.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(clear string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(clear), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
