package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func matches(hash, clear string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(clear)) == nil
}

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("Passw0rd!")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "Passw0rd!" {
		t.Fatal("Hash() returned the clear text")
	}
	if !matches(hash, "Passw0rd!") {
		t.Error("bcrypt rejected the hashed password")
	}
	if matches(hash, "passw0rd!") {
		t.Error("bcrypt accepted a different password")
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost() error = %v", err)
	}
	if cost != bcrypt.MinCost {
		t.Errorf("cost = %d, want %d", cost, bcrypt.MinCost)
	}
}

func TestBcryptHasherDefaultCost(t *testing.T) {
	hash, err := BcryptHasher{}.Hash("secret")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	cost, _ := bcrypt.Cost([]byte(hash))
	if cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want %d", cost, bcrypt.DefaultCost)
	}
}
