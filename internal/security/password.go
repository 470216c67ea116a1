package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the cost the provisioning tooling has always used.
const DefaultBcryptCost = 12

// Hasher wraps bcrypt with a fixed work factor.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(password string) ([]byte, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return digest, nil
}

// Verify reports whether password matches digest. bcrypt's comparison is
// constant-time over the digest contents.
func (h *Hasher) Verify(password string, digest []byte) bool {
	return bcrypt.CompareHashAndPassword(digest, []byte(password)) == nil
}

// dummyDigest is a throwaway bcrypt digest (cost 12) of an unguessable value.
// It exists only to give DummyVerify a realistic comparison target.
var dummyDigest = []byte("$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW")

// DummyVerify burns one bcrypt comparison so the caller's failure path costs
// the same whether or not the looked-up account exists.
func (h *Hasher) DummyVerify(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyDigest, []byte(password))
}
