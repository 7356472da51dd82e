package password

import "golang.org/x/crypto/bcrypt"

type Hasher interface {
	Hash(plain string) (string, error)
	Compare(hash string, plain string) bool
}

type BcryptHasher struct {
	cost int
}

// NewBcryptHasher cost <= 0 時使用 bcrypt.DefaultCost
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Compare(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

var _ Hasher = (*BcryptHasher)(nil)
