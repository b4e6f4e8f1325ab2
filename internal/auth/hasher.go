package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a raw password with bcrypt.
func HashPassword(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a bcrypt hash against a raw password.
func CheckPassword(hashed, raw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(raw))
}

// BcryptHasher satisfies the promotion engine's credential hashing
// dependency.
type BcryptHasher struct{}

func (BcryptHasher) Hash(raw string) (string, error) {
	return HashPassword(raw)
}
