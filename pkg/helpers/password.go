package helpers

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash (default cost) from a plain-text password.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CompareHashAndPassword reports whether plain matches the stored bcrypt hash.
func CompareHashAndPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
