package service

import "golang.org/x/crypto/bcrypt"

// hashPassword produces a salted bcrypt hash of the secret.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword reports whether the submitted secret matches the stored
// hash. bcrypt's comparison is constant-time over the hash; failure is a
// plain boolean outcome, never an error.
func verifyPassword(submitted, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(submitted)) == nil
}
