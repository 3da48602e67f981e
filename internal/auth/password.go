package auth

import "golang.org/x/crypto/bcrypt"

// MinPasswordLen is the minimum accepted plaintext length, enforced by
// the signup handler rather than the hasher.
const MinPasswordLen = 6

// HashPassword derives a salted bcrypt hash from the plaintext. The
// salt is random per call, so hashing the same password twice yields
// different strings.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
// A wrong password and a malformed stored hash both come back false;
// neither is distinguishable to the caller, which keeps login failures
// generic.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
