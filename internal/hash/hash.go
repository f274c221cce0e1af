package hash

import "golang.org/x/crypto/bcrypt"

// Cost is the bcrypt work factor used for every stored password.
const Cost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
// bcrypt compares digests in constant time.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
