package hash

import "golang.org/x/crypto/bcrypt"

// dummyHash is compared against when the user does not exist so both branches cost one bcrypt run.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("quickcart-dummy-password"), bcrypt.DefaultCost)

func HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func BurnCompare(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
