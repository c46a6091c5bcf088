package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashCredential hashes the configured API password using bcrypt. The hash is
// computed once at startup so token requests never see the plain credential.
func HashCredential(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckCredential compares a submitted password with the bcrypt hash.
func CheckCredential(plain, hashed string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}
