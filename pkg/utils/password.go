package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword возвращает bcrypt-хеш пароля партнёра.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("не удалось хешировать пароль: %w", err)
	}
	return string(hashed), nil
}

func ComparePasswords(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
