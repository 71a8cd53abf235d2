package utils

import (
  "fmt"
  "strings"

  "golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
  hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
  if err != nil {
    return "", fmt.Errorf("failed to hash password: %w", err)
  }
  return string(hashed), nil
}

func CheckPassword(hashed, password string) error {
  return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
}

func NormalizeEmail(email string) string {
  return strings.ToLower(strings.TrimSpace(email))
}
