package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	apperrors "hr-system/pkg/errors"
)

// PasswordCost - текущая стоимость bcrypt. Хеши с меньшей стоимостью
// пересчитываются при следующем успешном входе.
const PasswordCost = 12

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperrors.NewValidationError("Пароль длиннее 72 байт")
	}
	if err != nil {
		return "", fmt.Errorf("не удалось хешировать пароль: %w", err)
	}
	return string(bytes), nil
}

// ComparePasswords: несовпадение -> ErrInvalidCredentials, битый хеш -> обернутая ошибка bcrypt.
func ComparePasswords(hashedPassword string, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("не удалось проверить пароль: %w", err)
	}
	return nil
}

func NeedsRehash(hashedPassword string) bool {
	cost, err := bcrypt.Cost([]byte(hashedPassword))
	return err != nil || cost < PasswordCost
}
