package user

//go:generate mockgen -source=credentials.go -destination=../../mocks/user/mock_credentials.go -package=mock_user

import (
	"time"

	"github.com/google/uuid"
)

// Identity - данные пользователя, которые переносит токен доступа.
type Identity struct {
	UserID     uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	SkillLevel string    `json:"skill_level"`
}

// Identity возвращает данные пользователя для токена.
func (u *User) Identity() Identity {
	return Identity{
		UserID:     u.ID,
		Email:      u.Email,
		Name:       u.Name,
		SkillLevel: string(u.SkillLevel),
	}
}

// PasswordHasher хэширует и проверяет пароли.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify возвращает false без ошибки, если пароль не совпал.
	Verify(hash, password string) (bool, error)
}

// TokenIssuer выпускает токены доступа.
type TokenIssuer interface {
	Issue(id Identity) (token string, expiresAt time.Time, err error)
}
