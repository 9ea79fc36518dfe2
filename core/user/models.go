package user

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"
)

// Roles
const (
	RoleAdmin      = "admin:"
	RoleAdminOwner = "admin:owner"

	RoleExpert = "expert:"

	RoleMember = "member:"
)

var (
	AdminRoles = []string{RoleAdmin, RoleAdminOwner}
	AllRoles   = append(AdminRoles, RoleExpert, RoleMember)

	ErrNotFound = errors.New("user not found")
)

type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Username     string    `json:"username" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	IsActive     bool      `json:"is_active"`
	Roles        []string  `json:"roles"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    null.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) SetActive(active bool) {
	u.IsActive = active
}

func (u User) IsAdmin() bool {
	for _, role := range u.Roles {
		for _, adm := range AdminRoles {
			if role == adm {
				return true
			}
		}
	}
	return false
}

type (
	GetFilter struct {
		ID              string
		UsernameOrEmail []string
	}

	Repository interface {
		GetUser(ctx context.Context, filter GetFilter) (User, error)
		// UpdateOrCreateUser matches on username or email and creates the
		// user when no match exists.
		UpdateOrCreateUser(ctx context.Context, usr User) (User, error)
	}
)
