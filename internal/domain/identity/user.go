package identity

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/menuhub/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is what a user may do
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// Password cost for bcrypt
const bcryptCost = 12

const maxUserNameLength = 50

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is an account allowed to manage the menu
type User struct {
	shared.BaseEntity
	Name         string
	Email        string
	PasswordHash string
	Role         Role
}

// NewUser creates a staff user with a hashed password
func NewUser(name, email, password string, now time.Time) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Please add a name")
	}
	if utf8.RuneCountInString(name) > maxUserNameLength {
		return nil, shared.NewValidationError("Name cannot be more than %d characters", maxUserNameLength)
	}
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(now),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         RoleStaff,
	}, nil
}

// VerifyPassword reports whether password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Promote grants the admin role
func (u *User) Promote(now time.Time) {
	u.Role = RoleAdmin
	u.Touch(now)
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewValidationError("Please add an email")
	}
	if len(email) > 200 || !emailRegex.MatchString(email) {
		return shared.NewValidationError("Please add a valid email")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return shared.NewValidationError("Password must be at least 6 characters")
	}
	if len(password) > 72 {
		return shared.NewValidationError("Password cannot exceed 72 characters")
	}
	return nil
}
