package domain

import (
	"errors"
	"regexp"
	"strings"

	"github.com/farmart-ke/farmart-api/internal/shared/access"
)

var (
	ErrEmptyUsername = errors.New("username is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrWeakPassword  = errors.New("password must be at least 8 characters")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrInvalidRole   = errors.New("role must be BUYER or FARMER")
	ErrInvalidPhone  = errors.New("phone number must be 9 to 15 digits, optionally prefixed with '+'")
)

var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// User is a marketplace account: a buyer or a farmer, optionally staff.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         access.Role
	Staff        bool
	Phone        string
	Location     string
}

// NewUser builds a user ensuring required invariants. The password hash is
// supplied by the application layer; the domain never sees plaintext.
func NewUser(username, email, passwordHash string, role access.Role, phone, location string) (*User, error) {
	user := &User{PasswordHash: passwordHash}
	if err := user.SetUsername(username); err != nil {
		return nil, err
	}
	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	if err := user.SetRole(role); err != nil {
		return nil, err
	}
	if err := user.SetPhone(phone); err != nil {
		return nil, err
	}
	user.Location = strings.TrimSpace(location)
	return user, nil
}

// SetUsername trims and validates the username.
func (u *User) SetUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	u.Username = username
	return nil
}

// SetEmail validates the email when present.
func (u *User) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if email != "" && !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

// SetRole restricts the account to the closed role set.
func (u *User) SetRole(role access.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	u.Role = role
	return nil
}

// SetPhone validates the marketplace phone format.
func (u *User) SetPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	u.Phone = phone
	return nil
}

// ValidatePassword enforces plaintext password strength before hashing.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrEmptyPassword
	}
	if len(password) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Actor projects the account into the access-control view of the caller.
func (u *User) Actor() access.Actor {
	return access.Actor{ID: u.ID, Role: u.Role, Staff: u.Staff}
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if err := u.SetUsername(u.Username); err != nil {
		return err
	}
	if err := u.SetEmail(u.Email); err != nil {
		return err
	}
	if err := u.SetRole(u.Role); err != nil {
		return err
	}
	return u.SetPhone(u.Phone)
}
