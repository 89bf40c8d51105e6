package models

import (
	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Valid reports whether the role is one of the known role values.
func (r Role) Valid() bool {
	return r == RoleDoctor || r == RolePatient
}

// User represents a user in the system, keyed by lowercase email.
type User struct {
	Email          string `dynamodbav:"email"`
	Name           string `dynamodbav:"name"`
	Password       string `dynamodbav:"password"` // bcrypt hash, never plaintext
	Age            string `dynamodbav:"age"`
	Gender         string `dynamodbav:"gender"`
	Role           Role   `dynamodbav:"role"`
	Specialization string `dynamodbav:"specialization,omitempty"`
	CreatedAt      string `dynamodbav:"created_at"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
