// Package model defines the data structures shared across the application.
package model

import "time"

// User is a registered account as stored in the users collection.
//
// The password hash never leaves the repository layer in API responses;
// handlers return PublicUser instead. Users are never physically deleted;
// the record only mutates on login (LastLogin, LoginCount and the two
// last-login fields).
type User struct {
	ID                    string     `bson:"_id" json:"id"`
	Email                 string     `bson:"email" json:"email"`
	PasswordHash          string     `bson:"password_hash" json:"-"`
	Name                  string     `bson:"name,omitempty" json:"name,omitempty"`
	IsAdmin               bool       `bson:"is_admin" json:"is_admin"`
	CreatedAt             time.Time  `bson:"created_at" json:"created_at"`
	LastLogin             *time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
	LastLoginIP           string     `bson:"last_login_ip,omitempty" json:"last_login_ip,omitempty"`
	LastLoginUserAgent    string     `bson:"last_login_user_agent,omitempty" json:"last_login_user_agent,omitempty"`
	RegistrationIP        string     `bson:"registration_ip,omitempty" json:"registration_ip,omitempty"`
	RegistrationUserAgent string     `bson:"registration_user_agent,omitempty" json:"registration_user_agent,omitempty"`
	LoginCount            int64      `bson:"login_count" json:"login_count"`
}

// PublicUser is the view of a user returned by the auth endpoints.
type PublicUser struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name,omitempty"`
	IsAdmin   bool       `json:"is_admin"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// Public strips the fields that must not be exposed to clients.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

// LoginInfo carries the fields written to a user record on a successful
// login.
type LoginInfo struct {
	At        time.Time
	IP        string
	UserAgent string
}

// UserEvent is one entry in the user event log, appended on registration
// and on every successful login. Entries are immutable.
type UserEvent struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	EventType string    `bson:"event_type" json:"event_type"` // "registration" or "login"
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	IPAddress string    `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	UserAgent string    `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
}

const (
	EventRegistration = "registration"
	EventLogin        = "login"
)
