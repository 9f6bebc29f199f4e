package models

import "time"

// User is a server-side account. PasswordHash never leaves the server;
// Password is only populated on inbound register/login requests.
type User struct {
	ID           int64      `json:"id,omitempty"`
	Login        string     `json:"login"`
	Password     string     `json:"password,omitempty"`
	PasswordHash string     `json:"-"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}
