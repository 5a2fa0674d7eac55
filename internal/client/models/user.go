// Package models holds the client-side views of the remote user collection.
package models

import "fmt"

// User is a remote-owned user record. ID is assigned by the remote service
// and is never invented or renumbered locally.
type User struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

// UserUpdate carries the editable fields only. It has no ID or Avatar, so an
// update request body can never include them.
type UserUpdate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// UpdateFrom prefills an update with the current values of u.
func UpdateFrom(u User) UserUpdate {
	return UserUpdate{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

// UpdateAck is the remote acknowledgement of an update, returned as sent by
// the server and never merged with local state.
type UpdateAck struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
