// Package model contains the JSON shapes of the contacts REST API for use by clients.
package model

import "time"

// ContactRequest is the body of a POST or PUT request. All fields are required; the birthday is
// formatted as "2006-01-02".
type ContactRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	Birthday       string `json:"birthday"`
	AdditionalInfo string `json:"additional_info"`
}

// Owner is the account a contact belongs to.
type Owner struct {
	Id       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Contact is a contact as returned by the service.
type Contact struct {
	Id int64 `json:"id"`
	ContactRequest
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	OwnerId   *int64    `json:"owner_id"`
	Owner     *Owner    `json:"user,omitempty"`
}
