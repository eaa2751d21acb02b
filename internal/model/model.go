package model

import "time"

// Role is the privilege level of an account.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// Account is the authenticated owner of a set of contacts. Only the fields needed for ownership
// and access checks are loaded.
type Account struct {
	Id        int64  `json:"id"        db:"id"`
	Username  string `json:"username"  db:"username"`
	Email     string `json:"email"     db:"email"`
	Role      Role   `json:"role"      db:"role"`
	Confirmed bool   `json:"confirmed" db:"confirmed"`
}

// Summary returns the part of the account that is shown next to a contact.
func (a Account) Summary() *AccountSummary {
	return &AccountSummary{Id: a.Id, Username: a.Username, Email: a.Email}
}

// AccountSummary is the owner reference embedded in contact responses.
type AccountSummary struct {
	Id       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ContactFields holds the editable values of a contact. Create and update both require the full
// set; there is no partial update.
type ContactFields struct {
	FirstName      string `json:"first_name"      db:"first_name"      validate:"required,min=2,max=20"`
	LastName       string `json:"last_name"       db:"last_name"       validate:"required,min=2,max=20"`
	Email          string `json:"email"           db:"email"           validate:"required,min=1,max=50"`
	PhoneNumber    string `json:"phone_number"    db:"phone_number"    validate:"required,min=8,max=13"`
	Birthday       Date   `json:"birthday"        db:"birthday"        validate:"required,pastdate"`
	AdditionalInfo string `json:"additional_info" db:"additional_info" validate:"max=200"`
}

// Contact is the data structure for a person that we know.
type Contact struct {
	Id int64 `json:"id" db:"id"`
	ContactFields
	CreatedAt time.Time       `json:"created_at"     db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"     db:"updated_at"`
	OwnerId   *int64          `json:"owner_id"       db:"owner_id"`
	Owner     *AccountSummary `json:"user,omitempty" db:"-"`
}
