package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/personal-contacts/internal/model"
)

// fixedNow pins "today" to 19 October 2026.
func fixedNow() time.Time {
	return time.Date(2026, time.October, 19, 15, 30, 0, 0, time.UTC)
}

func validFields() model.ContactFields {
	return model.ContactFields{
		FirstName:      "Ann",
		LastName:       "Lee",
		Email:          "a@x.com",
		PhoneNumber:    "12345678",
		Birthday:       model.NewDate(2000, time.January, 1),
		AdditionalInfo: "",
	}
}

// fieldNames extracts the names of all fields that failed validation.
func fieldNames(errs []FieldError) []string {
	names := make([]string, 0, len(errs))
	for _, e := range errs {
		names = append(names, e.Field)
	}
	return names
}

// TestValidContact expects that a payload within all constraints passes.
func TestValidContact(t *testing.T) {
	errs, err := New(fixedNow).Contact(validFields())
	require.NoError(t, err)
	assert.Empty(t, errs)
}

// TestEmailFormatIsNotChecked expects that any non-empty string up to 50 characters is accepted
// as email address.
func TestEmailFormatIsNotChecked(t *testing.T) {
	fields := validFields()
	fields.Email = "not an email"
	errs, err := New(fixedNow).Contact(fields)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

// TestInvalidContacts runs payloads that each violate exactly one constraint.
func TestInvalidContacts(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f *model.ContactFields)
		field  string
	}{
		{"first name too short", func(f *model.ContactFields) { f.FirstName = "A" }, "first_name"},
		{"first name too long", func(f *model.ContactFields) { f.FirstName = "Abcdefghijklmnopqrstu" }, "first_name"},
		{"last name missing", func(f *model.ContactFields) { f.LastName = "" }, "last_name"},
		{"email missing", func(f *model.ContactFields) { f.Email = "" }, "email"},
		{"email too long", func(f *model.ContactFields) { f.Email = string(make([]byte, 51)) }, "email"},
		{"phone too short", func(f *model.ContactFields) { f.PhoneNumber = "1234567" }, "phone_number"},
		{"phone too long", func(f *model.ContactFields) { f.PhoneNumber = "12345678901234" }, "phone_number"},
		{"birthday missing", func(f *model.ContactFields) { f.Birthday = model.Date{} }, "birthday"},
		{"birthday today", func(f *model.ContactFields) { f.Birthday = model.NewDate(2026, time.October, 19) }, "birthday"},
		{"birthday in future", func(f *model.ContactFields) { f.Birthday = model.NewDate(2030, time.May, 1) }, "birthday"},
		{"additional info too long", func(f *model.ContactFields) { f.AdditionalInfo = string(make([]byte, 201)) }, "additional_info"},
	}
	v := New(fixedNow)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validFields()
			tt.modify(&fields)
			errs, err := v.Contact(fields)
			require.NoError(t, err)
			assert.Equal(t, []string{tt.field}, fieldNames(errs))
		})
	}
}

// TestBirthdayYesterday expects that the day before today counts as past.
func TestBirthdayYesterday(t *testing.T) {
	fields := validFields()
	fields.Birthday = model.NewDate(2026, time.October, 18)
	errs, err := New(fixedNow).Contact(fields)
	require.NoError(t, err)
	assert.Empty(t, errs)
}
