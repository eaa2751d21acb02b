// Package repository implements the contact access layer. Every operation that works on behalf of
// an account takes that account explicitly and adds "owner_id = account id" to its query, so an
// account can neither see nor change the contacts of another account.
//
// The package does not log. Failures are returned to the caller and can be told apart with
// errors.Is and errors.As: ErrNotFound, ErrStoreUnavailable, ErrConstraintViolation and
// *ValidationError.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/personal-contacts/internal/model"
	"gitlab.com/dirk.krummacker/personal-contacts/internal/validation"
)

// contactColumns lists the columns of the contacts table in the order of model.Contact.
const contactColumns = `id, first_name, last_name, email, phone_number, birthday, additional_info,
	created_at, updated_at, owner_id`

// likeEscaper escapes the wildcard characters of a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContactRepository gives access to the contacts table.
type ContactRepository struct {
	db        *sqlx.DB
	now       func() time.Time
	validator *validation.Validator

	// Prepared statements offer a significant speed increase if executed many times.
	insert                *sqlx.NamedStmt
	selectWhereIdAndOwner *sqlx.Stmt
	updateWhereIdAndOwner *sqlx.NamedStmt
	deleteWhereIdAndOwner *sqlx.Stmt
}

// Option configures a ContactRepository.
type Option func(*ContactRepository)

// WithClock replaces time.Now as the source of the current time. It determines creation and
// update timestamps, the earliest invalid birthday and the upcoming birthdays window.
func WithClock(now func() time.Time) Option {
	return func(r *ContactRepository) {
		r.now = now
	}
}

// NewContactRepository prepares all statements on db. The database argument can be a real
// database for production use or a mock database within unit tests.
func NewContactRepository(db *sqlx.DB, opts ...Option) (*ContactRepository, error) {
	r := &ContactRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	r.validator = validation.New(r.now)

	var err error
	r.insert, err = db.PrepareNamed(`
		INSERT INTO contacts (first_name, last_name, email, phone_number, birthday, additional_info,
			created_at, updated_at, owner_id)
		VALUES (:first_name, :last_name, :email, :phone_number, :birthday, :additional_info,
			:created_at, :updated_at, :owner_id)
	`)
	if err != nil {
		return nil, storeError("prepare insert", err)
	}
	r.selectWhereIdAndOwner, err = db.Preparex(`
		SELECT ` + contactColumns + ` FROM contacts WHERE id = ? AND owner_id = ?
	`)
	if err != nil {
		return nil, storeError("prepare select", err)
	}
	r.updateWhereIdAndOwner, err = db.PrepareNamed(`
		UPDATE contacts
		SET first_name = :first_name, last_name = :last_name, email = :email,
			phone_number = :phone_number, birthday = :birthday, additional_info = :additional_info,
			updated_at = :updated_at
		WHERE id = :id AND owner_id = :owner_id
	`)
	if err != nil {
		return nil, storeError("prepare update", err)
	}
	r.deleteWhereIdAndOwner, err = db.Preparex(`
		DELETE FROM contacts WHERE id = ? AND owner_id = ?
	`)
	if err != nil {
		return nil, storeError("prepare delete", err)
	}
	return r, nil
}

// Close releases the prepared statements. The database handle itself is owned by the caller.
func (r *ContactRepository) Close() error {
	return errors.Join(
		r.insert.Close(),
		r.selectWhereIdAndOwner.Close(),
		r.updateWhereIdAndOwner.Close(),
		r.deleteWhereIdAndOwner.Close(),
	)
}

// currentTime returns the current time in the precision of a DATETIME(6) column.
func (r *ContactRepository) currentTime() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

// checkPage validates limit and offset of a listing.
func checkPage(limit int, offset int) error {
	if limit < 1 {
		return invalid("limit", "must be at least 1")
	}
	if offset < 0 {
		return invalid("offset", "must not be negative")
	}
	return nil
}

// checkFields validates the editable fields of a contact.
func (r *ContactRepository) checkFields(fields model.ContactFields) error {
	fieldErrors, err := r.validator.Contact(fields)
	if err != nil {
		return err
	}
	if len(fieldErrors) > 0 {
		return &ValidationError{Fields: fieldErrors}
	}
	return nil
}

// withOwner attaches the owner summary to contacts that were loaded on behalf of owner.
func withOwner(contacts []model.Contact, owner model.Account) []model.Contact {
	for i := range contacts {
		contacts[i].Owner = owner.Summary()
	}
	return contacts
}

// ListOwn returns the contacts of owner in insertion order, skipping offset rows and returning
// at most limit rows. The result is empty, not nil, if the owner has no contacts.
func (r *ContactRepository) ListOwn(ctx context.Context, owner model.Account, limit int, offset int) ([]model.Contact, error) {
	if err := checkPage(limit, offset); err != nil {
		return nil, err
	}
	contacts := []model.Contact{}
	err := r.db.SelectContext(ctx, &contacts, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE owner_id = ?
		ORDER BY id
		LIMIT ?
		OFFSET ?`, owner.Id, limit, offset)
	if err != nil {
		return nil, storeError("list contacts", err)
	}
	return withOwner(contacts, owner), nil
}

// ownedContact is a contact joined with the columns of its owner. The owner columns are NULL for
// contacts without an owner.
type ownedContact struct {
	model.Contact
	OwnerUsername sql.NullString `db:"owner_username"`
	OwnerEmail    sql.NullString `db:"owner_email"`
}

// ListAll returns the contacts of all owners, each with the summary of its owner. It does not
// check any privilege; callers must only invoke it for administrators.
func (r *ContactRepository) ListAll(ctx context.Context, limit int, offset int) ([]model.Contact, error) {
	if err := checkPage(limit, offset); err != nil {
		return nil, err
	}
	rows := []ownedContact{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT c.id, c.first_name, c.last_name, c.email, c.phone_number, c.birthday,
			c.additional_info, c.created_at, c.updated_at, c.owner_id,
			u.username AS owner_username, u.email AS owner_email
		FROM contacts c
		LEFT JOIN users u ON u.id = c.owner_id
		ORDER BY c.id
		LIMIT ?
		OFFSET ?`, limit, offset)
	if err != nil {
		return nil, storeError("list all contacts", err)
	}
	contacts := make([]model.Contact, len(rows))
	for i, row := range rows {
		contact := row.Contact
		if contact.OwnerId != nil && row.OwnerEmail.Valid {
			contact.Owner = &model.AccountSummary{
				Id:       *contact.OwnerId,
				Username: row.OwnerUsername.String,
				Email:    row.OwnerEmail.String,
			}
		}
		contacts[i] = contact
	}
	return contacts, nil
}

// GetOne returns the contact with the given id if it belongs to owner, or ErrNotFound.
func (r *ContactRepository) GetOne(ctx context.Context, owner model.Account, id int64) (model.Contact, error) {
	var contact model.Contact
	err := r.selectWhereIdAndOwner.GetContext(ctx, &contact, id, owner.Id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Contact{}, ErrNotFound
	}
	if err != nil {
		return model.Contact{}, storeError("get contact", err)
	}
	contact.Owner = owner.Summary()
	return contact, nil
}

// Search returns the contacts of owner whose first name, last name or email contains query,
// ignoring case. An empty query matches all contacts of the owner.
func (r *ContactRepository) Search(ctx context.Context, owner model.Account, query string) ([]model.Contact, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	contacts := []model.Contact{}
	err := r.db.SelectContext(ctx, &contacts, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE owner_id = ?
			AND (LOWER(first_name) LIKE ?
				OR LOWER(last_name) LIKE ?
				OR LOWER(email) LIKE ?)
		ORDER BY id`, owner.Id, pattern, pattern, pattern)
	if err != nil {
		return nil, storeError("search contacts", err)
	}
	return withOwner(contacts, owner), nil
}

// Create stores a new contact for owner and returns it including its assigned id.
func (r *ContactRepository) Create(ctx context.Context, owner model.Account, fields model.ContactFields) (model.Contact, error) {
	if err := r.checkFields(fields); err != nil {
		return model.Contact{}, err
	}
	now := r.currentTime()
	ownerId := owner.Id
	contact := model.Contact{
		ContactFields: fields,
		CreatedAt:     now,
		UpdatedAt:     now,
		OwnerId:       &ownerId,
	}
	result, err := r.insert.ExecContext(ctx, &contact)
	if err != nil {
		return model.Contact{}, storeError("insert contact", err)
	}
	contact.Id, err = result.LastInsertId()
	if err != nil {
		return model.Contact{}, storeError("insert contact", err)
	}
	contact.Owner = owner.Summary()
	return contact, nil
}

// Update replaces all editable fields of the contact with the given id if it belongs to owner.
// The returned contact carries an updated_at that is strictly later than before. If the contact
// does not exist, ErrNotFound is returned and nothing is written.
func (r *ContactRepository) Update(ctx context.Context, owner model.Account, id int64, fields model.ContactFields) (model.Contact, error) {
	if err := r.checkFields(fields); err != nil {
		return model.Contact{}, err
	}
	contact, err := r.GetOne(ctx, owner, id)
	if err != nil {
		return model.Contact{}, err
	}

	// Clocks with coarse resolution could otherwise hand out the same timestamp twice.
	now := r.currentTime()
	if !now.After(contact.UpdatedAt) {
		now = contact.UpdatedAt.Add(time.Microsecond)
	}
	contact.ContactFields = fields
	contact.UpdatedAt = now

	result, err := r.updateWhereIdAndOwner.ExecContext(ctx, &contact)
	if err != nil {
		return model.Contact{}, storeError("update contact", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return model.Contact{}, storeError("update contact", err)
	}
	if rowsAffected == 0 {
		// deleted between lookup and update
		return model.Contact{}, ErrNotFound
	}
	return contact, nil
}

// Delete removes the contact with the given id if it belongs to owner and returns its last
// state. If the contact does not exist, ErrNotFound is returned.
func (r *ContactRepository) Delete(ctx context.Context, owner model.Account, id int64) (model.Contact, error) {
	contact, err := r.GetOne(ctx, owner, id)
	if err != nil {
		return model.Contact{}, err
	}
	result, err := r.deleteWhereIdAndOwner.ExecContext(ctx, id, owner.Id)
	if err != nil {
		return model.Contact{}, storeError("delete contact", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return model.Contact{}, storeError("delete contact", err)
	}
	if rowsAffected == 0 {
		return model.Contact{}, ErrNotFound
	}
	return contact, nil
}

// UpcomingBirthdays returns the contacts of owner whose birthday recurs within the next seven
// days, today included. Only month and day are compared, so the birth year does not matter and
// a window starting in late December continues into January. The result is sorted by birthday.
func (r *ContactRepository) UpcomingBirthdays(ctx context.Context, owner model.Account) ([]model.Contact, error) {
	start, end, wraps := birthdayWindow(model.DateOf(r.now()))
	condition := "BETWEEN ? AND ?"
	if wraps {
		condition = ">= ? OR (MONTH(birthday) * 100 + DAY(birthday)) <= ?"
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM contacts
		WHERE owner_id = ?
			AND ((MONTH(birthday) * 100 + DAY(birthday)) %s)
		ORDER BY birthday, id`, contactColumns, condition)
	contacts := []model.Contact{}
	if err := r.db.SelectContext(ctx, &contacts, query, owner.Id, start, end); err != nil {
		return nil, storeError("upcoming birthdays", err)
	}
	return withOwner(contacts, owner), nil
}
