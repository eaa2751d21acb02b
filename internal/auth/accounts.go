package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/personal-contacts/internal/model"
)

// ErrUnknownAccount is returned if a token refers to an account that does not exist (anymore).
var ErrUnknownAccount = errors.New("unknown account")

// AccountStore loads accounts from the users table.
type AccountStore struct {
	selectWhereId *sqlx.Stmt
}

// NewAccountStore prepares the lookup statement on db.
func NewAccountStore(db *sqlx.DB) (*AccountStore, error) {
	stmt, err := db.Preparex(`
		SELECT id, username, email, role, confirmed FROM users WHERE id = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare account lookup: %w", err)
	}
	return &AccountStore{selectWhereId: stmt}, nil
}

// AccountById returns the account with the given id or ErrUnknownAccount.
func (s *AccountStore) AccountById(ctx context.Context, id int64) (model.Account, error) {
	var account model.Account
	err := s.selectWhereId.GetContext(ctx, &account, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrUnknownAccount
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("load account %d: %w", id, err)
	}
	return account, nil
}

// Close releases the prepared statement.
func (s *AccountStore) Close() error {
	return s.selectWhereId.Close()
}
