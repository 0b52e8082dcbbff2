package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"GENBA-backend/internal/platform/db"
)

// Account: 帳票を見られる管理者アカウント（現場の作業員とは別）
type Account struct {
	ID           string
	PasswordHash string
	Role         string
	IsDisabled   bool
	CreatedAt    time.Time
}

type AccountStore interface {
	GetByID(ctx context.Context, id string) (*Account, error)
	Create(ctx context.Context, a *Account) error
	SetDisabled(ctx context.Context, id string, disabled bool) (int64, error)
	Rename(ctx context.Context, oldID, newID string) error
}

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) AccountStore {
	return &Store{db: conn}
}

const selectAccount = `
SELECT id, password_hash, role, is_disabled, created_at
FROM manager_accounts
WHERE id = ?
LIMIT 1`

func (s *Store) GetByID(ctx context.Context, id string) (*Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx, selectAccount, id))
}

func (s *Store) Create(ctx context.Context, a *Account) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO manager_accounts (id, password_hash, role, is_disabled, created_at)
	VALUES (?, ?, ?, 0, NOW(6))`, a.ID, a.PasswordHash, a.Role)
	return err
}

func (s *Store) SetDisabled(ctx context.Context, id string, disabled bool) (int64, error) {
	flag := 0
	if disabled {
		flag = 1
	}
	res, err := s.db.ExecContext(ctx, `UPDATE manager_accounts SET is_disabled = ? WHERE id = ?`, flag, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Rename: 存在確認と更新を同じトランザクションで
func (s *Store) Rename(ctx context.Context, oldID, newID string) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		old, err := scanAccount(tx.QueryRowContext(ctx, selectAccount+" FOR UPDATE", oldID))
		if err != nil {
			return err
		}
		if old == nil {
			return ErrNotFound
		}
		taken, err := scanAccount(tx.QueryRowContext(ctx, selectAccount, newID))
		if err != nil {
			return err
		}
		if taken != nil {
			return ErrAlreadyExists
		}
		_, err = tx.ExecContext(ctx, `UPDATE manager_accounts SET id = ? WHERE id = ?`, newID, oldID)
		return err
	})
}

func scanAccount(row *sql.Row) (*Account, error) {
	var a Account
	var isDisabled int
	err := row.Scan(&a.ID, &a.PasswordHash, &a.Role, &isDisabled, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.IsDisabled = isDisabled != 0
	return &a, nil
}
