package masters

import (
	"context"
	"database/sql"
)

// Kind: URL の :kind。テーブル・列名はここで固定する
type Kind string

const (
	KindUsers    Kind = "users"
	KindSites    Kind = "sites"
	KindMachines Kind = "machines"
)

type table struct{ name, idCol, nameCol string }

var tables = map[Kind]table{
	KindUsers:    {"users", "user_id", "user_name"},
	KindSites:    {"sites", "site_id", "site_name"},
	KindMachines: {"machines", "machine_id", "machine_name"},
}

func ParseKind(s string) (Kind, bool) {
	_, ok := tables[Kind(s)]
	return Kind(s), ok
}

type MasterStore interface {
	List(ctx context.Context, k Kind, includeDisabled bool) ([]Entry, error)
	Get(ctx context.Context, k Kind, id string) (*Entry, error)
	Create(ctx context.Context, k Kind, e Entry) error
	Update(ctx context.Context, k Kind, e Entry) error
	Disable(ctx context.Context, k Kind, id string) error
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// GET /masters/:kind?all=1
func (s *Store) List(ctx context.Context, k Kind, includeDisabled bool) ([]Entry, error) {
	t := tables[k]
	q := `SELECT ` + t.idCol + `, COALESCE(` + t.nameCol + `, ''), is_disabled FROM ` + t.name
	if !includeDisabled {
		q += ` WHERE is_disabled = 0`
	}
	q += ` ORDER BY ` + t.idCol

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]Entry, 0, 16)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.IsDisabled); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func (s *Store) Get(ctx context.Context, k Kind, id string) (*Entry, error) {
	t := tables[k]
	var e Entry
	err := s.db.QueryRowContext(ctx,
		`SELECT `+t.idCol+`, COALESCE(`+t.nameCol+`, ''), is_disabled FROM `+t.name+` WHERE `+t.idCol+` = ?`, id).
		Scan(&e.ID, &e.Name, &e.IsDisabled)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) Create(ctx context.Context, k Kind, e Entry) error {
	t := tables[k]
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+t.name+` (`+t.idCol+`, `+t.nameCol+`, is_disabled) VALUES (?, ?, 0)`, e.ID, e.Name)
	return err
}

func (s *Store) Update(ctx context.Context, k Kind, e Entry) error {
	t := tables[k]
	return affected(s.db.ExecContext(ctx,
		`UPDATE `+t.name+` SET `+t.nameCol+` = ?, is_disabled = ? WHERE `+t.idCol+` = ?`, e.Name, e.IsDisabled, e.ID))
}

// DELETE: is_disabled=1 にする（過去の打刻の名前解決には残す）
func (s *Store) Disable(ctx context.Context, k Kind, id string) error {
	t := tables[k]
	return affected(s.db.ExecContext(ctx, `UPDATE `+t.name+` SET is_disabled = 1 WHERE `+t.idCol+` = ?`, id))
}

func affected(r sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := r.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
