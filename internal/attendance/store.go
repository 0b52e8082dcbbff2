package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"GENBA-backend/internal/platform/db"
	"GENBA-backend/internal/worklog"
)

// Source: コアが外部に求める取得口（レコードストア）
type Source interface {
	FetchLogsInRange(ctx context.Context, from, to time.Time) ([]worklog.RawRecord, error)
	FetchSessionsInRange(ctx context.Context, from, to time.Time) ([]worklog.WorkSession, error)
	LoadDirectory(ctx context.Context) (worklog.Directory, error)
	InsertPunch(ctx context.Context, p Punch, punchedAt time.Time) error
}

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

// FetchLogsInRange: punched_at が [from, to) の打刻。fields が壊れた行は読み飛ばす
func (s *Store) FetchLogsInRange(ctx context.Context, from, to time.Time) ([]worklog.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT log_id, fields
	FROM punch_logs
	WHERE punched_at >= ? AND punched_at < ?
	ORDER BY punched_at ASC, log_id ASC`, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []worklog.RawRecord
	for rows.Next() {
		var r punchRow
		if err := rows.Scan(&r.LogID, &r.Fields); err != nil {
			return nil, err
		}
		rec, ok := r.toRecord()
		if !ok {
			log.Printf("[WARN] punch_logs: broken fields json log_id=%s", r.LogID)
			continue
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// FetchSessionsInRange: started_at が [from, to) のペアリング済みセッション
func (s *Store) FetchSessionsInRange(ctx context.Context, from, to time.Time) ([]worklog.WorkSession, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT session_id, user_key, site_name, machine_id, machine_name, started_at, ended_at, duration_minutes
	FROM work_sessions
	WHERE started_at >= ? AND started_at < ?
	ORDER BY started_at ASC, session_id ASC`, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []worklog.WorkSession
	for rows.Next() {
		var r workSessionRow
		if err := rows.Scan(&r.SessionID, &r.UserKey, &r.SiteName, &r.MachineID, &r.MachineName,
			&r.StartedAt, &r.EndedAt, &r.DurationMinutes); err != nil {
			return nil, err
		}
		out = append(out, r.toModel())
	}
	return out, rows.Err()
}

// LoadDirectory: users / sites / machines を同一スナップショットで読む
func (s *Store) LoadDirectory(ctx context.Context) (worklog.Directory, error) {
	dir := worklog.Directory{
		Users:    map[string]string{},
		Sites:    map[string]string{},
		Machines: map[string]string{},
	}
	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		if err := loadNames(ctx, tx, `SELECT user_id, user_name FROM users`, dir.Users); err != nil {
			return err
		}
		if err := loadNames(ctx, tx, `SELECT site_id, site_name FROM sites`, dir.Sites); err != nil {
			return err
		}
		return loadNames(ctx, tx, `SELECT machine_id, machine_name FROM machines`, dir.Machines)
	})
	if err != nil {
		return worklog.Directory{}, err
	}
	return dir, nil
}

func (s *Store) InsertPunch(ctx context.Context, p Punch, punchedAt time.Time) error {
	body, err := json.Marshal(p.Fields)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
	INSERT INTO punch_logs (log_id, punched_at, fields)
	VALUES (?, ?, ?)`, p.LogID, punchedAt.UTC(), body)
	return err
}

// ===== helpers =====

func loadNames(ctx context.Context, tx db.DBTX, q string, into map[string]string) error {
	rows, err := tx.QueryContext(ctx, q)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var name sql.NullString
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		if name.Valid && name.String != "" {
			into[id] = name.String
		}
	}
	return rows.Err()
}
