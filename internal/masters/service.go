package masters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
)

// ===== Error model =====
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict:
			return 409
		default:
			return 500
		}
	}
	return 500
}

type Service struct {
	store MasterStore
}

func NewService(db *sql.DB) *Service { return &Service{store: NewStore(db)} }

func NewServiceWithStore(store MasterStore) *Service { return &Service{store: store} }

func parseBoolish(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	return s == "1" || s == "true" || s == "yes" || s == "all"
}

func required(v, name string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", ErrInvalid(name + " is required")
	}
	return v, nil
}

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}

func (s *Service) List(ctx context.Context, k Kind, all string) ([]Entry, error) {
	res, err := s.store.List(ctx, k, parseBoolish(all))
	if err != nil {
		return nil, ErrInternal("failed to list " + string(k))
	}
	return res, nil
}

func (s *Service) Get(ctx context.Context, k Kind, id string) (*Entry, error) {
	e, err := s.store.Get(ctx, k, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound(string(k) + " not found")
		}
		return nil, ErrInternal("failed to get " + string(k))
	}
	return e, nil
}

func (s *Service) Create(ctx context.Context, k Kind, id, name string) (*Entry, error) {
	id, err := required(id, "id")
	if err != nil {
		return nil, err
	}
	name, err = required(name, "name")
	if err != nil {
		return nil, err
	}

	e := Entry{ID: id, Name: name}
	if err := s.store.Create(ctx, k, e); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrConflict("id already exists")
		}
		return nil, ErrInternal("failed to create " + string(k))
	}
	return &e, nil
}

// Update: MySQL は値が同じだと affected=0 を返すので，その時は存在確認で判定する
func (s *Service) Update(ctx context.Context, k Kind, id, name string, disabled bool) (*Entry, error) {
	name, err := required(name, "name")
	if err != nil {
		return nil, err
	}
	err = s.store.Update(ctx, k, Entry{ID: id, Name: name, IsDisabled: disabled})
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInternal("failed to update " + string(k))
	}
	return s.Get(ctx, k, id)
}

func (s *Service) Delete(ctx context.Context, k Kind, id string) error {
	err := s.store.Disable(ctx, k, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return ErrInternal("failed to delete " + string(k))
	}
	_, err = s.Get(ctx, k, id)
	return err
}
