package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"

	DefaultTokenTTL = 12 * time.Hour
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrAuthFailed    = errors.New("authentication failed")
	ErrInvalidRole   = errors.New("invalid role")
)

// Claims: sub = 管理者ID
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, id, password string) (Token, error)
	Register(ctx context.Context, id, password, role string) error
	SetDisabled(ctx context.Context, id string, disabled bool) error
	Rename(ctx context.Context, oldID, newID string) error
}

type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Service struct {
	store  AccountStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService: secret は設定ファイルの auth.jwt_secret
func NewService(conn *sql.DB, secret []byte) *Service {
	return NewServiceWithStore(NewStore(conn), secret)
}

func NewServiceWithStore(store AccountStore, secret []byte) *Service {
	return &Service{store: store, secret: secret, ttl: DefaultTokenTTL, now: time.Now}
}

func (s *Service) Login(ctx context.Context, id, password string) (Token, error) {
	acct, err := s.store.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Token{}, err
	}
	// 存在しない・無効化済み・パスワード違いは区別しない
	if acct == nil || acct.IsDisabled {
		return Token{}, ErrAuthFailed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return Token{}, ErrAuthFailed
	}
	return s.Issue(acct.ID, acct.Role)
}

// Issue: HS256 の署名付きトークンを発行
func (s *Service) Issue(sub, role string) (Token, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Token: signed, ExpiresAt: exp}, nil
}

func (s *Service) Register(ctx context.Context, id, password, role string) error {
	id = strings.TrimSpace(id)
	if role == "" {
		role = RoleManager
	}
	if role != RoleManager && role != RoleAdmin {
		return ErrInvalidRole
	}

	exists, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if exists != nil {
		return ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.store.Create(ctx, &Account{ID: id, PasswordHash: string(hash), Role: role})
}

// SetDisabled: 退職者などはアカウントを消さずに無効化する
func (s *Service) SetDisabled(ctx context.Context, id string, disabled bool) error {
	n, err := s.store.SetDisabled(ctx, id, disabled)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Rename(ctx context.Context, oldID, newID string) error {
	return s.store.Rename(ctx, strings.TrimSpace(oldID), strings.TrimSpace(newID))
}
