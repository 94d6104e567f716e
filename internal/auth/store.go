package auth

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"

	"go.uber.org/zap"

	"ShopEase/internal/docstore"
	"ShopEase/internal/validate"
)

const (
	AdminDocument = "admin_credentials"
	UsersDocument = "user_credentials"
)

var (
	ErrAlreadySignedUp    = errors.New("admin already signed up")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// Admin is the single shopkeeper account. Password holds a bcrypt hash.
type Admin struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	IsSignedUp bool   `json:"is_signed_up"`
	ShopName   string `json:"shop_name"`
}

// AdminInfo is Admin without the password.
type AdminInfo struct {
	Username   string `json:"username"`
	IsSignedUp bool   `json:"is_signed_up"`
	ShopName   string `json:"shop_name"`
}

type User struct {
	Password string         `json:"password"`
	Profile  map[string]any `json:"profile"`
}

type Store struct {
	mu     sync.RWMutex
	docs   docstore.Store
	hasher PasswordHasher
	log    *zap.Logger

	admin Admin
	users map[string]User
}

type Option func(*Store)

func WithHasher(h PasswordHasher) Option {
	return func(s *Store) { s.hasher = h }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// NewStore loads both credential documents, writing the defaults for any that
// are missing or unreadable.
func NewStore(ctx context.Context, docs docstore.Store, opts ...Option) (*Store, error) {
	s := &Store{
		docs:   docs,
		hasher: NewBcryptHasher(0),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.loadAdmin(ctx); err != nil {
		return nil, err
	}
	if err := s.loadUsers(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) loadAdmin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reset, err := docstore.LoadOrInit(ctx, s.docs, AdminDocument, &s.admin, func() { s.admin = Admin{} })
	if err != nil {
		return fmt.Errorf("load admin credentials: %w", err)
	}
	if reset {
		s.log.Warn("admin credentials initialized")
	}
	return nil
}

func (s *Store) loadUsers(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reset, err := docstore.LoadOrInit(ctx, s.docs, UsersDocument, &s.users, func() { s.users = map[string]User{} })
	if err != nil {
		return fmt.Errorf("load user credentials: %w", err)
	}
	if reset {
		s.log.Warn("user credentials initialized")
	}
	if s.users == nil {
		s.users = map[string]User{}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.docs.Ping(ctx)
}

// SignUpAdmin registers the one admin account. It can succeed only once.
func (s *Store) SignUpAdmin(ctx context.Context, username, password, shopName string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	shopName = strings.TrimSpace(shopName)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.admin.IsSignedUp {
		return ErrAlreadySignedUp
	}
	if !validate.IsValidUsername(username) {
		return validate.ErrInvalidUsername
	}
	if !validate.IsValidPassword(password) {
		return validate.ErrInvalidPassword
	}
	if shopName == "" {
		return validate.ErrEmptyShopName
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	s.admin = Admin{
		Username:   username,
		Password:   hash,
		IsSignedUp: true,
		ShopName:   shopName,
	}
	s.log.Info("admin signed up", zap.String("username", username), zap.String("shop", shopName))
	return s.saveAdmin(ctx)
}

// LoginAdmin returns the admin's shop name on an exact username/password match.
// Passwords are trimmed of surrounding whitespace everywhere they enter the store.
func (s *Store) LoginAdmin(username, password string) (string, error) {
	password = strings.TrimSpace(password)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.admin.IsSignedUp || username != s.admin.Username || !s.hasher.Matches(s.admin.Password, password) {
		return "", ErrInvalidCredentials
	}
	return s.admin.ShopName, nil
}

func (s *Store) ChangeShopName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validate.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.admin.ShopName
	s.admin.ShopName = name
	s.log.Info("admin shop renamed", zap.String("from", old), zap.String("to", name))
	return s.saveAdmin(ctx)
}

func (s *Store) AdminInfo() AdminInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return AdminInfo{
		Username:   s.admin.Username,
		IsSignedUp: s.admin.IsSignedUp,
		ShopName:   s.admin.ShopName,
	}
}

func (s *Store) SignUpUser(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !validate.IsValidUsername(username) {
		return validate.ErrInvalidUsername
	}
	if _, ok := s.users[username]; ok {
		return ErrDuplicateUsername
	}
	if !validate.IsValidPassword(password) {
		return validate.ErrInvalidPassword
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	s.users[username] = User{Password: hash, Profile: map[string]any{}}
	s.log.Info("user signed up", zap.String("username", username))
	return s.saveUsers(ctx)
}

func (s *Store) LoginUser(username, password string) error {
	password = strings.TrimSpace(password)

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok || !s.hasher.Matches(u.Password, password) {
		return ErrInvalidCredentials
	}
	return nil
}

// UpdateUserPassword replaces the password. A blank password changes nothing.
func (s *Store) UpdateUserPassword(ctx context.Context, username, newPassword string) error {
	newPassword = strings.TrimSpace(newPassword)

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return ErrUserNotFound
	}
	if newPassword == "" {
		return nil
	}
	if !validate.IsValidPassword(newPassword) {
		return validate.ErrInvalidPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	u.Password = hash
	s.users[username] = u

	s.log.Info("user password updated", zap.String("username", username))
	return s.saveUsers(ctx)
}

func (s *Store) Profile(username string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := make(map[string]any, len(u.Profile))
	maps.Copy(out, u.Profile)
	return out, nil
}

// UpdateProfile merges fields into the user's profile. A nil value removes the key.
func (s *Store) UpdateProfile(ctx context.Context, username string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return ErrUserNotFound
	}
	if u.Profile == nil {
		u.Profile = map[string]any{}
	}
	for k, v := range fields {
		if v == nil {
			delete(u.Profile, k)
			continue
		}
		u.Profile[k] = v
	}
	s.users[username] = u

	return s.saveUsers(ctx)
}

func (s *Store) saveAdmin(ctx context.Context) error {
	if err := s.docs.Save(ctx, AdminDocument, s.admin); err != nil {
		s.log.Error("admin credentials save failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *Store) saveUsers(ctx context.Context) error {
	if err := s.docs.Save(ctx, UsersDocument, s.users); err != nil {
		s.log.Error("user credentials save failed", zap.Error(err))
		return err
	}
	return nil
}
