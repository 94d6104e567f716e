package auth

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ShopEase/internal/docstore"
	"ShopEase/internal/validate"
)

func newTestStore(t *testing.T) (*Store, *docstore.FileStore) {
	t.Helper()

	docs, err := docstore.NewFileStore(t.TempDir())
	require.NoError(t, err)

	s, err := NewStore(context.Background(), docs, WithHasher(NewBcryptHasher(bcrypt.MinCost)))
	require.NoError(t, err)
	return s, docs
}

func TestNewStore_WritesDefaults(t *testing.T) {
	s, docs := newTestStore(t)

	assert.FileExists(t, docs.Path(AdminDocument))
	assert.FileExists(t, docs.Path(UsersDocument))
	assert.False(t, s.AdminInfo().IsSignedUp)

	var users map[string]User
	require.NoError(t, docs.Load(context.Background(), UsersDocument, &users))
	assert.Empty(t, users)
}

func TestNewStore_HealsCorruptFiles(t *testing.T) {
	docs, err := docstore.NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(docs.Path(AdminDocument), []byte("not json"), 0o644))
	require.NoError(t, os.WriteFile(docs.Path(UsersDocument), []byte("[1,2"), 0o644))

	s, err := NewStore(context.Background(), docs, WithHasher(NewBcryptHasher(bcrypt.MinCost)))
	require.NoError(t, err)
	assert.False(t, s.AdminInfo().IsSignedUp)

	var admin Admin
	require.NoError(t, docs.Load(context.Background(), AdminDocument, &admin))
	assert.False(t, admin.IsSignedUp)
}

func TestSignUpAdmin_OneTimeGate(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SignUpAdmin(ctx, "keeper", "secret1", "Kobbler"))
	info := s.AdminInfo()
	assert.True(t, info.IsSignedUp)
	assert.Equal(t, "keeper", info.Username)
	assert.Equal(t, "Kobbler", info.ShopName)

	assert.ErrorIs(t, s.SignUpAdmin(ctx, "other", "secret2", "Bongo"), ErrAlreadySignedUp)
	assert.ErrorIs(t, s.SignUpAdmin(ctx, "x", "", ""), ErrAlreadySignedUp)
	assert.Equal(t, "keeper", s.AdminInfo().Username)
}

func TestSignUpAdmin_Validation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.SignUpAdmin(ctx, "ab", "secret1", "Shop"), validate.ErrInvalidUsername)
	assert.ErrorIs(t, s.SignUpAdmin(ctx, "keeper", "short", "Shop"), validate.ErrInvalidPassword)
	assert.ErrorIs(t, s.SignUpAdmin(ctx, "keeper", "secret1", "   "), validate.ErrEmptyShopName)
	assert.ErrorIs(t, s.SignUpAdmin(ctx, "keeper", "  abcde ", "Shop"), validate.ErrInvalidPassword)
	assert.False(t, s.AdminInfo().IsSignedUp)
}

func TestLoginAdmin(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.LoginAdmin("", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "not signed up yet")

	require.NoError(t, s.SignUpAdmin(ctx, "keeper", "secret1", "Kobbler"))

	shop, err := s.LoginAdmin("keeper", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Kobbler", shop)

	_, err = s.LoginAdmin("Keeper", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.LoginAdmin("keeper", "Secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangeShopName(t *testing.T) {
	s, docs := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SignUpAdmin(ctx, "keeper", "secret1", "Kobbler"))

	assert.ErrorIs(t, s.ChangeShopName(ctx, "  "), validate.ErrEmptyName)
	require.NoError(t, s.ChangeShopName(ctx, "Kobbler Premium"))

	shop, err := s.LoginAdmin("keeper", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Kobbler Premium", shop)

	var onDisk Admin
	require.NoError(t, docs.Load(ctx, AdminDocument, &onDisk))
	assert.Equal(t, "Kobbler Premium", onDisk.ShopName)
	assert.NotEqual(t, "secret1", onDisk.Password)
}

func TestSignUpUser(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.SignUpUser(ctx, "a b", "secret1"), validate.ErrInvalidUsername)
	require.NoError(t, s.SignUpUser(ctx, "walker", "secret1"))
	assert.ErrorIs(t, s.SignUpUser(ctx, "walker", "secret2"), ErrDuplicateUsername)
	assert.ErrorIs(t, s.SignUpUser(ctx, "runner", "12345"), validate.ErrInvalidPassword)

	require.NoError(t, s.LoginUser("walker", "secret1"))
	assert.ErrorIs(t, s.LoginUser("walker", "secret2"), ErrInvalidCredentials)
	assert.ErrorIs(t, s.LoginUser("nobody", "secret1"), ErrInvalidCredentials)
}

func TestUpdateUserPassword(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SignUpUser(ctx, "walker", "secret1"))

	require.NoError(t, s.UpdateUserPassword(ctx, "walker", "   "))
	require.NoError(t, s.LoginUser("walker", "secret1"))

	assert.ErrorIs(t, s.UpdateUserPassword(ctx, "walker", "123"), validate.ErrInvalidPassword)
	require.NoError(t, s.LoginUser("walker", "secret1"))

	require.NoError(t, s.UpdateUserPassword(ctx, "walker", "newsecret"))
	assert.ErrorIs(t, s.LoginUser("walker", "secret1"), ErrInvalidCredentials)
	require.NoError(t, s.LoginUser("walker", "newsecret"))

	assert.ErrorIs(t, s.UpdateUserPassword(ctx, "ghost", "newsecret"), ErrUserNotFound)
}

func TestPasswords_TrimmedEverywhere(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.SignUpUser(ctx, "walker", "  abcde  "), validate.ErrInvalidPassword)

	require.NoError(t, s.SignUpUser(ctx, "walker", " secret1 "))
	require.NoError(t, s.LoginUser("walker", "secret1"))
	require.NoError(t, s.LoginUser("walker", " secret1 "))

	require.NoError(t, s.UpdateUserPassword(ctx, "walker", " newpass1 "))
	require.NoError(t, s.LoginUser("walker", " newpass1 "))
	require.NoError(t, s.LoginUser("walker", "newpass1"))

	require.NoError(t, s.SignUpAdmin(ctx, "keeper", "\tsecret2 ", "Kobbler"))
	shop, err := s.LoginAdmin("keeper", "secret2")
	require.NoError(t, err)
	assert.Equal(t, "Kobbler", shop)
	_, err = s.LoginAdmin("keeper", " secret2\n")
	require.NoError(t, err)
}

func TestPasswords_LongerThanBcryptLimit(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	long := strings.Repeat("a", 80)
	require.True(t, validate.IsValidPassword(long))

	require.NoError(t, s.SignUpUser(ctx, "longpw", long))
	require.NoError(t, s.LoginUser("longpw", long))
	// bytes past 72 still count
	assert.ErrorIs(t, s.LoginUser("longpw", strings.Repeat("a", 79)+"b"), ErrInvalidCredentials)

	require.NoError(t, s.SignUpAdmin(ctx, "boss", long, "Kobbler"))
	_, err := s.LoginAdmin("boss", long)
	require.NoError(t, err)
}

func TestProfile(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SignUpUser(ctx, "walker", "secret1"))

	p, err := s.Profile("walker")
	require.NoError(t, err)
	assert.Empty(t, p)

	require.NoError(t, s.UpdateProfile(ctx, "walker", map[string]any{"email": "w@example.com", "size": 9.0}))
	require.NoError(t, s.UpdateProfile(ctx, "walker", map[string]any{"size": nil}))

	p, err = s.Profile("walker")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"email": "w@example.com"}, p)

	_, err = s.Profile("ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStore_ReloadFromDisk(t *testing.T) {
	s, docs := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SignUpAdmin(ctx, "keeper", "secret1", "Kobbler"))
	require.NoError(t, s.SignUpUser(ctx, "walker", "secret1"))

	fresh, err := NewStore(ctx, docs, WithHasher(NewBcryptHasher(bcrypt.MinCost)))
	require.NoError(t, err)

	_, err = fresh.LoginAdmin("keeper", "secret1")
	require.NoError(t, err)
	require.NoError(t, fresh.LoginUser("walker", "secret1"))
	assert.ErrorIs(t, fresh.SignUpAdmin(ctx, "keeper2", "secret1", "X"), ErrAlreadySignedUp)
}

func TestStore_LegacyPlainTextFiles(t *testing.T) {
	docs, err := docstore.NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(docs.Path(AdminDocument),
		[]byte(`{"username":"admin","password":"admin123","is_signed_up":true,"shop_name":"Old Shop"}`), 0o644))
	require.NoError(t, os.WriteFile(docs.Path(UsersDocument),
		[]byte(`{"walker":{"password":"secret1","profile":{}}}`), 0o644))

	s, err := NewStore(context.Background(), docs, WithHasher(NewBcryptHasher(bcrypt.MinCost)))
	require.NoError(t, err)

	shop, err := s.LoginAdmin("admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "Old Shop", shop)
	require.NoError(t, s.LoginUser("walker", "secret1"))
	assert.ErrorIs(t, s.LoginUser("walker", "secret"), ErrInvalidCredentials)
}
