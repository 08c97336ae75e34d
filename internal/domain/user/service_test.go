package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hrpayroll/internal/auth"
)

type fakeStore struct {
	nextID int64
	users  map[int64]User
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, users: map[int64]User{}}
}

func (f *fakeStore) Insert(_ context.Context, u User) (User, error) {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return User{}, ErrEmailTaken
		}
		if existing.Username == u.Username {
			return User{}, ErrUsernameTaken
		}
	}
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	f.nextID++
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (User, error) {
	u, ok := f.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) GetByUsername(_ context.Context, username string) (User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (f *fakeStore) Count(_ context.Context, _ Filter) (int, error) {
	return len(f.users), nil
}

func (f *fakeStore) List(_ context.Context, _ Filter) ([]User, error) {
	out := make([]User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, u User) (User, error) {
	if _, ok := f.users[u.ID]; !ok {
		return User{}, ErrNotFound
	}
	now := time.Now()
	u.UpdatedAt = &now
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeStore) IsActive(_ context.Context, id int64) (bool, error) {
	return f.users[id].IsActive, nil
}

func TestCreateHashesPassword(t *testing.T) {
	svc := NewService(newFakeStore())
	created, err := svc.Create(context.Background(), CreateInput{
		Email:    "a@example.com",
		Username: "alice",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.NotEqual(t, "correct horse", created.PasswordHash)
	require.NoError(t, auth.CheckPassword(created.PasswordHash, "correct horse"))
	require.Equal(t, auth.RoleEmployee, created.Role)
	require.True(t, created.IsActive)

	_, err = svc.Create(context.Background(), CreateInput{
		Email:    "b@example.com",
		Username: "bob",
		Password: "short",
	})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.Create(context.Background(), CreateInput{Email: "a@example.com", Username: "alice", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{Email: "a@example.com", Username: "bob", Password: "password2"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(newFakeStore())
	created, err := svc.Create(context.Background(), CreateInput{Email: "a@example.com", Username: "alice", Password: "password1"})
	require.NoError(t, err)

	got, err := svc.Authenticate(context.Background(), "alice", "password1")
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	_, err = svc.Authenticate(context.Background(), "alice", "nope")
	require.ErrorIs(t, err, ErrBadCredentials)

	_, err = svc.Authenticate(context.Background(), "ghost", "password1")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestAuthenticateRejectsDisabledAccount(t *testing.T) {
	svc := NewService(newFakeStore())
	created, err := svc.Create(context.Background(), CreateInput{Email: "a@example.com", Username: "alice", Password: "password1"})
	require.NoError(t, err)

	inactive := false
	_, err = svc.Update(context.Background(), created.ID, UpdateInput{IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "alice", "password1")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestUpdateTouchesOnlyProvidedFields(t *testing.T) {
	svc := NewService(newFakeStore())
	created, err := svc.Create(context.Background(), CreateInput{Email: "a@example.com", Username: "alice", Password: "password1", Role: auth.RoleHR})
	require.NoError(t, err)

	email := "new@example.com"
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Email: &email})
	require.NoError(t, err)
	require.Equal(t, "new@example.com", updated.Email)
	require.Equal(t, "alice", updated.Username)
	require.Equal(t, auth.RoleHR, updated.Role)
	require.NotNil(t, updated.UpdatedAt)
}
