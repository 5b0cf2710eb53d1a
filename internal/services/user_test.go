package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"speaks/internal/domain"
)

type fakeHasher struct {
	compareErr error
}

func (f *fakeHasher) GenerateSalt() (string, error) { return "salt", nil }
func (f *fakeHasher) Hash(salt, password string) (string, error) {
	return "hash(" + salt + "|" + password + ")", nil
}
func (f *fakeHasher) Compare(hash, salt, password string) error { return f.compareErr }

type fakeIssuer struct {
	err error
}

func (f *fakeIssuer) Issue(userID, email, role string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + userID, nil
}

func TestUserService_SignUp(t *testing.T) {
	userRepo := &mockUserRepository{users: map[string]*domain.User{}, byEmail: map[string]*domain.User{}}
	svc := NewUserService(userRepo, &mockFollowRepository{}, &fakeHasher{}, &fakeIssuer{}, time.Hour, time.Second)

	user, err := svc.SignUp(context.Background(), "  Dana@Example.COM ", "Dana", "supersecret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "dana@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("got role %q, want user", user.Role)
	}
	if user.PasswordHash == "" || user.PasswordSalt == "" {
		t.Fatal("credentials not derived")
	}

	tests := []struct {
		name     string
		email    string
		userName string
		password string
	}{
		{"bad email", "not-an-email", "Dana", "supersecret"},
		{"blank name", "a@b.com", "  ", "supersecret"},
		{"short password", "a@b.com", "Dana", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignUp(context.Background(), tt.email, tt.userName, tt.password)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("got %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestUserService_SignUp_duplicate_email(t *testing.T) {
	userRepo := &mockUserRepository{createErr: domain.ErrDuplicateEmail}
	svc := NewUserService(userRepo, &mockFollowRepository{}, &fakeHasher{}, &fakeIssuer{}, time.Hour, time.Second)

	_, err := svc.SignUp(context.Background(), "taken@example.com", "Dana", "supersecret")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("got %v, want ErrDuplicateEmail", err)
	}
}

func TestUserService_LogIn(t *testing.T) {
	user := &domain.User{ID: "u1", Email: "dana@example.com", Role: domain.RoleUser, PasswordHash: "h", PasswordSalt: "s"}
	userRepo := &mockUserRepository{byEmail: map[string]*domain.User{"dana@example.com": user}}

	t.Run("success", func(t *testing.T) {
		svc := NewUserService(userRepo, &mockFollowRepository{}, &fakeHasher{}, &fakeIssuer{}, time.Hour, time.Second)
		token, got, err := svc.LogIn(context.Background(), "dana@example.com", "supersecret")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "token-for-u1" || got.ID != "u1" {
			t.Fatalf("got token=%q user=%+v", token, got)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc := NewUserService(userRepo, &mockFollowRepository{}, &fakeHasher{compareErr: errors.New("mismatch")}, &fakeIssuer{}, time.Hour, time.Second)
		_, _, err := svc.LogIn(context.Background(), "dana@example.com", "wrong")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("got %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		svc := NewUserService(userRepo, &mockFollowRepository{}, &fakeHasher{}, &fakeIssuer{}, time.Hour, time.Second)
		_, _, err := svc.LogIn(context.Background(), "ghost@example.com", "whatever")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("got %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	userRepo := &mockUserRepository{users: map[string]*domain.User{
		"u1": {ID: "u1", Name: "Old Name"},
	}}
	svc := NewUserService(userRepo, &mockFollowRepository{}, &fakeHasher{}, &fakeIssuer{}, time.Hour, time.Second)

	user, err := svc.UpdateProfile(context.Background(), "u1", "  New Name ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Name != "New Name" {
		t.Fatalf("got name %q", user.Name)
	}
	if len(userRepo.updated) != 1 {
		t.Fatal("update not persisted")
	}

	if _, err := svc.UpdateProfile(context.Background(), "u1", " "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
	if _, err := svc.UpdateProfile(context.Background(), "ghost", "Name"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
}

func TestUserService_GetSocialCounts(t *testing.T) {
	followRepo := &mockFollowRepository{
		followers: map[string]int{"u1": 12},
		following: map[string]int{"u1": 3},
	}
	svc := NewUserService(&mockUserRepository{}, followRepo, &fakeHasher{}, &fakeIssuer{}, time.Hour, time.Second)

	counts, err := svc.GetSocialCounts(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts.Followers != 12 || counts.Following != 3 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}
