package domain

import (
	"strings"
	"testing"
	"time"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("Should create user with normalized email", func(t *testing.T) {
		t.Parallel()

		dirtyEmail := "  Test.User@Gmail.COM  "
		id := "123"

		user, err := NewUser(id, dirtyEmail)

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		expectedEmail := "test.user@gmail.com"
		if user.Email != expectedEmail {
			t.Errorf("Expected email %s, got %s", expectedEmail, user.Email)
		}

		if user.ID != id {
			t.Errorf("Expected id %s, got %s", id, user.ID)
		}

		if user.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("Should fail with invalid email", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("123", "invalid-email-format")

		if err != ErrInvalidEmail {
			t.Errorf("Expected ErrInvalidEmail, got %v", err)
		}
	})
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"  Seeker@Zen.IO\t": "seeker@zen.io",
		"monk@temple.org":   "monk@temple.org",
		"   ":               "",
	}

	for in, want := range cases {
		if got := NormalizeEmail(in); got != want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUserPassword(t *testing.T) {
	t.Parallel()

	t.Run("Should hash password correctly and update timestamp", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("123", "test@test.com")
		plainPass := "zenGarden2024"

		oldUpdatedAt := user.UpdatedAt

		time.Sleep(1 * time.Millisecond)

		err := user.SetPassword(plainPass)
		if err != nil {
			t.Fatalf("Expected no error setting password, got %v", err)
		}

		if user.PasswordHash == plainPass {
			t.Error("Password should be hashed, not plain text")
		}

		if len(user.PasswordHash) == 0 {
			t.Error("Password hash should not be empty")
		}

		if !user.UpdatedAt.After(oldUpdatedAt) {
			t.Error("UpdatedAt should be updated after setting password")
		}
	})

	t.Run("Should validate password length", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("123", "test@test.com")

		err := user.SetPassword("short")
		if err != ErrPasswordTooShort {
			t.Errorf("Expected ErrPasswordTooShort, got %v", err)
		}
	})

	t.Run("Should accept password at minimum length", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("123", "test@test.com")

		if err := user.SetPassword(strings.Repeat("a", MinPasswordLen-1)); err != ErrPasswordTooShort {
			t.Errorf("Expected ErrPasswordTooShort one rune below the minimum, got %v", err)
		}

		exact := strings.Repeat("ä", MinPasswordLen)
		if err := user.SetPassword(exact); err != nil {
			t.Fatalf("Expected password of exactly %d runes to be accepted, got %v", MinPasswordLen, err)
		}
		if err := user.CheckPassword(exact); err != nil {
			t.Errorf("Expected password to match, got error: %v", err)
		}
	})

	t.Run("CheckPassword should work", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("123", "test@test.com")
		pass := "quietMind99"
		_ = user.SetPassword(pass)

		if err := user.CheckPassword(pass); err != nil {
			t.Errorf("Expected password to match, got error: %v", err)
		}

		if err := user.CheckPassword("wrongPassword"); err != ErrInvalidCredentials {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})
}
