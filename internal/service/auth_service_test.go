package service

import (
	"context"
	"errors"
	"testing"

	"brinleneuro/internal/flags"
)

func TestAuthServiceLogin(t *testing.T) {
	auth, err := NewAuthService("meuappbrinle", "brinleaprende128")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	tests := []struct {
		name       string
		username   string
		passphrase string
		wantErr    bool
	}{
		{"correct", "meuappbrinle", "brinleaprende128", false},
		{"username padded", "  meuappbrinle ", "brinleaprende128", false},
		{"wrong passphrase", "meuappbrinle", "brinle", true},
		{"wrong user", "outro", "brinleaprende128", true},
		{"passphrase is not trimmed", "meuappbrinle", " brinleaprende128", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := flags.NewMemoryStore()
			err := auth.Login(ctx, store, tt.username, tt.passphrase)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
				}
				if auth.IsAuthenticated(ctx, store) {
					t.Error("failed login marked the device")
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if !auth.IsAuthenticated(ctx, store) || flags.Username(ctx, store) != "meuappbrinle" {
				t.Error("login not recorded")
			}
		})
	}
}

func TestAuthServiceLogout(t *testing.T) {
	auth, _ := NewAuthService("meuappbrinle", "brinleaprende128")
	ctx := context.Background()
	store := flags.NewMemoryStore()
	auth.Login(ctx, store, "meuappbrinle", "brinleaprende128")

	if err := auth.Logout(ctx, store); err != nil {
		t.Fatal(err)
	}
	if auth.IsAuthenticated(ctx, store) || flags.Username(ctx, store) != "" {
		t.Error("logout left the login flags")
	}
}
