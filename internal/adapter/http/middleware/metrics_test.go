package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/accounts/01J8ZX9Y1ABCDEF", "/api/v1/accounts/:id"},
		{"/api/v1/accounts/01J8ZX9Y1ABCDEF/entries", "/api/v1/accounts/:id/entries"},
		{"/api/v1/transactions/01J8ZX9Y1ABCDEF", "/api/v1/transactions/:id"},
		{"/api/v1/users/22222222-2222-2222-2222-222222222222/account", "/api/v1/users/:id/account"},
		{"/api/v1/accounts", "/api/v1/accounts"},
		{"/api/v1/poker/settlements", "/api/v1/poker/settlements"},
		{"/health", "/health"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Fatalf("normalizePath(%s) = %s, want %s", tt.path, got, tt.want)
		}
	}
}
