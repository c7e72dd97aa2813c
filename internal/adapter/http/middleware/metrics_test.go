package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/loans", "/api/v1/loans"},
		{"/api/v1/loans/", "/api/v1/loans/"},
		{"/api/v1/loans/user-1", "/api/v1/loans/:userID"},
		{"/api/v1/loans/user-1/repayments", "/api/v1/loans/:userID/repayments"},
		{"/api/v1/loans/user-1/entries", "/api/v1/loans/:userID/entries"},
		{"/health", "/health"},
		{"/metrics", "/metrics"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizePath(tt.path); got != tt.want {
				t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
