package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/members/01HX5K3M9Q/deposit", "/api/v1/members/:id/deposit"},
		{"/api/v1/members/01HX5K3M9Q", "/api/v1/members/:id"},
		{"/api/v1/members/01HX5K3M9Q/lots", "/api/v1/members/:id/lots"},
		{"/api/v1/lots/01HX5K3M9Q/mature", "/api/v1/lots/:id/mature"},
		{"/api/v1/prices/VOO", "/api/v1/prices/:id"},
		{"/api/v1/members/", "/api/v1/members/"},
		{"/api/v1/members", "/api/v1/members"},
		{"/api/v1/settings", "/api/v1/settings"},
		{"/health", "/health"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
