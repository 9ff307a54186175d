package httpmetrics

import "testing"

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		path string
		want string
	}{
		{"", "/"},
		{"/api/users/format", "/api/users/format"},
		{"/api/users/format/", "/api/users/format"},
		{"/api/users/format/batch", "/api/users/format/batch"},
		{"/metrics", "/metrics"},
		{"/api/users/123/format", "other"},
		{"/wp-admin", "other"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			if got := NormalizePath(tc.path); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
