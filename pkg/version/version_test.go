package version

import (
	"testing"
)

func Test_makeVersionString(t *testing.T) {
	tests := []struct {
		name       string
		version    string
		commitHash string
		expected   string
	}{
		{"empty", "", "", "development"},
		{"version only", "v1.2.0", "", "v1.2.0"},
		{"version and commit", "v1.2.0", "abc123", "v1.2.0(abc123)"},
		{"commit without version", "", "abc123", "development(abc123)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual := makeVersionString(tc.version, tc.commitHash)
			if actual != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, actual)
			}
		})
	}
}
