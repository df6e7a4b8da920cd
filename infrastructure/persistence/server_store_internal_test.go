package persistence

import "testing"

func TestFTS5Query(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"local files", `"local" OR "files"`},
		{`"quoted" AND (ops)`, `"quoted" OR "AND" OR "ops"`},
		{"one", `"one"`},
		{"...", ""},
	}

	for _, tt := range tests {
		if got := fts5Query(tt.in); got != tt.want {
			t.Errorf("fts5Query(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
