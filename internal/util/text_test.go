package util

import "testing"

func TestSanitizePostgresText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain utf8", input: "hello {{name}}", want: "hello {{name}}"},
		{name: "null byte removed", input: "hel\x00lo", want: "hello"},
		{name: "invalid utf8 removed", input: string([]byte{'a', 0xff, 'b'}), want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizePostgresText(tt.input); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
