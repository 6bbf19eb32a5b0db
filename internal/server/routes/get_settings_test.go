package routes

import (
	"testing"

	"github.com/promptdeck/backend/internal/store"
)

func TestValidSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*store.Settings)
		want   bool
	}{
		{name: "defaults are valid", mutate: func(s *store.Settings) {}, want: true},
		{name: "dark theme", mutate: func(s *store.Settings) { s.Theme = "dark" }, want: true},
		{name: "unknown theme", mutate: func(s *store.Settings) { s.Theme = "solarized" }, want: false},
		{name: "unknown sort column", mutate: func(s *store.Settings) { s.SortBy = "content" }, want: false},
		{name: "unknown sort order", mutate: func(s *store.Settings) { s.SortOrder = "random" }, want: false},
		{name: "items per page too low", mutate: func(s *store.Settings) { s.ItemsPerPage = 0 }, want: false},
		{name: "items per page too high", mutate: func(s *store.Settings) { s.ItemsPerPage = 101 }, want: false},
		{name: "items per page at limit", mutate: func(s *store.Settings) { s.ItemsPerPage = 100 }, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.DefaultSettings()
			tt.mutate(&s)
			if got := validSettings(s); got != tt.want {
				t.Errorf("validSettings(%+v) = %v, want %v", s, got, tt.want)
			}
		})
	}
}
