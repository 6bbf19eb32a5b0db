package store

import (
	"reflect"
	"testing"

	"github.com/promptdeck/backend/pkg/common"
)

func TestSanitizePrompt(t *testing.T) {
	tests := []struct {
		name string
		in   common.Prompt
		want common.Prompt
	}{
		{
			name: "trims title and category",
			in:   common.Prompt{Title: "  Review helper  ", Content: "body", Category: " Writing "},
			want: common.Prompt{Title: "Review helper", Content: "body", Category: "Writing", Tags: []string{}},
		},
		{
			name: "empty category falls back to General",
			in:   common.Prompt{Title: "t", Content: "c", Category: "   "},
			want: common.Prompt{Title: "t", Content: "c", Category: "General", Tags: []string{}},
		},
		{
			name: "tags deduplicated and trimmed",
			in: common.Prompt{
				Title: "t", Content: "c", Category: "General",
				Tags: []string{" go ", "go", "", "api"},
			},
			want: common.Prompt{
				Title: "t", Content: "c", Category: "General",
				Tags: []string{"go", "api"},
			},
		},
		{
			name: "null bytes stripped",
			in:   common.Prompt{Title: "bad\x00title", Content: "c\x00", Category: "General"},
			want: common.Prompt{Title: "badtitle", Content: "c", Category: "General", Tags: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			sanitizePrompt(&p)
			if !reflect.DeepEqual(p, tt.want) {
				t.Errorf("sanitizePrompt() = %+v, want %+v", p, tt.want)
			}
		})
	}
}

func TestSortColumnsWhitelist(t *testing.T) {
	for _, allowed := range []string{"created_at", "updated_at", "title", "use_count"} {
		if _, ok := sortColumns[allowed]; !ok {
			t.Errorf("expected %q to be a valid sort column", allowed)
		}
	}
	for _, rejected := range []string{"id; DROP TABLE prompts", "content", ""} {
		if _, ok := sortColumns[rejected]; ok {
			t.Errorf("expected %q to be rejected", rejected)
		}
	}
}
