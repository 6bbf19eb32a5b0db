package galaxy

import (
	"strings"
	"unicode"

	"github.com/promptdeck/backend/pkg/common"
)

// Similarity scores how related two prompts are, in [0,1]. Three signals
// are blended with the configured weights: exact category equality, Jaccard
// overlap of tag sets and Jaccard overlap of lowercased title words. The
// score is symmetric in its arguments.
func (b *Builder) Similarity(a, other common.Prompt) float64 {
	score := 0.0
	if a.Category == other.Category {
		score += b.cfg.CategoryWeight
	}
	score += b.cfg.TagWeight * jaccard(lowerSet(a.Tags), lowerSet(other.Tags))
	score += b.cfg.TitleWeight * jaccard(titleWords(a.Title), titleWords(other.Title))
	return score
}

// jaccard computes |a∩b| / |a∪b|. Two empty sets share nothing, so the
// overlap is 0 rather than 1; absent metadata must not create edges.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

func lowerSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			set[item] = struct{}{}
		}
	}
	return set
}

// titleWords splits a title into its lowercased word set. Anything that is
// not a letter or digit separates words, so "Code-Review" and "code review"
// produce the same set.
func titleWords(title string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
