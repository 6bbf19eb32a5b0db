// Package template implements the variable engine of the prompt library:
// scanning prompt content for {{name}} placeholders, reconciling them with
// stored variable definitions, substituting user-supplied values and
// reporting which placeholders are still unfilled.
//
// All functions are pure and cheap enough to run on every keystroke of the
// editing surface. Malformed tokens ({{1abc}}, {{}}, {{ name }}) are never
// an error; they simply stay literal text so prompt content may contain
// unrelated brace sequences.
package template

import (
	"regexp"
	"strings"

	"github.com/promptdeck/backend/pkg/common"
)

// tokenRe matches {{identifier}} with no whitespace inside the braces.
// Identifiers follow the usual [A-Za-z_][A-Za-z0-9_]* grammar.
var tokenRe = regexp.MustCompile(`\{\{([A-Za-z_][A-Za-z0-9_]*)\}\}`)

// Extract returns every variable name referenced in content, each exactly
// once, in order of first appearance. Matching is case-sensitive.
func Extract(content string) []string {
	matches := tokenRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Reconcile merges the variables referenced in content with previously
// stored definitions. Referenced names keep their existing definition when
// one exists and get a plain text default otherwise. Stored definitions
// that are no longer referenced are appended at the end in their original
// relative order; pruning them is the caller's decision.
func Reconcile(content string, existing []common.Variable) []common.Variable {
	byName := make(map[string]common.Variable, len(existing))
	for _, v := range existing {
		if _, ok := byName[v.Name]; !ok {
			byName[v.Name] = v
		}
	}

	referenced := Extract(content)
	result := make([]common.Variable, 0, len(referenced)+len(existing))
	used := make(map[string]struct{}, len(referenced))

	for _, name := range referenced {
		used[name] = struct{}{}
		if v, ok := byName[name]; ok {
			result = append(result, v)
			continue
		}
		result = append(result, common.Variable{
			Name:         name,
			Type:         common.VariableTypeText,
			DefaultValue: "",
		})
	}

	for _, v := range existing {
		if _, ok := used[v.Name]; ok {
			continue
		}
		used[v.Name] = struct{}{}
		result = append(result, v)
	}

	return result
}

// Substitute replaces every recognized {{name}} token with values[name].
// Tokens without an entry in values stay literal so missing inputs remain
// visible in the output. The content is scanned exactly once; substituted
// values are never re-scanned for further tokens.
func Substitute(content string, values map[string]string) string {
	if len(values) == 0 || !strings.Contains(content, "{{") {
		return content
	}

	return tokenRe.ReplaceAllStringFunc(content, func(token string) string {
		name := token[2 : len(token)-2]
		if value, ok := values[name]; ok {
			return value
		}
		return token
	})
}

// Missing returns, in first-appearance order, every referenced variable
// name whose value is absent or blank after trimming whitespace.
func Missing(content string, values map[string]string) []string {
	var missing []string
	for _, name := range Extract(content) {
		value, ok := values[name]
		if !ok || strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// Preview renders the live preview for the editing surface: the content
// with all known values substituted plus the list of still-unfilled names.
func Preview(content string, values map[string]string) (string, []string) {
	return Substitute(content, values), Missing(content, values)
}
