package template

import (
	"reflect"
	"testing"

	"github.com/promptdeck/backend/pkg/common"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "empty content",
			content: "",
			want:    nil,
		},
		{
			name:    "no tokens",
			content: "plain text without placeholders",
			want:    nil,
		},
		{
			name:    "single token",
			content: "Hello {{name}}!",
			want:    []string{"name"},
		},
		{
			name:    "duplicates keep first appearance order",
			content: "{{b}}{{a}}{{b}}",
			want:    []string{"b", "a"},
		},
		{
			name:    "case sensitive names",
			content: "{{Name}} and {{name}}",
			want:    []string{"Name", "name"},
		},
		{
			name:    "underscore and digits",
			content: "{{_x}} {{var_2}}",
			want:    []string{"_x", "var_2"},
		},
		{
			name:    "leading digit not a variable",
			content: "{{1abc}} {{ok}}",
			want:    []string{"ok"},
		},
		{
			name:    "empty braces not a variable",
			content: "{{}} {{ok}}",
			want:    []string{"ok"},
		},
		{
			name:    "inner whitespace not a variable",
			content: "{{ name }} {{tab	}} {{ok}}",
			want:    []string{"ok"},
		},
		{
			name:    "unbalanced braces stay literal",
			content: "{{open and close}} {name} {{unclosed",
			want:    nil,
		},
		{
			name:    "adjacent tokens",
			content: "{{a}}{{b}}{{c}}",
			want:    []string{"a", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %#v, want %#v", tt.content, got, tt.want)
			}
		})
	}
}

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name    string
		content string
		values  map[string]string
		want    string
	}{
		{
			name:    "empty values leave content unchanged",
			content: "Hello {{name}}, you are {{age}}",
			values:  map[string]string{},
			want:    "Hello {{name}}, you are {{age}}",
		},
		{
			name:    "missing value keeps literal token",
			content: "Hello {{name}}, you are {{age}} years old",
			values:  map[string]string{"name": "Ana"},
			want:    "Hello Ana, you are {{age}} years old",
		},
		{
			name:    "all occurrences replaced identically",
			content: "{{x}} and {{x}} and {{x}}",
			values:  map[string]string{"x": "y"},
			want:    "y and y and y",
		},
		{
			name:    "explicit empty value replaces",
			content: "a{{gap}}b",
			values:  map[string]string{"gap": ""},
			want:    "ab",
		},
		{
			name:    "substituted value is not rescanned",
			content: "{{outer}}",
			values:  map[string]string{"outer": "{{inner}}", "inner": "boom"},
			want:    "{{inner}}",
		},
		{
			name:    "malformed tokens untouched",
			content: "{{ name }} {{1x}} {{ok}}",
			values:  map[string]string{"name": "a", "1x": "b", "ok": "c"},
			want:    "{{ name }} {{1x}} c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Substitute(tt.content, tt.values)
			if got != tt.want {
				t.Errorf("Substitute() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSubstituteStableAfterOnePass(t *testing.T) {
	content := "Hello {{name}}, {{name}} again, missing {{other}}"
	values := map[string]string{"name": "Ana"}

	once := Substitute(content, values)
	twice := Substitute(once, values)
	if once != twice {
		t.Fatalf("second pass changed output: %q -> %q", once, twice)
	}
}

func TestMissing(t *testing.T) {
	tests := []struct {
		name    string
		content string
		values  map[string]string
		want    []string
	}{
		{
			name:    "all missing in extract order",
			content: "{{b}}{{a}}{{b}}",
			values:  map[string]string{},
			want:    []string{"b", "a"},
		},
		{
			name:    "filled values drop out",
			content: "Hello {{name}}, you are {{age}} years old",
			values:  map[string]string{"name": "Ana"},
			want:    []string{"age"},
		},
		{
			name:    "whitespace-only value counts as missing",
			content: "{{a}} {{b}}",
			values:  map[string]string{"a": "  \t", "b": "x"},
			want:    []string{"a"},
		},
		{
			name:    "nothing missing",
			content: "{{a}}",
			values:  map[string]string{"a": "v"},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Missing(tt.content, tt.values)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Missing() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestMissingIsSubsetOfExtract(t *testing.T) {
	content := "{{a}} {{b}} {{c}} {{a}}"
	extracted := Extract(content)
	referenced := make(map[string]bool, len(extracted))
	for _, name := range extracted {
		referenced[name] = true
	}

	for _, name := range Missing(content, map[string]string{"b": "x"}) {
		if !referenced[name] {
			t.Errorf("Missing() returned %q which Extract() never produced", name)
		}
	}
}

func TestReconcile(t *testing.T) {
	existing := []common.Variable{
		{Name: "language", Type: common.VariableTypeSelect, DefaultValue: "Go", Options: []string{"Go", "Python"}},
		{Name: "legacy", Type: common.VariableTypeTextarea, DefaultValue: "old"},
	}

	got := Reconcile("Review this {{language}} code: {{code}}", existing)

	want := []common.Variable{
		{Name: "language", Type: common.VariableTypeSelect, DefaultValue: "Go", Options: []string{"Go", "Python"}},
		{Name: "code", Type: common.VariableTypeText, DefaultValue: ""},
		{Name: "legacy", Type: common.VariableTypeTextarea, DefaultValue: "old"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Reconcile() = %#v, want %#v", got, want)
	}
}

func TestReconcileNoExisting(t *testing.T) {
	got := Reconcile("{{b}} then {{a}}", nil)
	want := []common.Variable{
		{Name: "b", Type: common.VariableTypeText, DefaultValue: ""},
		{Name: "a", Type: common.VariableTypeText, DefaultValue: ""},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Reconcile() = %#v, want %#v", got, want)
	}
}

func TestReconcileKeepsUnreferencedOrder(t *testing.T) {
	existing := []common.Variable{
		{Name: "z", Type: common.VariableTypeNumber, DefaultValue: "1"},
		{Name: "m", Type: common.VariableTypeText, DefaultValue: "2"},
		{Name: "a", Type: common.VariableTypeText, DefaultValue: "3"},
	}

	got := Reconcile("no tokens here", existing)
	if !reflect.DeepEqual(got, existing) {
		t.Errorf("Reconcile() = %#v, want existing order preserved %#v", got, existing)
	}
}

func TestPreview(t *testing.T) {
	text, missing := Preview(
		"Hello {{name}}, you are {{age}} years old",
		map[string]string{"name": "Ana"},
	)

	if text != "Hello Ana, you are {{age}} years old" {
		t.Errorf("unexpected preview text: %q", text)
	}
	if !reflect.DeepEqual(missing, []string{"age"}) {
		t.Errorf("unexpected missing names: %#v", missing)
	}
}
