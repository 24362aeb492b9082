package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirective(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantName string
		wantPath string
	}{
		{name: "bare name", raw: "main.go", wantName: "main.go", wantPath: ""},
		{name: "name with path", raw: "main.go(app)", wantName: "main.go", wantPath: "app"},
		{name: "dotted path", raw: "config.yml(service.db)", wantName: "config.yml", wantPath: "service.db"},
		{name: "empty parens", raw: "notes.txt()", wantName: "notes.txt", wantPath: ""},
		{name: "spaces inside parens", raw: "a.txt( ctx )", wantName: "a.txt", wantPath: "ctx"},
		{name: "dashes and slashes", raw: "some-dir/file_name.md(x)", wantName: "some-dir/file_name.md", wantPath: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			directive, err := ParseDirective(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, directive.Name)
			assert.Equal(t, tt.wantPath, directive.ContextPath)
		})
	}
}

func TestParseDirective_Malformed(t *testing.T) {
	tests := []string{
		"foo(bar",
		"foo)bar(",
		"foo(bar))",
		"(app)",
		"",
		"foo(a b)",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseDirective(raw)
			require.Error(t, err)

			var grammarErr *TreeGrammarError
			assert.ErrorAs(t, err, &grammarErr)
		})
	}
}

func TestTreeNodeConstructors(t *testing.T) {
	dir := NewDirectory("src", []*TreeNode{NewPlainFile("a.txt")})
	assert.Equal(t, KindDirectory, dir.Kind)
	assert.Len(t, dir.Children, 1)

	plain := NewPlainFile("a.txt")
	assert.Equal(t, KindPlainFile, plain.Kind)
	assert.Equal(t, "a.txt", plain.Name)

	tmpl := NewTemplatedFile("b.yml", Directive{Name: "b.yml", ContextPath: "sub"})
	assert.Equal(t, KindTemplatedFile, tmpl.Kind)
	assert.Equal(t, "sub", tmpl.Directive.ContextPath)

	nested := NewNestedEmbryo(Directive{Name: "child", ContextPath: "svc"})
	assert.Equal(t, KindNestedEmbryo, nested.Kind)
	assert.Equal(t, "child", nested.Directive.Name)
}
