package model

import "regexp"

// directivePattern is the fixed grammar for tree directive strings:
// a name of word characters, dots, hyphens, underscores and slashes,
// optionally followed by a parenthesized dotted context path. A directive
// without parens carries an empty context path.
var directivePattern = regexp.MustCompile(`^([\w./-]+)(?:\(\s*([\w.]*)\s*\))?$`)

// Directive is the parsed form of a `name(optional.dotted.path)` string,
// naming either a template (for a templated file node) or a child embryo
// (for a nested-embryo node).
type Directive struct {
	// Name is the template or embryo name.
	Name string
	// ContextPath is the dotted context sub-path; empty means the full
	// root context.
	ContextPath string
}

// ParseDirective parses a directive string against the fixed grammar.
// Malformed strings (unbalanced parens, illegal characters) are an error,
// never a silent fallback to plain-file treatment.
func ParseDirective(raw string) (Directive, error) {
	groups := directivePattern.FindStringSubmatch(raw)
	if groups == nil {
		return Directive{}, &TreeGrammarError{Raw: raw}
	}

	return Directive{Name: groups[1], ContextPath: groups[2]}, nil
}

// NodeKind discriminates the four TreeNode shapes.
type NodeKind int

// The four shapes a tree node can take. Exactly one applies per node.
const (
	KindDirectory NodeKind = iota
	KindPlainFile
	KindTemplatedFile
	KindNestedEmbryo
)

func (k NodeKind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindPlainFile:
		return "file"
	case KindTemplatedFile:
		return "templated file"
	case KindNestedEmbryo:
		return "nested embryo"
	}

	return "unknown"
}

// TreeNode is one node of the parsed tree spec: a tagged variant built by
// the four constructors below and never shape-sniffed downstream.
type TreeNode struct {
	Kind NodeKind
	// Name is the file or directory name. Empty for nested-embryo nodes.
	Name string
	// Directive carries the template reference for a templated file or the
	// child reference for a nested embryo. Zero for the other kinds.
	Directive Directive
	// Children are the ordered child nodes of a directory.
	Children []*TreeNode
}

// NewDirectory builds a directory node with ordered children.
func NewDirectory(name string, children []*TreeNode) *TreeNode {
	return &TreeNode{Kind: KindDirectory, Name: name, Children: children}
}

// NewPlainFile builds a plain file node, written empty by touch and never
// rendered.
func NewPlainFile(name string) *TreeNode {
	return &TreeNode{Kind: KindPlainFile, Name: name}
}

// NewTemplatedFile builds a templated file node rendered from the named
// template against the directive's context scope.
func NewTemplatedFile(name string, directive Directive) *TreeNode {
	return &TreeNode{Kind: KindTemplatedFile, Name: name, Directive: directive}
}

// NewNestedEmbryo builds a nested-embryo node hatched into the enclosing
// directory after the parent build completes.
func NewNestedEmbryo(directive Directive) *TreeNode {
	return &TreeNode{Kind: KindNestedEmbryo, Directive: directive}
}
