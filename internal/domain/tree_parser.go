package domain

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"embryo.dev/pkg/embryo/internal/adapter"
	m "embryo.dev/pkg/embryo/internal/model"
)

// ParsedTree is the result of one tree parse: the classified node tree plus
// the side tables the renderer and incubator consume.
type ParsedTree struct {
	// Root is a synthetic directory node holding the top-level entries.
	Root *m.TreeNode
	// Dirs lists every directory path, parents before children.
	Dirs []m.Path
	// Files lists every file path in declaration order.
	Files []m.Path
	// TemplateMeta maps templated file paths to their directives.
	TemplateMeta map[m.Path]m.Directive
	// Nested lists nested-embryo directives in declaration order.
	Nested []m.NestedEmbryoRef
	// MetadataDir is the tree-declared metadata directory, or empty when
	// the tree declares none and the conventional default applies.
	MetadataDir m.Path
}

// TreeParser renders a tree spec against the context and classifies every
// entry into one of the four TreeNode shapes.
type TreeParser struct {
	engine adapter.TemplateEngine
}

// NewTreeParser constructs a TreeParser.
func NewTreeParser(engine adapter.TemplateEngine) *TreeParser {
	return &TreeParser{engine: engine}
}

// Parse renders treeSrc as a template, decodes the result as YAML, and
// classifies the entries. The bundle is consulted so a bare file name that
// matches a template key becomes a templated file rendered against the full
// context, the way a tree-relative template path or a top-level template
// name binds implicitly.
func (p *TreeParser) Parse(treeSrc string, ctx m.Context, bundle m.TemplateBundle) (*ParsedTree, error) {
	rendered, err := p.engine.Render(m.TreeFileName, treeSrc, ctx)
	if err != nil {
		return nil, fmt.Errorf("rendering tree spec: %w", err)
	}

	var raw []any
	if err := yaml.Unmarshal([]byte(rendered), &raw); err != nil {
		return nil, fmt.Errorf("decoding tree spec: %w", err)
	}

	parsed := &ParsedTree{TemplateMeta: make(map[m.Path]m.Directive)}

	children, err := p.parseEntries(parsed, raw, "", bundle)
	if err != nil {
		return nil, err
	}

	parsed.Root = m.NewDirectory("", children)

	return parsed, nil
}

func (p *TreeParser) parseEntries(parsed *ParsedTree, entries []any, parent string, bundle m.TemplateBundle) ([]*m.TreeNode, error) {
	nodes := make([]*m.TreeNode, 0, len(entries))

	for _, entry := range entries {
		switch item := entry.(type) {
		case map[string]any:
			node, err := p.parseMapping(parsed, item, parent, bundle)
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, node)

		case string:
			node, err := p.parseString(parsed, item, parent, bundle)
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, node)

		default:
			return nil, &m.TreeGrammarError{Node: parent, Raw: fmt.Sprint(entry)}
		}
	}

	return nodes, nil
}

// parseMapping classifies a single-key mapping entry: a string value is a
// directive (templated file, or nested embryo under the reserved key), a
// sequence value is a directory.
func (p *TreeParser) parseMapping(parsed *ParsedTree, item map[string]any, parent string, bundle m.TemplateBundle) (*m.TreeNode, error) {
	if len(item) != 1 {
		return nil, &m.TreeGrammarError{Node: parent, Raw: fmt.Sprintf("mapping with %d keys", len(item))}
	}

	var key string
	for k := range item {
		key = k
	}

	switch value := item[key].(type) {
	case string:
		directive, err := m.ParseDirective(value)
		if err != nil {
			return nil, &m.TreeGrammarError{Node: filepath.Join(parent, key), Raw: value}
		}

		if key == m.ReservedKey {
			parsed.Nested = append(parsed.Nested, m.NestedEmbryoRef{
				Name:        directive.Name,
				ContextPath: directive.ContextPath,
				Dir:         m.Path(parent),
			})

			return m.NewNestedEmbryo(directive), nil
		}

		fpath := m.Path(filepath.Join(parent, key))
		parsed.Files = append(parsed.Files, fpath)
		parsed.TemplateMeta[fpath] = directive

		return m.NewTemplatedFile(key, directive), nil

	case []any:
		return p.parseDirectory(parsed, key, value, parent, bundle)

	case nil:
		return p.parseDirectory(parsed, key, nil, parent, bundle)

	default:
		return nil, &m.TreeGrammarError{Node: filepath.Join(parent, key), Raw: fmt.Sprint(value)}
	}
}

func (p *TreeParser) parseDirectory(parsed *ParsedTree, name string, entries []any, parent string, bundle m.TemplateBundle) (*m.TreeNode, error) {
	dirPath := filepath.Join(parent, name)
	parsed.Dirs = append(parsed.Dirs, m.Path(dirPath))

	if name == m.MetadataDirName {
		parsed.MetadataDir = m.Path(dirPath)
	}

	children, err := p.parseEntries(parsed, entries, dirPath, bundle)
	if err != nil {
		return nil, err
	}

	return m.NewDirectory(name, children), nil
}

// parseString classifies a bare string entry: a trailing slash is an empty
// directory, a `name(dotted.path)` directive a templated file, anything
// else a plain file. Plain files whose tree-relative path or base name
// matches a template key are promoted to templated files rendered against
// the full context. A malformed directive is a hard error, never a silent
// fallback to plain-file treatment.
func (p *TreeParser) parseString(parsed *ParsedTree, item, parent string, bundle m.TemplateBundle) (*m.TreeNode, error) {
	if strings.HasSuffix(item, "/") {
		name := strings.TrimSuffix(item, "/")
		dirPath := filepath.Join(parent, name)
		parsed.Dirs = append(parsed.Dirs, m.Path(dirPath))

		if name == m.MetadataDirName {
			parsed.MetadataDir = m.Path(dirPath)
		}

		return m.NewDirectory(name, nil), nil
	}

	directive, err := m.ParseDirective(item)
	if err != nil {
		return nil, &m.TreeGrammarError{Node: parent, Raw: item}
	}

	fpath := m.Path(filepath.Join(parent, directive.Name))

	if item == m.MetadataDirName {
		parsed.MetadataDir = fpath
		return m.NewDirectory(item, nil), nil
	}

	parsed.Files = append(parsed.Files, fpath)

	if strings.Contains(item, "(") {
		parsed.TemplateMeta[fpath] = directive
		return m.NewTemplatedFile(directive.Name, directive), nil
	}

	if _, ok := bundle[string(fpath)]; ok {
		parsed.TemplateMeta[fpath] = m.Directive{Name: string(fpath)}
		return m.NewTemplatedFile(item, m.Directive{Name: string(fpath)}), nil
	}

	if _, ok := bundle[item]; ok {
		parsed.TemplateMeta[fpath] = m.Directive{Name: item}
		return m.NewTemplatedFile(item, m.Directive{Name: item}), nil
	}

	return m.NewPlainFile(item), nil
}
