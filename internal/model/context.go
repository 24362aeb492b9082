package model

import "strings"

// Context is the merged key/value data available to templates and hooks
// during one build. Values are scalars, nested mappings, or sequences as
// produced by the YAML/JSON decoders.
type Context map[string]any

// Clone returns a deep copy. Mappings and sequences are copied recursively;
// scalars are shared.
func (c Context) Clone() Context {
	if c == nil {
		return Context{}
	}

	out := make(Context, len(c))
	for k, v := range c {
		out[k] = cloneValue(v)
	}

	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Context:
		return val.Clone()
	case map[string]any:
		return Context(val).Clone()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}

		return out
	default:
		return v
	}
}

// Merge applies other on top of c, key by key. Later sources win whole
// values; there is no per-key deep merge, matching the precedence contract
// of the context builder.
func (c Context) Merge(other Context) {
	for k, v := range other {
		c[k] = v
	}
}

// Resolve walks a dotted path like "a.b" and returns the mapping found
// there. An empty path returns c itself. A missing segment or a non-mapping
// intermediate is a hard error: a missing key means the tree and the context
// disagree and must not silently produce empty output.
func (c Context) Resolve(dotted string) (Context, error) {
	if dotted == "" {
		return c, nil
	}

	current := c
	walked := make([]string, 0, 4)

	for _, key := range strings.Split(dotted, ".") {
		walked = append(walked, key)

		value, ok := current[key]
		if !ok {
			return nil, &ContextPathError{Path: dotted, Missing: strings.Join(walked, ".")}
		}

		child, ok := asContext(value)
		if !ok {
			return nil, &ContextPathError{Path: dotted, Missing: strings.Join(walked, "."), NotMapping: true}
		}

		current = child
	}

	return current, nil
}

func asContext(v any) (Context, bool) {
	switch val := v.(type) {
	case Context:
		return val, true
	case map[string]any:
		return Context(val), true
	default:
		return nil, false
	}
}

// Metadata returns the invocation metadata block, or an empty context when
// none has been injected yet.
func (c Context) Metadata() Context {
	meta, ok := asContext(c[ReservedKey])
	if !ok {
		return Context{}
	}

	return meta
}
