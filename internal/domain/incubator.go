package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"embryo.dev/pkg/embryo/internal/adapter"
	"embryo.dev/pkg/embryo/internal/controller"
	m "embryo.dev/pkg/embryo/internal/model"
)

// HatchArgs are the inputs of one embryo invocation.
type HatchArgs struct {
	// Name is the embryo to hatch.
	Name string
	// Dest is the destination directory; empty means the working directory.
	Dest m.Path
	// Overrides are caller-supplied context values, highest-precedence
	// user data.
	Overrides m.Context
	// ContextFile optionally names an external context file merged between
	// the bundle's static context and the overrides.
	ContextFile m.Path
}

// Prompter collects values for the given prompts, keyed by prompt name.
type Prompter func(prompts []m.Prompt) (map[string]string, error)

// Incubator drives one embryo invocation end to end: resolve the bundle,
// build and validate the context, resolve relationships, run hooks, parse
// the tree and templates, render, persist history, and recurse into nested
// embryo references depth-first. Execution is synchronous and runs to
// completion or first fatal error; completed touch/render work is never
// rolled back.
type Incubator struct {
	fs       adapter.ProjectFS
	engine   adapter.TemplateEngine
	resolver *PathResolver
	hooks    *HookRegistry
	ui       controller.UI

	contexts *ContextBuilder
	schemas  *SchemaValidator
	parser   *TreeParser
	store    *TemplateStore
	renderer *Renderer
	scanner  *FileScanner

	prompter   Prompter
	clock      func() time.Time
	newHistory func() adapter.HistoryStore
}

// Option configures an Incubator.
type Option func(*Incubator)

// WithPrompter enables interactive collection of missing prompt values.
func WithPrompter(p Prompter) Option {
	return func(inc *Incubator) {
		inc.prompter = p
	}
}

// WithClock replaces the metadata timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(inc *Incubator) {
		inc.clock = clock
	}
}

// WithHistoryFactory replaces the per-invocation history store factory.
func WithHistoryFactory(factory func() adapter.HistoryStore) Option {
	return func(inc *Incubator) {
		inc.newHistory = factory
	}
}

// NewIncubator wires the engine components over shared infrastructure.
// Registries and the template engine are read-only and reused across
// invocations; the history store is created fresh per invocation.
func NewIncubator(
	fs adapter.ProjectFS,
	engine adapter.TemplateEngine,
	codecs *adapter.CodecRegistry,
	resolver *PathResolver,
	hooks *HookRegistry,
	ui controller.UI,
	opts ...Option,
) *Incubator {
	inc := &Incubator{
		fs:       fs,
		engine:   engine,
		resolver: resolver,
		hooks:    hooks,
		ui:       ui,
		contexts: NewContextBuilder(fs),
		schemas:  NewSchemaValidator(),
		parser:   NewTreeParser(engine),
		store:    NewTemplateStore(fs, engine),
		renderer: NewRenderer(fs, codecs, engine, ui),
		scanner:  NewFileScanner(fs, codecs),
		clock:    time.Now,
	}

	inc.newHistory = func() adapter.HistoryStore {
		return adapter.NewLocalHistoryStore(fs)
	}

	for _, opt := range opts {
		opt(inc)
	}

	return inc
}

// Hatch generates an embryo along with every embryo nested in its tree.
// The returned results list the parent first, then nested builds in
// depth-first declaration order.
func (inc *Incubator) Hatch(ctx context.Context, args HatchArgs) ([]*BuildResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	desc, err := inc.resolver.Resolve(args.Name)
	if err != nil {
		return nil, err
	}

	dest, err := inc.absDest(args.Dest)
	if err != nil {
		return nil, err
	}

	inc.ui.Say("hatching %q into %s", desc.Name, dest)
	slog.Info("hatching embryo", "name", desc.Name, "bundle", desc.Path, "destination", dest)

	merged, err := inc.contexts.Build(desc, args.Overrides, args.ContextFile)
	if err != nil {
		return nil, err
	}

	if err := inc.collectPrompts(desc, merged); err != nil {
		return nil, err
	}

	md := m.Metadata{
		Name:        desc.Name,
		Path:        desc.Path,
		Destination: dest,
		Timestamp:   inc.clock().UTC().Format(time.RFC3339),
		Action:      m.ActionHatch,
	}
	StampMetadata(merged, md)

	schemaSrc, err := inc.loadSchema(desc)
	if err != nil {
		return nil, err
	}

	if schemaSrc != "" {
		if err := inc.schemas.Validate(desc.Name, schemaSrc, merged); err != nil {
			return nil, err
		}
	}

	history := inc.newHistory()
	if err := history.Load(dest); err != nil {
		// history is advisory; a broken record must not block generation
		slog.Warn("history load failed, continuing without records", "destination", dest, "error", err)
	}

	hooks, hasHooks := inc.hooks.Lookup(desc.Name)

	if hasHooks {
		if err := NewRelationshipResolver(history).Bind(merged, hooks.Relationships()); err != nil {
			return nil, err
		}

		slog.Debug("running pre-create hook", "embryo", desc.Name)

		merged, err = hooks.PreCreate(merged)
		if err != nil {
			return nil, fmt.Errorf("pre-create hook for %q: %w", desc.Name, err)
		}

		if merged == nil {
			merged = m.Context{}
		}

		// the hook can replace the context but never its metadata, and a
		// schema violation it introduced must not slip through
		StampMetadata(merged, md)

		if schemaSrc != "" {
			if err := inc.schemas.Validate(desc.Name, schemaSrc, merged); err != nil {
				return nil, err
			}
		}
	}

	bundle, err := inc.store.Load(desc, merged)
	if err != nil {
		return nil, err
	}

	treeSrc, err := inc.loadTree(desc)
	if err != nil {
		return nil, err
	}

	parsed, err := inc.parser.Parse(treeSrc, merged, bundle)
	if err != nil {
		return nil, err
	}

	refs, err := inc.renderer.Build(dest, parsed, bundle, merged)
	if err != nil {
		return nil, err
	}

	dotDir := m.Path(filepath.Join(string(dest), m.MetadataDirName))
	if parsed.MetadataDir != "" {
		dotDir = m.Path(filepath.Join(string(dest), string(parsed.MetadataDir)))
	}

	if err := history.Persist(dotDir, desc.Name, merged); err != nil {
		return nil, err
	}

	files, err := inc.scanner.Scan(dest, parsed.Files)
	if err != nil {
		return nil, err
	}

	result := &BuildResult{
		Descriptor:  desc,
		Destination: dest,
		Context:     merged,
		Files:       files,
		Nested:      refs,
	}

	results := []*BuildResult{result}

	// nested builds run strictly after the parent's render and persist, so
	// children can see and depend on the parent's just-written state
	for _, ref := range refs {
		scoped, err := merged.Resolve(ref.ContextPath)
		if err != nil {
			return nil, fmt.Errorf("nested embryo %q: %w", ref.Name, err)
		}

		inc.ui.Say("hatching nested embryo %q", ref.Name)

		children, err := inc.Hatch(ctx, HatchArgs{
			Name:      ref.Name,
			Dest:      m.Path(filepath.Join(string(dest), string(ref.Dir))),
			Overrides: scoped.Clone(),
		})
		if err != nil {
			return nil, err
		}

		results = append(results, children...)
	}

	if hasHooks {
		slog.Debug("running post-create hook", "embryo", desc.Name)

		if err := hooks.PostCreate(result, merged); err != nil {
			return nil, fmt.Errorf("post-create hook for %q: %w", desc.Name, err)
		}

		if err := result.Files.Flush(); err != nil {
			return nil, err
		}
	}

	return results, nil
}

func (inc *Incubator) absDest(dest m.Path) (m.Path, error) {
	if dest == "" {
		dest = "."
	}

	if filepath.IsAbs(string(dest)) {
		return m.Path(filepath.Clean(string(dest))), nil
	}

	abs, err := filepath.Abs(string(dest))
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}

// collectPrompts gathers values for prompt entries the merged context does
// not already satisfy. Without a prompter, prompt defaults apply silently.
func (inc *Incubator) collectPrompts(desc m.EmbryoDescriptor, merged m.Context) error {
	exists, err := inc.fs.FileExists(desc.PromptsPath())
	if err != nil || !exists {
		return err
	}

	data, err := inc.fs.ReadFile(desc.PromptsPath())
	if err != nil {
		return err
	}

	var prompts []m.Prompt
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return fmt.Errorf("loading %s: %w", desc.PromptsPath(), err)
	}

	missing := make([]m.Prompt, 0, len(prompts))

	for _, prompt := range prompts {
		if _, ok := merged[prompt.Name]; !ok {
			missing = append(missing, prompt)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	if inc.prompter == nil {
		for _, prompt := range missing {
			merged[prompt.Name] = prompt.Default
		}

		return nil
	}

	values, err := inc.prompter(missing)
	if err != nil {
		return err
	}

	for name, value := range values {
		merged[name] = value
	}

	return nil
}

func (inc *Incubator) loadSchema(desc m.EmbryoDescriptor) (string, error) {
	exists, err := inc.fs.FileExists(desc.SchemaPath())
	if err != nil || !exists {
		return "", err
	}

	data, err := inc.fs.ReadFile(desc.SchemaPath())
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// loadTree reads the bundle's tree spec. A bundle without one hatches an
// empty destination, which still records history.
func (inc *Incubator) loadTree(desc m.EmbryoDescriptor) (string, error) {
	exists, err := inc.fs.FileExists(desc.TreePath())
	if err != nil || !exists {
		return "", err
	}

	data, err := inc.fs.ReadFile(desc.TreePath())
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// ManifestEntry is one batch hatch: an embryo, a destination, and seed
// context values.
type ManifestEntry struct {
	Embryo  string    `yaml:"embryo"`
	Dest    string    `yaml:"dest"`
	Context m.Context `yaml:"context"`
}

// HatchBatch hatches several embryos into distinct destinations, at most
// parallel at a time. Each entry gets its own incubator from build, keeping
// the single-writer-per-destination rule intact; duplicate destinations are
// rejected up front.
func HatchBatch(ctx context.Context, build func() *Incubator, entries []ManifestEntry, parallel int) error {
	seen := make(map[string]struct{}, len(entries))

	for _, entry := range entries {
		dest := filepath.Clean(entry.Dest)
		if _, dup := seen[dest]; dup {
			return fmt.Errorf("duplicate destination %q in manifest", entry.Dest)
		}

		seen[dest] = struct{}{}
	}

	g, gctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}

	for _, entry := range entries {
		g.Go(func() error {
			_, err := build().Hatch(gctx, HatchArgs{
				Name:      entry.Embryo,
				Dest:      m.Path(entry.Dest),
				Overrides: entry.Context,
			})

			return err
		})
	}

	return g.Wait()
}
