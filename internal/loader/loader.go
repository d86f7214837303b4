// Package loader reads model definitions from YAML files.
package loader

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/leapstack-labs/bollhav/internal/starlark"
	"github.com/leapstack-labs/bollhav/pkg/model"
	"golang.org/x/sync/errgroup"
)

// Result holds the models found under a directory.
type Result struct {
	// Models are sorted by name.
	Models []*model.Model
	// Files lists every model file that was read, sorted.
	Files []string
	// Sources maps a model name to the file that defined it.
	Sources map[string]string
}

// Find returns the model with the given name.
func (r *Result) Find(name string) (*model.Model, bool) {
	i, ok := slices.BinarySearchFunc(r.Models, name, func(m *model.Model, n string) int {
		return cmp.Compare(m.Name(), n)
	})
	if !ok {
		return nil, false
	}
	return r.Models[i], true
}

// Loader discovers and parses model files.
type Loader struct {
	evaluator   *starlark.Evaluator
	logger      *slog.Logger
	concurrency int
	debounce    time.Duration
}

// Option configures a Loader.
type Option func(*Loader)

// WithEvaluator sets the evaluator used for {expr: ...} extra values.
func WithEvaluator(e *starlark.Evaluator) Option {
	return func(l *Loader) { l.evaluator = e }
}

// WithConcurrency bounds the number of files parsed at once.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithDebounce sets how long Watch waits for changes to settle.
func WithDebounce(d time.Duration) Option {
	return func(l *Loader) { l.debounce = d }
}

// New creates a Loader. A nil logger discards output.
func New(logger *slog.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	l := &Loader{
		logger:      logger,
		concurrency: runtime.GOMAXPROCS(0),
		debounce:    100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.evaluator == nil {
		l.evaluator = starlark.NewEvaluator(logger)
	}
	return l
}

// Load reads every model file under dir with default settings.
func Load(ctx context.Context, dir string) (*Result, error) {
	return New(nil).Load(ctx, dir)
}

// Load reads and validates every *.yaml and *.yml file under dir.
//
// Files that fail are reported as *FileError values joined into the returned
// error; the Result still holds every model that loaded cleanly. Models that
// share a name are all dropped and reported as *DuplicateModelError.
func (l *Loader) Load(ctx context.Context, dir string) (*Result, error) {
	files, err := discover(dir)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("discovered model files", slog.String("dir", dir), slog.Int("count", len(files)))

	type fileModels struct {
		models []*model.Model
		err    error
	}
	parsed := make([]fileModels, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			models, err := l.loadFile(path)
			parsed[i] = fileModels{models: models, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Files: files, Sources: make(map[string]string)}
	var errs []error
	byName := make(map[string][]string)
	models := make(map[string]*model.Model)

	for i, path := range files {
		if parsed[i].err != nil {
			errs = append(errs, &FileError{Path: path, Err: parsed[i].err})
			continue
		}
		for _, m := range parsed[i].models {
			byName[m.Name()] = append(byName[m.Name()], path)
			models[m.Name()] = m
		}
	}

	for _, name := range slices.Sorted(maps.Keys(byName)) {
		paths := byName[name]
		if len(paths) > 1 {
			errs = append(errs, &DuplicateModelError{Name: name, Paths: paths})
			continue
		}
		result.Models = append(result.Models, models[name])
		result.Sources[name] = paths[0]
	}
	slices.SortFunc(result.Models, func(a, b *model.Model) int {
		return cmp.Compare(a.Name(), b.Name())
	})

	l.logger.Debug("loaded models", slog.Int("models", len(result.Models)), slog.Int("errors", len(errs)))
	return result, errors.Join(errs...)
}

func (l *Loader) loadFile(path string) ([]*model.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	docs, err := parseDocuments(data)
	if err != nil {
		return nil, err
	}

	models := make([]*model.Model, 0, len(docs))
	seen := make(map[string]bool, len(docs))
	for _, doc := range docs {
		m, err := l.build(doc)
		if err != nil {
			if doc.line > 0 {
				return nil, fmt.Errorf("line %d: %w", doc.line, err)
			}
			return nil, err
		}
		if seen[m.Name()] {
			return nil, &DuplicateModelError{Name: m.Name(), Paths: []string{path}}
		}
		seen[m.Name()] = true
		models = append(models, m)
	}
	return models, nil
}

// discover returns model files under dir, skipping hidden directories.
func discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("models directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("models directory %s is not a directory", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if isModelFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	slices.Sort(files)
	return files, nil
}

func isModelFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return !strings.HasPrefix(filepath.Base(path), ".")
	default:
		return false
	}
}
