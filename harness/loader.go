package harness

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default document locations, relative to the loader root.
const (
	DefaultActionPath   = "action.yml"
	DefaultWorkflowPath = ".github/workflows/test.yml"
)

// Loader reads and validates the action and workflow documents.
// Parsed definitions are cached by resolved path; repeat calls for the same
// path return the same in-memory value without touching the file system.
// The cache is single-session state and carries no locking.
type Loader struct {
	root  string
	cache map[string]any
	l     *slog.Logger
}

func NewLoader(root string, l *slog.Logger) *Loader {
	if root == "" {
		root = "."
	}
	if l == nil {
		l = slog.Default()
	}
	return &Loader{
		root:  root,
		cache: make(map[string]any),
		l:     l,
	}
}

// ParseAction loads the composite action definition at path (default:
// action.yml under the loader root). Returns a *ConfigError when the file is
// missing, malformed, or fails a structural invariant.
func (ld *Loader) ParseAction(path string) (*ActionDefinition, error) {
	resolved, err := ld.resolve(path, DefaultActionPath)
	if err != nil {
		return nil, err
	}

	if cached, ok := ld.cache[resolved]; ok {
		def, ok := cached.(*ActionDefinition)
		if !ok {
			return nil, &ConfigError{Path: resolved, Reason: "cached document is not an action definition"}
		}
		return def, nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, &ConfigError{Path: resolved, Reason: "reading action file", Err: err}
	}

	var def ActionDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, &ConfigError{Path: resolved, Reason: "unmarshalling action YAML", Err: err}
	}

	if err := validateAction(resolved, &def); err != nil {
		return nil, err
	}

	ld.l.Debug("parsed action definition", "path", resolved, "steps", len(def.Runs.Steps))
	ld.cache[resolved] = &def
	return &def, nil
}

// ParseWorkflow loads the CI workflow definition at path (default:
// .github/workflows/test.yml under the loader root). Same contract as
// ParseAction.
func (ld *Loader) ParseWorkflow(path string) (*WorkflowDefinition, error) {
	resolved, err := ld.resolve(path, DefaultWorkflowPath)
	if err != nil {
		return nil, err
	}

	if cached, ok := ld.cache[resolved]; ok {
		def, ok := cached.(*WorkflowDefinition)
		if !ok {
			return nil, &ConfigError{Path: resolved, Reason: "cached document is not a workflow definition"}
		}
		return def, nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, &ConfigError{Path: resolved, Reason: "reading workflow file", Err: err}
	}

	var def WorkflowDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, &ConfigError{Path: resolved, Reason: "unmarshalling workflow YAML", Err: err}
	}

	if err := validateWorkflow(resolved, &def); err != nil {
		return nil, err
	}

	ld.l.Debug("parsed workflow definition", "path", resolved, "jobs", len(def.Jobs))
	ld.cache[resolved] = &def
	return &def, nil
}

// ClearCache drops all cached entries.
func (ld *Loader) ClearCache() {
	ld.cache = make(map[string]any)
}

// CacheSize returns the number of distinct paths currently cached.
func (ld *Loader) CacheSize() int {
	return len(ld.cache)
}

// resolve makes path absolute under the loader root and rejects paths that
// escape it via "..".
func (ld *Loader) resolve(path, fallback string) (string, error) {
	if path == "" {
		path = fallback
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(ld.root, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &ConfigError{Path: path, Reason: "resolving path", Err: err}
	}
	absRoot, err := filepath.Abs(ld.root)
	if err != nil {
		return "", &ConfigError{Path: ld.root, Reason: "resolving loader root", Err: err}
	}

	rel, err := filepath.Rel(absRoot, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", &ConfigError{Path: path, Reason: fmt.Sprintf("path escapes loader root %q", ld.root)}
	}
	return abs, nil
}

func validateAction(path string, def *ActionDefinition) error {
	switch {
	case def.Name == "":
		return &ConfigError{Path: path, Reason: "action name must not be empty"}
	case def.Description == "":
		return &ConfigError{Path: path, Reason: "action description must not be empty"}
	case def.Runs.Using != RunsComposite:
		return &ConfigError{Path: path, Reason: fmt.Sprintf("runs.using must be %q, got %q", RunsComposite, def.Runs.Using)}
	case len(def.Runs.Steps) == 0:
		return &ConfigError{Path: path, Reason: "action must declare at least one step"}
	}

	for i, step := range def.Runs.Steps {
		if step.Shell != "" && !knownShells[step.Shell] {
			return &ConfigError{Path: path, Reason: fmt.Sprintf("step %d has unknown shell %q", i, step.Shell)}
		}
	}
	return nil
}

func validateWorkflow(path string, def *WorkflowDefinition) error {
	switch {
	case def.Name == "":
		return &ConfigError{Path: path, Reason: "workflow name must not be empty"}
	case len(def.On) == 0:
		return &ConfigError{Path: path, Reason: "workflow must declare at least one trigger"}
	case len(def.Jobs) == 0:
		return &ConfigError{Path: path, Reason: "workflow must declare at least one job"}
	}
	return nil
}
