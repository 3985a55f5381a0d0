package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestName is the file FindManifest looks for.
const ManifestName = "package.yml"

// DefaultMain is the source file used when the manifest names none.
const DefaultMain = "main.nrs"

// ErrManifestNotFound is returned when no manifest exists in a directory or
// any of its parents.
var ErrManifestNotFound = errors.New("manifest: no " + ManifestName + " found")

// Manifest represents the parsed contents of package.yml.
type Manifest struct {
	Path         string
	Dir          string
	Name         string
	Main         string
	Entry        string
	MaxCallDepth int
	Source       SourcePin
}

// SourcePin pins the main file to a git revision. At most one field is set.
type SourcePin struct {
	Rev    string
	Tag    string
	Branch string
}

// Pinned reports whether the source is read from git rather than the
// working tree.
func (s SourcePin) Pinned() bool {
	return s.Rev != "" || s.Tag != "" || s.Branch != ""
}

// Revision returns the git revision string that ResolveRevision accepts.
func (s SourcePin) Revision() string {
	switch {
	case s.Rev != "":
		return s.Rev
	case s.Tag != "":
		return "refs/tags/" + s.Tag
	case s.Branch != "":
		return "refs/heads/" + s.Branch
	}
	return ""
}

// MainPath is the absolute path of the main source file.
func (m *Manifest) MainPath() string {
	if filepath.IsAbs(m.Main) {
		return m.Main
	}
	return filepath.Join(m.Dir, m.Main)
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses package.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest searches dir and its parents for package.yml.
func FindManifest(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(absDir, ManifestName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("manifest: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(absDir)
		if parent == absDir {
			return "", fmt.Errorf("%w (searched from %s)", ErrManifestNotFound, dir)
		}
		absDir = parent
	}
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Main == "" {
		errs.Issues = append(errs.Issues, "main must not be empty")
	}
	if m.Entry == "" {
		errs.Issues = append(errs.Issues, "entry must not be empty")
	} else if strings.ContainsAny(m.Entry, " \t(){}[];,") {
		errs.Issues = append(errs.Issues, fmt.Sprintf("entry %q is not a function name", m.Entry))
	}
	if m.MaxCallDepth < 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("max_call_depth must not be negative, found %d", m.MaxCallDepth))
	}

	set := 0
	for _, field := range []string{m.Source.Rev, m.Source.Tag, m.Source.Branch} {
		if field != "" {
			set++
		}
	}
	if set > 1 {
		errs.Issues = append(errs.Issues, "source accepts only one of rev, tag or branch")
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

type manifestFile struct {
	Name         string      `yaml:"name"`
	Main         *string     `yaml:"main"`
	Entry        *string     `yaml:"entry"`
	MaxCallDepth int         `yaml:"max_call_depth"`
	Source       *sourceYAML `yaml:"source"`
}

type sourceYAML struct {
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
}

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:         path,
		Dir:          filepath.Dir(path),
		Name:         strings.TrimSpace(mf.Name),
		Main:         DefaultMain,
		Entry:        DefaultEntry,
		MaxCallDepth: mf.MaxCallDepth,
	}
	if mf.Main != nil {
		result.Main = strings.TrimSpace(*mf.Main)
	}
	if mf.Entry != nil {
		result.Entry = strings.TrimSpace(*mf.Entry)
	}
	if mf.Source != nil {
		result.Source = SourcePin{
			Rev:    strings.TrimSpace(mf.Source.Rev),
			Tag:    strings.TrimSpace(mf.Source.Tag),
			Branch: strings.TrimSpace(mf.Source.Branch),
		}
	}
	return result
}
