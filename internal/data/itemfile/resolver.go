package itemfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gianttproject/giantt/internal/core/item"
)

// WarningKind classifies load warnings.
type WarningKind string

const (
	WarnParse              WarningKind = "parse"
	WarnMissingInclude     WarningKind = "missing-include"
	WarnCircularInclude    WarningKind = "circular-include"
	WarnMisplacedInclude   WarningKind = "misplaced-include"
	WarnUnresolvedRequires WarningKind = "unresolved-requires"
)

// Warning is a non-fatal problem found while loading. The load carries
// on; callers decide whether to print, log or fail on them.
type Warning struct {
	Kind   WarningKind
	Source Source
	Detail string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.Source, w.Kind, w.Detail)
}

// SourceFile is one file that contributed items to a load, with its own
// include directives as written.
type SourceFile struct {
	Path     string
	Includes []string
}

// File is a loaded items file: the merged store of its own items and
// everything reachable through include directives. Includes holds the
// root file's directives, which are preserved on save; Sources lists
// every file the load read, root first, so saves can route each item
// back to the file it came from.
type File struct {
	Path        string
	OccludePath string
	Store       *Store
	Includes    []string
	Sources     []SourceFile
	Warnings    []Warning
}

// Occluded reports whether the item lives in the occlude archive.
func (f *File) Occluded(id string) bool {
	src, ok := f.Store.Origin(id)
	return ok && src.Path == f.OccludePath
}

// Occlude moves the item to the occlude archive. The move takes effect
// on the next save.
func (f *File) Occlude(id string) error {
	return f.Store.Move(id, f.OccludePath)
}

// Load reads the items file at path and resolves its includes.
//
// Relative include paths resolve against the directory of the file
// containing the directive. A file reachable through several include
// routes is merged once. An include cycle or a missing include file is
// a warning, not an error; a duplicate id across the merged set is an
// error that aborts the load.
func Load(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	r := &resolver{
		store:  NewStore(),
		active: map[string]bool{},
		done:   map[string]bool{},
	}
	includes, err := r.resolve(abs, Source{})
	if err != nil {
		return nil, err
	}

	occlude := OccludePathFor(abs)
	if _, err := os.Stat(occlude); err == nil {
		if _, err := r.resolve(occlude, Source{Path: abs}); err != nil {
			return nil, err
		}
	}

	f := &File{
		Path:        abs,
		OccludePath: occlude,
		Store:       r.store,
		Includes:    includes,
		Sources:     r.sources,
		Warnings:    r.warnings,
	}
	f.Warnings = append(f.Warnings, unresolvedWarnings(f.Store)...)
	return f, nil
}

type resolver struct {
	store    *Store
	active   map[string]bool
	done     map[string]bool
	sources  []SourceFile
	warnings []Warning
}

func (r *resolver) warnf(kind WarningKind, src Source, format string, args ...any) {
	r.warnings = append(r.warnings, Warning{Kind: kind, Source: src, Detail: fmt.Sprintf(format, args...)})
}

// resolve reads one file and recurses into its includes. from is the
// directive that led here; it is zero for the root file, whose absence
// is an error rather than a warning.
func (r *resolver) resolve(abs string, from Source) ([]string, error) {
	if r.active[abs] {
		r.warnf(WarnCircularInclude, from, "include cycle back to %s", abs)
		return nil, nil
	}
	if r.done[abs] {
		return nil, nil
	}

	file, err := os.Open(abs)
	if err != nil {
		if from.Path != "" && os.IsNotExist(err) {
			r.warnf(WarnMissingInclude, from, "include file %s does not exist", abs)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open items file: %w", err)
	}
	defer func() { _ = file.Close() }()

	r.active[abs] = true
	idx := len(r.sources)
	r.sources = append(r.sources, SourceFile{Path: abs})
	defer func() {
		delete(r.active, abs)
		r.done[abs] = true
	}()

	var (
		includes []string
		sawItem  bool
		baseDir  = filepath.Dir(abs)
		scanner  = bufio.NewScanner(file)
	)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := scanner.Text()
		src := Source{Path: abs, Line: lineNum}

		switch item.ClassifyLine(line) {
		case item.LineBlank, item.LineComment:
			continue

		case item.LineInclude:
			target, ok := item.IncludePath(line)
			if !ok {
				r.warnf(WarnParse, src, "include directive names no path")
				continue
			}
			if sawItem {
				r.warnf(WarnMisplacedInclude, src, "include directive after item lines is ignored")
				continue
			}
			includes = append(includes, target)
			if !filepath.IsAbs(target) {
				target = filepath.Join(baseDir, target)
			}
			if _, err := r.resolve(target, src); err != nil {
				return nil, err
			}

		case item.LineItem:
			sawItem = true
			it, err := item.ParseItem(line)
			if err != nil {
				r.warnf(WarnParse, src, "skipping invalid line: %v", err)
				continue
			}
			if err := r.store.Add(it, src); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", abs, err)
	}

	r.sources[idx].Includes = includes
	return includes, nil
}

// unresolvedWarnings reports requires edges that point at ids missing
// from the merged set.
func unresolvedWarnings(s *Store) []Warning {
	var out []Warning
	unresolved := s.Graph().Unresolved()
	for _, id := range s.IDs() {
		src, _ := s.Origin(id)
		for _, missing := range unresolved[id] {
			out = append(out, Warning{
				Kind:   WarnUnresolvedRequires,
				Source: src,
				Detail: fmt.Sprintf("%s requires unknown item %q", id, missing),
			})
		}
	}
	return out
}
