package itemfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gianttproject/giantt/internal/core/item"
)

// banner opens every saved items file.
const banner = `########################
#                      #
#     Giantt Items     #
#                      #
########################`

// occludeBanner opens the occlude archive file.
const occludeBanner = `################################
#                              #
#     Giantt Occluded Items    #
#                              #
################################`

// OccludeName is the archive file kept beside the root items file.
// Occluded items move there on save but stay in the merged set, so
// relations pointing at them never dangle.
const OccludeName = "GIANTT_OCCLUDE.txt"

// OccludePathFor returns the occlude archive path for an items file.
func OccludePathFor(itemsPath string) string {
	return filepath.Join(filepath.Dir(itemsPath), OccludeName)
}

// Save writes every file of the load back to disk: each source file
// gets its banner, its own include directives, and the items it owns,
// in stable topological order. Occluded items go to the occlude
// archive, which is created on first need.
//
// The sort runs first, so a dependency cycle aborts the save with all
// files untouched. Each write goes to a temp file renamed over the
// target, and the previous contents are kept as a numbered backup.
func Save(f *File) error {
	sorted, err := f.Store.Sorted()
	if err != nil {
		return err
	}

	owned := map[string][]item.Item{}
	for _, it := range sorted {
		owner := f.Path
		if src, ok := f.Store.Origin(it.ID); ok && src.Path != "" {
			owner = src.Path
		}
		owned[owner] = append(owned[owner], it)
	}

	targets := append([]SourceFile(nil), f.Sources...)
	if len(targets) == 0 {
		targets = []SourceFile{{Path: f.Path}}
	}
	if !sourceListed(targets, f.OccludePath) && len(owned[f.OccludePath]) > 0 {
		targets = append(targets, SourceFile{Path: f.OccludePath})
	}

	for _, sf := range targets {
		includes := sf.Includes
		if sf.Path == f.Path {
			includes = f.Includes
		}
		if err := writeItemsFile(f, sf.Path, includes, owned[sf.Path]); err != nil {
			return err
		}
	}
	return nil
}

func sourceListed(sources []SourceFile, path string) bool {
	for _, sf := range sources {
		if sf.Path == path {
			return true
		}
	}
	return false
}

func writeItemsFile(f *File, path string, includes []string, items []item.Item) error {
	var b strings.Builder
	if path == f.OccludePath {
		b.WriteString(occludeBanner)
	} else {
		b.WriteString(banner)
	}
	b.WriteString("\n\n")
	for _, inc := range includes {
		b.WriteString(item.FormatInclude(inc))
		b.WriteByte('\n')
	}
	if len(includes) > 0 {
		b.WriteByte('\n')
	}
	for _, it := range items {
		b.WriteString(item.FormatItem(it))
		b.WriteByte('\n')
	}
	contents := []byte(b.String())

	if err := backup(path); err != nil {
		return err
	}

	tmp := path + ".temp"
	if err := os.WriteFile(tmp, contents, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	pruneIdenticalBackup(path, contents)
	return nil
}

// backup copies the current file contents, if any, to the next free
// numbered backup slot.
func backup(path string) error {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s for backup: %w", path, err)
	}
	if err := os.WriteFile(nextBackupPath(path), contents, 0o644); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

func nextBackupPath(path string) string {
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s.%d.backup", path, n)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// pruneIdenticalBackup removes the newest backup when the save changed
// nothing, so no-op saves do not pile up identical copies.
func pruneIdenticalBackup(path string, contents []byte) {
	latest := latestBackupPath(path)
	if latest == "" {
		return
	}
	old, err := os.ReadFile(latest)
	if err == nil && bytes.Equal(old, contents) {
		_ = os.Remove(latest)
	}
}

func latestBackupPath(path string) string {
	var latest string
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s.%d.backup", path, n)
		if _, err := os.Stat(candidate); err != nil {
			return latest
		}
		latest = candidate
	}
}

// Init creates a fresh items file at path with just the banner. It
// fails if the file already exists.
func Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s: %w", path, os.ErrExist)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(banner+"\n\n"), 0o644); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return nil
}

// AddInclude appends an include directive to the file's header and
// saves. Duplicate directives are rejected.
func AddInclude(f *File, target string) error {
	for _, inc := range f.Includes {
		if inc == target {
			return fmt.Errorf("%s is already included", target)
		}
	}
	f.Includes = append(f.Includes, target)
	return Save(f)
}
