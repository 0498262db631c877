package itemfile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"
)

var backupPattern = regexp.MustCompile(`^(.+)\.(\d+)\.backup$`)

// CleanPlan is a computed backup cleanup: which backup files to delete
// and how the kept ones renumber. Nothing touches the disk until Apply.
type CleanPlan struct {
	Delete []string
	// Rename maps current paths to their compacted numbering, oldest
	// backup becoming .1.backup.
	Rename map[string]string
}

// Empty reports whether the plan changes anything.
func (p *CleanPlan) Empty() bool {
	if len(p.Delete) > 0 {
		return false
	}
	for from, to := range p.Rename {
		if from != to {
			return false
		}
	}
	return true
}

type numberedBackup struct {
	num  int
	path string
}

// PlanClean scans dir for numbered backup files and plans keeping only
// the most recent keep backups of each file, renumbered from 1.
func PlanClean(dir string, keep int) (*CleanPlan, error) {
	if keep < 1 {
		return nil, fmt.Errorf("keep must be at least 1")
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(dir, "**", "*.backup"))
	if err != nil {
		return nil, fmt.Errorf("scan %s for backups: %w", dir, err)
	}

	groups := map[string][]numberedBackup{}
	for _, path := range matches {
		m := backupPattern.FindStringSubmatch(filepath.Base(path))
		if m == nil {
			continue
		}
		num, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		base := filepath.Join(filepath.Dir(path), m[1])
		groups[base] = append(groups[base], numberedBackup{num: num, path: path})
	}

	plan := &CleanPlan{Rename: map[string]string{}}
	for base, backups := range groups {
		sort.Slice(backups, func(i, j int) bool { return backups[i].num > backups[j].num })

		kept := backups
		if len(backups) > keep {
			kept = backups[:keep]
			for _, b := range backups[keep:] {
				plan.Delete = append(plan.Delete, b.path)
			}
		}

		// Oldest kept backup becomes .1.backup.
		for i, b := range kept {
			newNum := len(kept) - i
			plan.Rename[b.path] = fmt.Sprintf("%s.%d.backup", base, newNum)
		}
	}
	sort.Strings(plan.Delete)

	return plan, nil
}

// Apply executes the plan: deletions first, then renames through
// temporary names so compacting numbers never clobbers a kept file.
func (p *CleanPlan) Apply() error {
	for _, path := range p.Delete {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete %s: %w", path, err)
		}
	}

	const tmpSuffix = ".cleantmp"
	for from := range p.Rename {
		if err := os.Rename(from, from+tmpSuffix); err != nil {
			return fmt.Errorf("rename %s: %w", from, err)
		}
	}
	for from, to := range p.Rename {
		if err := os.Rename(from+tmpSuffix, to); err != nil {
			return fmt.Errorf("rename %s to %s: %w", from, to, err)
		}
	}
	return nil
}
