// Package doctor diagnoses consistency problems in an item set.
package doctor

import (
	"fmt"
	"strings"

	"github.com/gianttproject/giantt/internal/core/item"
)

// IssueType classifies a problem the doctor can find.
type IssueType string

const (
	DanglingReference  IssueType = "dangling_reference"
	IncompleteChain    IssueType = "incomplete_chain"
	OrphanedItem       IssueType = "orphaned_item"
	ChartInconsistency IssueType = "chart_inconsistency"
	TagInconsistency   IssueType = "tag_inconsistency"
)

// Types returns all issue type names the doctor knows, with whether
// each is fixable automatically.
func Types() map[IssueType]bool {
	return map[IssueType]bool{
		DanglingReference:  true,
		IncompleteChain:    true,
		OrphanedItem:       false,
		ChartInconsistency: false,
		TagInconsistency:   false,
	}
}

// ParseIssueType converts a name to an IssueType.
func ParseIssueType(s string) (IssueType, error) {
	t := IssueType(s)
	if _, ok := Types()[t]; !ok {
		return "", fmt.Errorf("invalid issue type %q", s)
	}
	return t, nil
}

// FixOp is a structured mutation that resolves an issue.
type FixOp struct {
	ItemID   string        // item whose relations change
	Relation item.Relation // relation to change
	Target   string        // referenced id
	Add      bool          // add the reference; otherwise remove it
}

// Issue is one problem found in the item set.
type Issue struct {
	Type    IssueType
	ItemID  string
	Message string
	Related []string
	// Fix is nil when the issue has no automatic fix.
	Fix *FixOp
}

// Suggestion renders the fix as the CLI invocation a user could run.
func (i Issue) Suggestion() string {
	if i.Fix == nil {
		return ""
	}
	verb := "--remove"
	if i.Fix.Add {
		verb = "--add"
	}
	rel := strings.ToLower(string(i.Fix.Relation))
	return fmt.Sprintf("giantt modify %s %s %s %s", i.Fix.ItemID, verb, rel, i.Fix.Target)
}

// Doctor inspects a snapshot of items. It does not mutate anything;
// fixes are returned as FixOps for the caller to apply.
type Doctor struct {
	items []item.Item
	index map[string]item.Item
}

func New(items []item.Item) *Doctor {
	index := make(map[string]item.Item, len(items))
	for _, it := range items {
		index[it.ID] = it
	}
	return &Doctor{items: items, index: index}
}

// QuickCheck returns the number of reference problems. It is the cheap
// post-save sanity pass.
func (d *Doctor) QuickCheck() int {
	return len(d.checkReferences())
}

// Diagnose runs all checks.
func (d *Doctor) Diagnose() []Issue {
	var issues []Issue
	issues = append(issues, d.checkReferences()...)
	issues = append(issues, d.checkOrphans()...)
	issues = append(issues, d.checkChains()...)
	issues = append(issues, d.checkCharts()...)
	issues = append(issues, d.checkTags()...)
	return issues
}

// checkReferences finds relations that point at ids not in the set.
func (d *Doctor) checkReferences() []Issue {
	var issues []Issue
	for _, it := range d.items {
		for _, rel := range relationOrder() {
			for _, target := range it.Relations[rel] {
				if _, ok := d.index[target]; ok {
					continue
				}
				issues = append(issues, Issue{
					Type:    DanglingReference,
					ItemID:  it.ID,
					Message: fmt.Sprintf("references non-existent item %q in %s relation", target, rel),
					Related: []string{target},
					Fix:     &FixOp{ItemID: it.ID, Relation: rel, Target: target, Add: false},
				})
			}
		}
	}
	return issues
}

// checkOrphans finds items with no incoming or outgoing relations.
func (d *Doctor) checkOrphans() []Issue {
	incoming := map[string]bool{}
	for _, it := range d.items {
		for _, targets := range it.Relations {
			for _, target := range targets {
				incoming[target] = true
			}
		}
	}

	var issues []Issue
	for _, it := range d.items {
		if incoming[it.ID] || len(it.Relations) > 0 {
			continue
		}
		issues = append(issues, Issue{
			Type:    OrphanedItem,
			ItemID:  it.ID,
			Message: "has no relations to other items",
		})
	}
	return issues
}

// chainPairs are the relation pairs expected to be reciprocal: an item
// blocking another should be required by it, and an item sufficient for
// another should be among its any-of alternatives.
var chainPairs = []struct {
	forward, backward item.Relation
}{
	{item.RelationBlocks, item.RelationRequires},
	{item.RelationRequires, item.RelationBlocks},
	{item.RelationSufficient, item.RelationAnyOf},
	{item.RelationAnyOf, item.RelationSufficient},
}

// checkChains finds one-way halves of relations that should be paired.
func (d *Doctor) checkChains() []Issue {
	var issues []Issue
	for _, it := range d.items {
		for _, pair := range chainPairs {
			for _, target := range it.Relations[pair.forward] {
				other, ok := d.index[target]
				if !ok {
					continue // already a dangling reference
				}
				if contains(other.Relations[pair.backward], it.ID) {
					continue
				}
				issues = append(issues, Issue{
					Type:   IncompleteChain,
					ItemID: it.ID,
					Message: fmt.Sprintf("has %s relation to %q without a matching %s back",
						pair.forward, target, pair.backward),
					Related: []string{target},
					Fix:     &FixOp{ItemID: target, Relation: pair.backward, Target: it.ID, Add: true},
				})
			}
		}
	}
	return issues
}

// chainRelations are the hard-dependency relations considered when
// checking chart and tag consistency across related items.
var chainRelations = []item.Relation{item.RelationRequires, item.RelationBlocks}

// checkCharts finds items left out of a chart their hard dependencies
// belong to.
func (d *Doctor) checkCharts() []Issue {
	members := map[string]map[string]bool{}
	for _, it := range d.items {
		for _, chart := range it.Charts {
			if members[chart] == nil {
				members[chart] = map[string]bool{}
			}
			members[chart][it.ID] = true
		}
	}

	var issues []Issue
	flagged := map[string]bool{}
	for _, it := range d.items {
		for _, chart := range it.Charts {
			for _, rel := range chainRelations {
				for _, target := range it.Relations[rel] {
					if _, ok := d.index[target]; !ok {
						continue // already a dangling reference
					}
					if members[chart][target] || flagged[target+"\x00"+chart] {
						continue
					}
					flagged[target+"\x00"+chart] = true
					issues = append(issues, Issue{
						Type:    ChartInconsistency,
						ItemID:  target,
						Message: fmt.Sprintf("related to items in chart %q but is not in it", chart),
						Related: []string{it.ID},
					})
				}
			}
		}
	}
	return issues
}

// checkTags is checkCharts over tags.
func (d *Doctor) checkTags() []Issue {
	tagged := map[string]map[string]bool{}
	for _, it := range d.items {
		for _, tag := range it.Tags {
			if tagged[tag] == nil {
				tagged[tag] = map[string]bool{}
			}
			tagged[tag][it.ID] = true
		}
	}

	var issues []Issue
	flagged := map[string]bool{}
	for _, it := range d.items {
		for _, tag := range it.Tags {
			for _, rel := range chainRelations {
				for _, target := range it.Relations[rel] {
					if _, ok := d.index[target]; !ok {
						continue
					}
					if tagged[tag][target] || flagged[target+"\x00"+tag] {
						continue
					}
					flagged[target+"\x00"+tag] = true
					issues = append(issues, Issue{
						Type:    TagInconsistency,
						ItemID:  target,
						Message: fmt.Sprintf("related to items tagged %q but is not tagged", tag),
						Related: []string{it.ID},
					})
				}
			}
		}
	}
	return issues
}

// Filter narrows issues to a type and/or an item id; zero values match
// everything.
func Filter(issues []Issue, issueType IssueType, itemID string) []Issue {
	var out []Issue
	for _, issue := range issues {
		if issueType != "" && issue.Type != issueType {
			continue
		}
		if itemID != "" && issue.ItemID != itemID {
			continue
		}
		out = append(out, issue)
	}
	return out
}

func relationOrder() []item.Relation {
	names := item.RelationNames()
	rels := make([]item.Relation, len(names))
	for i, n := range names {
		rels[i] = item.Relation(n)
	}
	return rels
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
