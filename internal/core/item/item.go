// Package item defines the task record types and the line codec for the
// giantt items file format.
package item

import (
	"fmt"
	"sort"
	"strings"
)

// Status is the lifecycle state of an item, rendered as a single glyph
// at the start of its line.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusBlocked    Status = "BLOCKED"
	StatusCompleted  Status = "COMPLETED"
)

// statusGlyphs is the fixed bidirectional glyph table for statuses.
// Adding a status is a table edit here, not new branching logic.
var statusGlyphs = map[Status]string{
	StatusNotStarted: "○",
	StatusInProgress: "◑",
	StatusBlocked:    "⊘",
	StatusCompleted:  "●",
}

var glyphStatuses = invert(statusGlyphs)

// Glyph returns the single-rune rendering of the status.
func (s Status) Glyph() string { return statusGlyphs[s] }

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	_, ok := statusGlyphs[s]
	return ok
}

// StatusFromGlyph maps a glyph back to its status.
func StatusFromGlyph(g string) (Status, bool) {
	s, ok := glyphStatuses[g]
	return s, ok
}

// ParseStatus converts a status name (case-insensitive) to a Status.
func ParseStatus(name string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(name)))
	if !s.Valid() {
		return "", fmt.Errorf("invalid status %q (one of: %s)", name, strings.Join(StatusNames(), ", "))
	}
	return s, nil
}

// StatusNames returns all status names in a fixed order.
func StatusNames() []string {
	return []string{
		string(StatusNotStarted),
		string(StatusInProgress),
		string(StatusBlocked),
		string(StatusCompleted),
	}
}

// Priority is an ordinal urgency level, rendered as a mark sequence
// appended directly to the item id token.
type Priority string

const (
	PriorityLowest   Priority = "LOWEST"
	PriorityLow      Priority = "LOW"
	PriorityNeutral  Priority = "NEUTRAL"
	PriorityUnsure   Priority = "UNSURE"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

var priorityMarks = map[Priority]string{
	PriorityLowest:   ",,,",
	PriorityLow:      "...",
	PriorityNeutral:  "",
	PriorityUnsure:   "?",
	PriorityMedium:   "!",
	PriorityHigh:     "!!",
	PriorityCritical: "!!!",
}

// prioritiesByMarkLen holds priorities with non-empty marks ordered
// longest-first, so "!!!" wins over "!!" when splitting an id token.
var prioritiesByMarkLen = func() []Priority {
	ps := make([]Priority, 0, len(priorityMarks))
	for p, m := range priorityMarks {
		if m != "" {
			ps = append(ps, p)
		}
	}
	sort.Slice(ps, func(i, j int) bool {
		a, b := priorityMarks[ps[i]], priorityMarks[ps[j]]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return ps
}()

// Marks returns the mark rendering of the priority.
func (p Priority) Marks() string { return priorityMarks[p] }

// Valid reports whether p is one of the enumerated priorities.
func (p Priority) Valid() bool {
	_, ok := priorityMarks[p]
	return ok
}

// SplitPriority splits a combined id+marks token into the bare id and
// its priority, matching the longest mark sequence first.
func SplitPriority(token string) (string, Priority) {
	for _, p := range prioritiesByMarkLen {
		if m := priorityMarks[p]; strings.HasSuffix(token, m) {
			return strings.TrimSuffix(token, m), p
		}
	}
	return token, PriorityNeutral
}

// ParsePriority converts a priority name (case-insensitive) to a Priority.
func ParsePriority(name string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(name)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q (one of: %s)", name, strings.Join(PriorityNames(), ", "))
	}
	return p, nil
}

// PriorityNames returns all priority names in ascending urgency order.
func PriorityNames() []string {
	return []string{
		string(PriorityLowest),
		string(PriorityLow),
		string(PriorityNeutral),
		string(PriorityUnsure),
		string(PriorityMedium),
		string(PriorityHigh),
		string(PriorityCritical),
	}
}

// Relation is a directed edge class between items. Each relation type
// serializes as a glyph followed by a bracketed id list. Only Requires
// participates in ordering; the rest are carried and round-tripped.
type Relation string

const (
	RelationRequires     Relation = "REQUIRES"
	RelationAnyOf        Relation = "ANYOF"
	RelationSupercharges Relation = "SUPERCHARGES"
	RelationIndicates    Relation = "INDICATES"
	RelationTogether     Relation = "TOGETHER"
	RelationConflicts    Relation = "CONFLICTS"
	RelationBlocks       Relation = "BLOCKS"
	RelationSufficient   Relation = "SUFFICIENT"
)

var relationGlyphs = map[Relation]string{
	RelationRequires:     "⊢",
	RelationAnyOf:        "⋲",
	RelationSupercharges: "≫",
	RelationIndicates:    "∴",
	RelationTogether:     "∪",
	RelationConflicts:    "⊟",
	RelationBlocks:       "►",
	RelationSufficient:   "≻",
}

var glyphRelations = invert(relationGlyphs)

// relationOrder fixes the serialization order of relation clauses so a
// save is deterministic regardless of map iteration.
var relationOrder = []Relation{
	RelationRequires,
	RelationAnyOf,
	RelationSupercharges,
	RelationIndicates,
	RelationTogether,
	RelationConflicts,
	RelationBlocks,
	RelationSufficient,
}

// Glyph returns the symbol for the relation.
func (r Relation) Glyph() string { return relationGlyphs[r] }

// Valid reports whether r is one of the enumerated relations.
func (r Relation) Valid() bool {
	_, ok := relationGlyphs[r]
	return ok
}

// ParseRelation converts a relation name (case-insensitive) to a Relation.
func ParseRelation(name string) (Relation, error) {
	r := Relation(strings.ToUpper(strings.TrimSpace(name)))
	if !r.Valid() {
		return "", fmt.Errorf("invalid relation %q (one of: %s)", name, strings.Join(RelationNames(), ", "))
	}
	return r, nil
}

// RelationNames returns all relation names in serialization order.
func RelationNames() []string {
	names := make([]string, len(relationOrder))
	for i, r := range relationOrder {
		names[i] = string(r)
	}
	return names
}

// Item is a single task/project node in the graph.
type Item struct {
	ID         string
	Title      string
	Status     Status
	Priority   Priority
	Duration   Duration
	Charts     []string
	Tags       []string
	Relations  map[Relation][]string
	Constraint *Constraint

	// Trailing line comments. Comment is author-written, AutoComment is
	// tool-written; both are preserved on round-trip.
	Comment     string
	AutoComment string
}

// New returns an item with defaults applied.
func New(id, title string) Item {
	return Item{
		ID:        id,
		Title:     title,
		Status:    StatusNotStarted,
		Priority:  PriorityNeutral,
		Relations: map[Relation][]string{},
	}
}

// Requires returns the ids this item depends on. The returned slice is
// the item's own; callers that mutate it must Clone first.
func (it Item) Requires() []string {
	return it.Relations[RelationRequires]
}

// Related reports whether the item references id in any relation.
func (it Item) Related(id string) bool {
	for _, targets := range it.Relations {
		for _, t := range targets {
			if t == id {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	out := it
	out.Charts = append([]string(nil), it.Charts...)
	out.Tags = append([]string(nil), it.Tags...)
	if it.Relations != nil {
		out.Relations = make(map[Relation][]string, len(it.Relations))
		for r, targets := range it.Relations {
			out.Relations[r] = append([]string(nil), targets...)
		}
	}
	if it.Constraint != nil {
		c := *it.Constraint
		out.Constraint = &c
	}
	return out
}

func invert[K, V comparable](m map[K]V) map[V]K {
	out := make(map[V]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}
