package itemfile

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gianttproject/giantt/internal/core/graph"
	"github.com/gianttproject/giantt/internal/core/item"
)

// ErrNotFound is returned when an id does not name a stored item.
var ErrNotFound = errors.New("item not found")

// Source is where an item line came from.
type Source struct {
	Path string
	Line int
}

func (s Source) String() string {
	if s.Path == "" {
		return "(new)"
	}
	return fmt.Sprintf("%s:%d", s.Path, s.Line)
}

// DuplicateIDError is a conflict between two items with the same id,
// typically from include merging. Both source locations are reported.
type DuplicateIDError struct {
	ID     string
	First  Source
	Second Source
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate item id %q: first at %s, again at %s", e.ID, e.First, e.Second)
}

// AmbiguousError is a lookup query that matched more than one item.
type AmbiguousError struct {
	Query   string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%q matches multiple items: %s", e.Query, strings.Join(e.Matches, ", "))
}

// Store holds the merged item set of a load, in input order, with the
// source of every item. All reads return clones; mutation goes through
// Add, Update and Remove so the id index stays consistent.
type Store struct {
	order   []string
	items   map[string]item.Item
	origins map[string]Source
}

func NewStore() *Store {
	return &Store{
		items:   map[string]item.Item{},
		origins: map[string]Source{},
	}
}

// Len returns the number of items.
func (s *Store) Len() int { return len(s.order) }

// Add appends an item. A duplicate id is a hard conflict reporting both
// source locations.
func (s *Store) Add(it item.Item, src Source) error {
	if it.ID == "" {
		return errors.New("item id is empty")
	}
	if prev, ok := s.origins[it.ID]; ok {
		return &DuplicateIDError{ID: it.ID, First: prev, Second: src}
	}
	s.order = append(s.order, it.ID)
	s.items[it.ID] = it.Clone()
	s.origins[it.ID] = src
	return nil
}

// Get returns a clone of the item with the given id.
func (s *Store) Get(id string) (item.Item, bool) {
	it, ok := s.items[id]
	if !ok {
		return item.Item{}, false
	}
	return it.Clone(), true
}

// Origin returns where the item with the given id was loaded from.
func (s *Store) Origin(id string) (Source, bool) {
	src, ok := s.origins[id]
	return src, ok
}

// Update applies fn to the stored item. Renaming the id through fn is
// allowed and reindexes the store; renaming onto an existing id fails.
func (s *Store) Update(id string, fn func(*item.Item) error) error {
	it, ok := s.items[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	updated := it.Clone()
	if err := fn(&updated); err != nil {
		return err
	}
	if updated.ID == "" {
		return errors.New("item id is empty")
	}

	if updated.ID != id {
		if _, taken := s.items[updated.ID]; taken {
			return &DuplicateIDError{ID: updated.ID, First: s.origins[updated.ID], Second: s.origins[id]}
		}
		for i, cur := range s.order {
			if cur == id {
				s.order[i] = updated.ID
				break
			}
		}
		s.origins[updated.ID] = s.origins[id]
		delete(s.items, id)
		delete(s.origins, id)
		s.rewriteReferences(id, updated.ID)
	}

	s.items[updated.ID] = updated
	return nil
}

// Move reassigns the item to a different source file. The item itself
// is untouched; the next save writes it there.
func (s *Store) Move(id, path string) error {
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	s.origins[id] = Source{Path: path}
	return nil
}

// Remove deletes the item with the given id. Unless keepRelations is
// set, references to it are stripped from every other item; with it,
// the dangling references are left for doctor to report.
func (s *Store) Remove(id string, keepRelations bool) error {
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	for i, cur := range s.order {
		if cur == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	delete(s.items, id)
	delete(s.origins, id)

	if !keepRelations {
		s.rewriteReferences(id, "")
	}
	return nil
}

// InsertBetween splices a new item into the chain between two existing
// items: it requires before, blocks after, and the direct links between
// before and after are rewired through it.
func (s *Store) InsertBetween(it item.Item, beforeID, afterID string) error {
	if _, ok := s.items[beforeID]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, beforeID)
	}
	if _, ok := s.items[afterID]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, afterID)
	}

	it = it.Clone()
	if it.Relations == nil {
		it.Relations = map[item.Relation][]string{}
	}
	it.Relations[item.RelationRequires] = []string{beforeID}
	it.Relations[item.RelationBlocks] = []string{afterID}
	if err := s.Add(it, Source{}); err != nil {
		return err
	}

	replaceTarget := func(targets []string, from, to string) []string {
		for i, t := range targets {
			if t == from {
				targets[i] = to
			}
		}
		return targets
	}

	before := s.items[beforeID]
	if contains(before.Relations[item.RelationBlocks], afterID) {
		before.Relations[item.RelationBlocks] = replaceTarget(before.Relations[item.RelationBlocks], afterID, it.ID)
	}
	after := s.items[afterID]
	if contains(after.Relations[item.RelationRequires], beforeID) {
		after.Relations[item.RelationRequires] = replaceTarget(after.Relations[item.RelationRequires], beforeID, it.ID)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// rewriteReferences replaces references to old with repl in every
// item's relations; an empty repl removes the reference.
func (s *Store) rewriteReferences(old, repl string) {
	for id, it := range s.items {
		if !it.Related(old) {
			continue
		}
		for rel, targets := range it.Relations {
			kept := targets[:0]
			for _, t := range targets {
				switch {
				case t != old:
					kept = append(kept, t)
				case repl != "":
					kept = append(kept, repl)
				}
			}
			if len(kept) == 0 {
				delete(it.Relations, rel)
			} else {
				it.Relations[rel] = kept
			}
		}
		s.items[id] = it
	}
}

// All returns clones of all items in input order.
func (s *Store) All() []item.Item {
	out := make([]item.Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id].Clone())
	}
	return out
}

// IDs returns all ids in input order.
func (s *Store) IDs() []string {
	return append([]string(nil), s.order...)
}

// Find returns clones of items whose id or title contains the query,
// case-insensitive, in input order.
func (s *Store) Find(query string) []item.Item {
	query = strings.ToLower(query)
	var out []item.Item
	for _, id := range s.order {
		it := s.items[id]
		if strings.Contains(strings.ToLower(it.ID), query) ||
			strings.Contains(strings.ToLower(it.Title), query) {
			out = append(out, it.Clone())
		}
	}
	return out
}

// Resolve finds the single item a query names: an exact id match wins,
// otherwise the query must match exactly one item by substring.
func (s *Store) Resolve(query string) (item.Item, error) {
	if it, ok := s.items[query]; ok {
		return it.Clone(), nil
	}

	matches := s.Find(query)
	switch len(matches) {
	case 0:
		return item.Item{}, fmt.Errorf("%w: %q", ErrNotFound, query)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		sort.Strings(ids)
		return item.Item{}, &AmbiguousError{Query: query, Matches: ids}
	}
}

// Graph builds the dependency graph over the current items.
func (s *Store) Graph() *graph.Graph {
	return graph.New(s.All())
}

// Sorted returns all items in stable topological order.
func (s *Store) Sorted() ([]item.Item, error) {
	ids, err := s.Graph().Sort()
	if err != nil {
		return nil, err
	}
	out := make([]item.Item, len(ids))
	for i, id := range ids {
		out[i] = s.items[id].Clone()
	}
	return out, nil
}
