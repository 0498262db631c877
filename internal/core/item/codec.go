package item

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseError reports a line that could not be decoded. Callers treat it
// as a warning and skip the line rather than aborting the load.
type ParseError struct {
	Msg  string
	Line string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %q", e.Msg, e.Line)
}

func parseErrf(line, format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Line: line}
}

// LineKind classifies a raw line of an items file.
type LineKind int

const (
	LineBlank LineKind = iota
	LineComment
	LineInclude
	LineItem
)

const includePrefix = "#include"

// ClassifyLine decides how a raw line should be handled. Include
// directives are a special case of comment lines so legacy tools that
// skip "#" lines still read the file.
func ClassifyLine(line string) LineKind {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return LineBlank
	case isIncludeDirective(line):
		return LineInclude
	case strings.HasPrefix(line, "#"):
		return LineComment
	default:
		return LineItem
	}
}

// isIncludeDirective requires the keyword to stand alone: a comment
// such as "#includes listed below" is not a directive.
func isIncludeDirective(line string) bool {
	rest, found := strings.CutPrefix(line, includePrefix)
	if !found {
		return false
	}
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

// IncludePath extracts the target path of an include directive. ok is
// false when the line is not a directive or names no path.
func IncludePath(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if !isIncludeDirective(line) {
		return "", false
	}
	path := strings.TrimSpace(line[len(includePrefix):])
	return path, path != ""
}

// FormatInclude renders an include directive for path.
func FormatInclude(path string) string {
	return includePrefix + " " + path
}

// titlePattern splits a line at its JSON-quoted title: everything
// before the opening quote, the escaped title body, and the tail.
var titlePattern = regexp.MustCompile(`^([^"]*)"((?:[^"\\]|\\.)*)"(.*)$`)

// chartsPattern matches the brace-delimited charts block that opens the
// post-title section. The block may be empty.
var chartsPattern = regexp.MustCompile(`^\s*\{([^}]*)\}\s*(.*)$`)

var relationPattern = func() *regexp.Regexp {
	glyphs := make([]string, len(relationOrder))
	for i, r := range relationOrder {
		glyphs[i] = relationGlyphs[r]
	}
	return regexp.MustCompile(`(` + strings.Join(glyphs, "|") + `)\[([^\]]*)\]`)
}()

// ParseItem decodes a single item line.
func ParseItem(line string) (Item, error) {
	m := titlePattern.FindStringSubmatch(line)
	if m == nil {
		return Item{}, parseErrf(line, "missing quoted title")
	}
	preTitle, escapedTitle, postTitle := strings.TrimSpace(m[1]), m[2], strings.TrimSpace(m[3])

	it := New("", "")

	if err := json.Unmarshal([]byte(`"`+escapedTitle+`"`), &it.Title); err != nil {
		return Item{}, parseErrf(line, "invalid title encoding: %v", err)
	}

	if err := parsePreTitle(&it, preTitle); err != nil {
		return Item{}, &ParseError{Msg: err.Error(), Line: line}
	}
	if err := parsePostTitle(&it, postTitle); err != nil {
		return Item{}, &ParseError{Msg: err.Error(), Line: line}
	}

	return it, nil
}

// parsePreTitle fills status, id, priority and duration from the
// "<glyph> <id+marks> <duration>" section.
func parsePreTitle(it *Item, preTitle string) error {
	parts := strings.Fields(preTitle)
	if len(parts) != 3 {
		return fmt.Errorf("want status, id and duration before the title, got %d fields", len(parts))
	}

	status, ok := StatusFromGlyph(parts[0])
	if !ok {
		return fmt.Errorf("unknown status symbol %q", parts[0])
	}
	it.Status = status

	it.ID, it.Priority = SplitPriority(parts[1])
	if it.ID == "" {
		return fmt.Errorf("empty item id")
	}

	dur, err := ParseDuration(parts[2])
	if err != nil {
		return err
	}
	it.Duration = dur
	return nil
}

// parsePostTitle fills charts, tags, relations, constraint and trailing
// comments from everything after the closing title quote.
func parsePostTitle(it *Item, postTitle string) error {
	m := chartsPattern.FindStringSubmatch(postTitle)
	if m == nil {
		return fmt.Errorf("missing charts block")
	}
	charts, err := parseCharts(m[1])
	if err != nil {
		return err
	}
	it.Charts = charts

	rest := m[2]
	rest, it.Comment, it.AutoComment = splitComments(rest)

	// The constraint comes off first: with no relation clauses the "@@@"
	// marker directly follows the tags, so cutting at ">>>" alone would
	// leave it glued to the tag list.
	rest, constraintPart, _ := strings.Cut(rest, "@@@")

	tagsPart, relationsPart, _ := strings.Cut(rest, ">>>")
	for _, t := range strings.Split(tagsPart, ",") {
		if t = strings.TrimSpace(t); t != "" {
			it.Tags = append(it.Tags, t)
		}
	}

	if err := parseRelations(it, strings.TrimSpace(relationsPart)); err != nil {
		return err
	}

	constraint, err := ParseConstraint(constraintPart)
	if err != nil {
		return err
	}
	it.Constraint = constraint
	return nil
}

// parseCharts decodes the comma-separated JSON strings inside the
// braces. An empty block is a valid empty chart list.
func parseCharts(contents string) ([]string, error) {
	contents = strings.TrimSpace(contents)
	if contents == "" {
		return nil, nil
	}
	var charts []string
	if err := json.Unmarshal([]byte("["+contents+"]"), &charts); err != nil {
		return nil, fmt.Errorf("invalid charts block: %w", err)
	}
	return charts, nil
}

// splitComments strips the trailing "### auto" and "# user" comments
// off the section tail and returns the remaining text.
func splitComments(s string) (rest, comment, autoComment string) {
	if i := strings.Index(s, "###"); i >= 0 {
		autoComment = strings.TrimSpace(s[i+3:])
		s = s[:i]
	}
	if i := strings.Index(s, "#"); i >= 0 {
		comment = strings.TrimSpace(s[i+1:])
		s = s[:i]
	}
	return strings.TrimSpace(s), comment, autoComment
}

func parseRelations(it *Item, s string) error {
	if s == "" {
		return nil
	}
	matches := relationPattern.FindAllStringSubmatch(s, -1)

	// Anything the clause pattern did not consume is a malformed clause.
	leftover := relationPattern.ReplaceAllString(s, "")
	if strings.TrimSpace(leftover) != "" {
		return fmt.Errorf("malformed relations %q", s)
	}

	for _, m := range matches {
		rel := glyphRelations[m[1]]
		for _, target := range strings.Split(m[2], ",") {
			if target = strings.TrimSpace(target); target != "" {
				it.Relations[rel] = append(it.Relations[rel], target)
			}
		}
	}
	return nil
}

// FormatItem renders an item back to its line form. Formatting a parsed
// item reproduces the source line up to whitespace normalization, with
// relation clauses emitted in a fixed order.
func FormatItem(it Item) string {
	var b strings.Builder

	b.WriteString(it.Status.Glyph())
	b.WriteByte(' ')
	b.WriteString(it.ID)
	b.WriteString(it.Priority.Marks())
	b.WriteByte(' ')
	b.WriteString(it.Duration.String())
	b.WriteByte(' ')

	title, _ := json.Marshal(it.Title)
	b.Write(title)

	b.WriteString(" {")
	for i, c := range it.Charts {
		if i > 0 {
			b.WriteByte(',')
		}
		name, _ := json.Marshal(c)
		b.Write(name)
	}
	b.WriteByte('}')

	if len(it.Tags) > 0 {
		b.WriteByte(' ')
		b.WriteString(strings.Join(it.Tags, ","))
	}

	var clauses []string
	for _, r := range relationOrder {
		if targets := it.Relations[r]; len(targets) > 0 {
			clauses = append(clauses, r.Glyph()+"["+strings.Join(targets, ",")+"]")
		}
	}
	if len(clauses) > 0 {
		b.WriteString(" >>> ")
		b.WriteString(strings.Join(clauses, " "))
	}

	if it.Constraint != nil {
		b.WriteString(" @@@ ")
		b.WriteString(it.Constraint.String())
	}

	if it.Comment != "" {
		b.WriteString(" # ")
		b.WriteString(it.Comment)
	}
	if it.AutoComment != "" {
		b.WriteString(" ### ")
		b.WriteString(it.AutoComment)
	}

	return b.String()
}
