package item

import (
	"fmt"
	"regexp"
	"strings"
)

// ConstraintKind classifies a time constraint clause.
type ConstraintKind string

const (
	ConstraintWindow    ConstraintKind = "window"
	ConstraintDeadline  ConstraintKind = "deadline"
	ConstraintRecurring ConstraintKind = "recurring"
)

// Consequence is what happens when a constraint is missed.
type Consequence string

const (
	ConsequenceSevere     Consequence = "severe"
	ConsequenceWarn       Consequence = "warn"
	ConsequenceEscalating Consequence = "escalating"
)

// Constraint is an optional time constraint attached to an item after
// the "@@@" marker: window(5d:1d,warn), due(2026-01-01,severe) or
// every(1w,warn,stack).
type Constraint struct {
	Kind        ConstraintKind
	Window      Duration // window size or recurrence interval
	Grace       Duration // zero when absent
	Consequence Consequence
	Escalation  Priority // mark vocabulary; NEUTRAL when absent
	DueDate     string   // YYYY-MM-DD, deadline kind only
	Stack       bool     // recurring kind only
}

var constraintPattern = regexp.MustCompile(`^(window|due|every)\(([^,)]+),([^)]+)\)$`)

var dueDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseConstraint parses a time constraint clause. Empty input returns
// a nil constraint.
func ParseConstraint(s string) (*Constraint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	m := constraintPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("invalid time constraint %q", s)
	}
	keyword, head, tail := m[1], m[2], m[3]

	c := &Constraint{}

	// The head is "<value>" or "<value>:<grace>".
	value := head
	if i := strings.IndexByte(head, ':'); i >= 0 {
		grace, err := ParseDuration(head[i+1:])
		if err != nil {
			return nil, fmt.Errorf("invalid grace period in %q: %w", s, err)
		}
		c.Grace = grace
		value = head[:i]
	}

	switch keyword {
	case "window":
		c.Kind = ConstraintWindow
		window, err := ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid window in %q: %w", s, err)
		}
		c.Window = window
	case "due":
		c.Kind = ConstraintDeadline
		if !dueDatePattern.MatchString(value) {
			return nil, fmt.Errorf("invalid due date %q (want YYYY-MM-DD)", value)
		}
		c.DueDate = value
	case "every":
		c.Kind = ConstraintRecurring
		interval, err := ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid interval in %q: %w", s, err)
		}
		c.Window = interval
	}

	if err := c.parseConsequence(tail); err != nil {
		return nil, fmt.Errorf("invalid consequence in %q: %w", s, err)
	}

	return c, nil
}

func (c *Constraint) parseConsequence(s string) error {
	parts := strings.Split(s, ",")

	// "stack" may trail a recurring constraint's consequence list.
	if last := strings.TrimSpace(parts[len(parts)-1]); last == "stack" {
		if c.Kind != ConstraintRecurring {
			return fmt.Errorf("stack only applies to recurring constraints")
		}
		c.Stack = true
		parts = parts[:len(parts)-1]
	}

	if len(parts) == 0 {
		return fmt.Errorf("missing consequence")
	}

	c.Escalation = PriorityNeutral
	switch base := Consequence(strings.TrimSpace(parts[0])); base {
	case ConsequenceSevere, ConsequenceWarn, ConsequenceEscalating:
		c.Consequence = base
	default:
		return fmt.Errorf("unknown consequence %q", parts[0])
	}

	if len(parts) > 2 {
		return fmt.Errorf("unexpected %q", parts[2])
	}
	if len(parts) > 1 {
		rate, ok := strings.CutPrefix(strings.TrimSpace(parts[1]), "escalate:")
		if !ok {
			return fmt.Errorf("unexpected %q", parts[1])
		}
		c.Consequence = ConsequenceEscalating
		for p, marks := range priorityMarks {
			if marks == rate && rate != "" {
				c.Escalation = p
				return nil
			}
		}
		return fmt.Errorf("unknown escalation rate %q", rate)
	}

	return nil
}

func (c *Constraint) String() string {
	if c == nil {
		return ""
	}

	var b strings.Builder
	switch c.Kind {
	case ConstraintWindow:
		b.WriteString("window(")
		b.WriteString(c.Window.String())
	case ConstraintDeadline:
		b.WriteString("due(")
		b.WriteString(c.DueDate)
	case ConstraintRecurring:
		b.WriteString("every(")
		b.WriteString(c.Window.String())
	}

	if !c.Grace.IsZero() {
		b.WriteByte(':')
		b.WriteString(c.Grace.String())
	}

	b.WriteByte(',')
	b.WriteString(string(c.Consequence))
	if c.Escalation != PriorityNeutral {
		b.WriteString(",escalate:")
		b.WriteString(c.Escalation.Marks())
	}
	if c.Stack {
		b.WriteString(",stack")
	}
	b.WriteByte(')')

	return b.String()
}
