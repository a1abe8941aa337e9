// Package condition builds boolean run-conditions for pipeline tasks.
//
// Conditions serialize to a small canonical expression grammar consumed by
// the executor:
//
//	branch == 'main'
//	tag matches 'v*'
//	(branch == 'main') || (tag != '')
//	!(ci == true)
//
// A literal with no wildcard compares with ==; a literal containing '*'
// compares with matches. Combinators always parenthesize their operands so
// the string form is unambiguous without precedence rules.
package condition

import "fmt"

// Condition wraps a canonical expression string. The zero value means
// "no condition" (the task always runs).
type Condition struct {
	expr string
}

// Raw wraps an already-formed expression string without interpretation.
func Raw(expr string) Condition {
	return Condition{expr: expr}
}

// Branch matches a branch name, or a glob pattern when it contains '*'.
func Branch(pattern string) Condition {
	return Condition{expr: compare("branch", pattern)}
}

// Tag matches a tag name, or a glob pattern when it contains '*'.
func Tag(pattern string) Condition {
	return Condition{expr: compare("tag", pattern)}
}

// HasTag matches when any tag is present.
func HasTag() Condition {
	return Condition{expr: "tag != ''"}
}

// Event matches a specific trigger event type (push, pull_request, ...).
func Event(eventType string) Condition {
	return Condition{expr: fmt.Sprintf("event == '%s'", eventType)}
}

// InCI matches when running in CI.
func InCI() Condition {
	return Condition{expr: "ci == true"}
}

// Not negates a condition.
func Not(c Condition) Condition {
	return Condition{expr: fmt.Sprintf("!(%s)", c.expr)}
}

// And combines two conditions; both must hold.
func (c Condition) And(other Condition) Condition {
	return Condition{expr: fmt.Sprintf("(%s) && (%s)", c.expr, other.expr)}
}

// Or combines two conditions; either may hold.
func (c Condition) Or(other Condition) Condition {
	return Condition{expr: fmt.Sprintf("(%s) || (%s)", c.expr, other.expr)}
}

// IsZero reports whether no condition was set.
func (c Condition) IsZero() bool {
	return c.expr == ""
}

// String returns the canonical expression form.
func (c Condition) String() string {
	return c.expr
}

func compare(ident, pattern string) string {
	if containsWildcard(pattern) {
		return fmt.Sprintf("%s matches '%s'", ident, pattern)
	}
	return fmt.Sprintf("%s == '%s'", ident, pattern)
}

func containsWildcard(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '*' {
			return true
		}
	}
	return false
}
