package plan

import (
	"fmt"
	"io"
	"strings"
)

// Outcome is the result of pre-evaluating a condition for explain output.
type Outcome int

const (
	// OutcomeUnknown means the condition shape is not pre-evaluated;
	// the task is reported as not skipped.
	OutcomeUnknown Outcome = iota
	// OutcomeRun means the condition holds under the context.
	OutcomeRun
	// OutcomeSkip means the condition fails under the context.
	OutcomeSkip
)

// Evaluate pre-evaluates a condition expression against ctx.
//
// Exactly four shapes are recognized, by literal prefix/suffix parsing:
//
//	branch == '<v>'
//	branch != '<v>'
//	tag != ''
//	ci == true
//
// Anything else, including combinator expressions, returns OutcomeUnknown.
// This is a dry-run preview, not an expression interpreter; authoritative
// evaluation happens in the executor.
func Evaluate(expr string, ctx Context) Outcome {
	e := strings.TrimSpace(expr)

	if v, ok := quotedOperand(e, "branch == '"); ok {
		if ctx.Branch == v {
			return OutcomeRun
		}
		return OutcomeSkip
	}

	if v, ok := quotedOperand(e, "branch != '"); ok {
		if ctx.Branch != v {
			return OutcomeRun
		}
		return OutcomeSkip
	}

	if e == "tag != ''" {
		if ctx.Tag != "" {
			return OutcomeRun
		}
		return OutcomeSkip
	}

	if e == "ci == true" {
		if ctx.CI {
			return OutcomeRun
		}
		return OutcomeSkip
	}

	return OutcomeUnknown
}

// quotedOperand extracts <v> from expressions shaped like "<prefix><v>'".
func quotedOperand(expr, prefix string) (string, bool) {
	if !strings.HasPrefix(expr, prefix) || !strings.HasSuffix(expr, "'") {
		return "", false
	}
	v := expr[len(prefix) : len(expr)-1]
	if strings.Contains(v, "'") {
		return "", false
	}
	return v, true
}

// Render writes the explain view of an ordered task list. Each line shows
// the task's position, name, command or gate kind, dependencies, target
// override, and resolved condition with its would-skip determination.
// A nil ctx disables pre-evaluation.
func Render(w io.Writer, ordered []Task, ctx *Context) {
	fmt.Fprintf(w, "Pipeline: %d tasks (topological order)\n", len(ordered))

	for i, t := range ordered {
		kind := t.Command
		if t.Gate {
			kind = fmt.Sprintf("gate (%s)", t.GateStrategy)
		}

		line := fmt.Sprintf("  %d. %s: %s", i+1, t.Name, kind)

		if len(t.DependsOn) > 0 {
			line += fmt.Sprintf(" (after: %s)", strings.Join(t.DependsOn, ", "))
		}
		if t.Target != "" {
			line += fmt.Sprintf(" [target: %s]", t.Target)
		}
		if t.When != "" {
			switch {
			case ctx == nil:
				line += fmt.Sprintf(" [when: %s]", t.When)
			default:
				switch Evaluate(t.When, *ctx) {
				case OutcomeSkip:
					line += fmt.Sprintf(" [SKIP: %s]", t.When)
				case OutcomeRun:
					line += fmt.Sprintf(" [RUN: %s]", t.When)
				default:
					line += fmt.Sprintf(" [when: %s]", t.When)
				}
			}
		}

		fmt.Fprintln(w, line)
	}
}
