package regexast

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders a tree as an s-expression, for explain output and test
// failure messages.
//
//	(concat (lit "dat") (star (lit "a")) (capture (alt (lit "bcd") (lit "pqr"))))
func Format(node Node) string {
	var b strings.Builder
	format(&b, node)
	return b.String()
}

func format(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("<nil>")
	case Empty:
		b.WriteString("(empty)")
	case NoMatch:
		b.WriteString("(nomatch)")
	case Anchor:
		fmt.Fprintf(b, "(anchor %s)", n.Kind)
	case Literal:
		if n.FoldCase {
			fmt.Fprintf(b, "(lit/i %s)", strconv.Quote(n.Text()))
		} else {
			fmt.Fprintf(b, "(lit %s)", strconv.Quote(n.Text()))
		}
	case CharClass:
		b.WriteString("(class")
		for i := 0; i+1 < len(n.Ranges); i += 2 {
			if n.Ranges[i] == n.Ranges[i+1] {
				fmt.Fprintf(b, " %q", n.Ranges[i])
			} else {
				fmt.Fprintf(b, " %q-%q", n.Ranges[i], n.Ranges[i+1])
			}
		}
		b.WriteString(")")
	case AnyChar:
		if n.MatchNL {
			b.WriteString("(any/s)")
		} else {
			b.WriteString("(any)")
		}
	case Concat:
		formatList(b, "concat", n.Subs)
	case Alternate:
		formatList(b, "alt", n.Subs)
	case Star:
		formatList(b, "star", []Node{n.Sub})
	case Plus:
		formatList(b, "plus", []Node{n.Sub})
	case Quest:
		formatList(b, "quest", []Node{n.Sub})
	case Repeat:
		fmt.Fprintf(b, "(repeat %d %d ", n.Min, n.Max)
		format(b, n.Sub)
		b.WriteString(")")
	case Capture:
		if n.Name != "" {
			fmt.Fprintf(b, "(capture %s ", n.Name)
			format(b, n.Sub)
			b.WriteString(")")
		} else {
			formatList(b, "capture", []Node{n.Sub})
		}
	default:
		fmt.Fprintf(b, "(unknown %T)", node)
	}
}

func formatList(b *strings.Builder, op string, subs []Node) {
	b.WriteString("(")
	b.WriteString(op)
	for _, sub := range subs {
		b.WriteString(" ")
		format(b, sub)
	}
	b.WriteString(")")
}
