package regexast

import "fmt"

// ValidationResult reports structural problems in a syntax tree.
type ValidationResult struct {
	// Valid is true when Problems is empty.
	Valid bool

	// Problems lists every defect found, in traversal order.
	Problems []string
}

// Validate checks structural invariants of a tree built by hand or by a
// front-end:
//  1. No nil nodes or nil children
//  2. CharClass ranges come in lo/hi pairs with lo <= hi
//  3. Repeat bounds satisfy 0 <= Min and (Max == -1 or Min <= Max)
//  4. Literals are non-empty
//
// Validate is a pure function with no side effects.
func Validate(node Node) ValidationResult {
	v := &validator{problems: []string{}}
	v.validate(node, "root")
	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

// Err returns nil for a valid tree and a *TreeError otherwise.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &TreeError{Problems: r.Problems}
}

type validator struct {
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validate(node Node, path string) {
	switch n := node.(type) {
	case nil:
		v.addProblem("%s: nil node", path)
	case Empty, NoMatch, Anchor, AnyChar:
		// Always valid
	case Literal:
		if len(n.Runes) == 0 {
			v.addProblem("%s: empty literal", path)
		}
	case CharClass:
		if len(n.Ranges)%2 != 0 {
			v.addProblem("%s: class has odd range count %d", path, len(n.Ranges))
			return
		}
		for i := 0; i < len(n.Ranges); i += 2 {
			if n.Ranges[i] > n.Ranges[i+1] {
				v.addProblem("%s: class range %q-%q is inverted", path, n.Ranges[i], n.Ranges[i+1])
			}
		}
	case Concat:
		for i, sub := range n.Subs {
			v.validate(sub, fmt.Sprintf("%s.concat[%d]", path, i))
		}
	case Alternate:
		if len(n.Subs) == 0 {
			v.addProblem("%s: alternation has no branches", path)
		}
		for i, sub := range n.Subs {
			v.validate(sub, fmt.Sprintf("%s.alt[%d]", path, i))
		}
	case Star:
		v.validate(n.Sub, path+".star")
	case Plus:
		v.validate(n.Sub, path+".plus")
	case Quest:
		v.validate(n.Sub, path+".quest")
	case Repeat:
		if n.Min < 0 {
			v.addProblem("%s: repeat min %d is negative", path, n.Min)
		}
		if n.Max != -1 && n.Max < n.Min {
			v.addProblem("%s: repeat max %d below min %d", path, n.Max, n.Min)
		}
		v.validate(n.Sub, path+".repeat")
	case Capture:
		v.validate(n.Sub, path+".capture")
	default:
		v.addProblem("%s: unknown node type %T", path, node)
	}
}
