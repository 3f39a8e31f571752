package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/regram/internal/gramquery"
	"github.com/roach88/regram/internal/regexast"
)

// AssertionError is returned when an expectation or assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Pattern  string
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s for %q\n", e.Type, e.Pattern)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// assertSound checks that no matching document was filtered out.
func assertSound(cr CaseResult) error {
	if !cr.checked {
		return nil
	}
	var missing []string
	for _, id := range cr.Matches {
		if !slices.Contains(cr.Candidates, id) {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertSound,
		Pattern:  cr.Pattern,
		Expected: fmt.Sprintf("candidates include every match %v", cr.Matches),
		Actual:   fmt.Sprintf("missing %v from candidates %v", missing, cr.Candidates),
	}
}

// assertDNF checks the clause form of the simplified query: every
// clause non-empty, grams sorted and distinct.
func assertDNF(cr CaseResult) error {
	for _, clause := range cr.Clauses {
		if len(clause) == 0 || !slices.IsSorted(clause) || len(slices.Compact(slices.Clone(clause))) != len(clause) {
			return &AssertionError{
				Type:     AssertDNF,
				Pattern:  cr.Pattern,
				Expected: "non-empty clauses of sorted distinct grams",
				Actual:   fmt.Sprintf("clause %v in %s", clause, cr.Query),
			}
		}
	}
	return nil
}

// assertMinimal checks that no clause contains another.
func assertMinimal(cr CaseResult) error {
	for i, a := range cr.Clauses {
		for j, b := range cr.Clauses {
			if i != j && containsAll(a, b) {
				return &AssertionError{
					Type:     AssertMinimal,
					Pattern:  cr.Pattern,
					Expected: "no clause implied by another",
					Actual:   fmt.Sprintf("%v contains %v", a, b),
				}
			}
		}
	}
	return nil
}

func containsAll(haystack, needles []string) bool {
	for _, n := range needles {
		if !slices.Contains(haystack, n) {
			return false
		}
	}
	return true
}

// assertDeterministic re-translates the pattern and compares canonical keys.
func assertDeterministic(h *Harness, cr CaseResult) error {
	tr, err := h.translator(regexast.Dialect(cr.Dialect))
	if err != nil {
		return err
	}
	q, err := tr.Translate(cr.Pattern)
	if err != nil {
		return err
	}
	if q.String() != cr.Query {
		return &AssertionError{
			Type:     AssertDeterministic,
			Pattern:  cr.Pattern,
			Expected: cr.Query,
			Actual:   q.String(),
		}
	}
	return nil
}

// assertAny checks that the pattern imposes no constraint.
func assertAny(cr CaseResult) error {
	if cr.Query == gramquery.Any().String() {
		return nil
	}
	return &AssertionError{
		Type:     AssertAny,
		Pattern:  cr.Pattern,
		Expected: gramquery.Any().String(),
		Actual:   cr.Query,
	}
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions. Cases that
// failed to translate are skipped; their expectations already report it.
func EvaluateAssertions(result *Result, assertions []Assertion, h *Harness) []string {
	var errors []string

	for i, assertion := range assertions {
		cases, err := selectCases(result, assertion)
		if err != nil {
			errors = append(errors, fmt.Sprintf("assertion[%d]: %v", i, err))
			continue
		}

		for _, cr := range cases {
			if cr.Error != "" {
				continue
			}
			switch assertion.Type {
			case AssertSound:
				err = assertSound(cr)
			case AssertDNF:
				err = assertDNF(cr)
			case AssertMinimal:
				err = assertMinimal(cr)
			case AssertDeterministic:
				if h == nil {
					err = fmt.Errorf("assertion[%d]: deterministic requires a harness", i)
				} else {
					err = assertDeterministic(h, cr)
				}
			case AssertAny:
				err = assertAny(cr)
			default:
				err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
			}
			if err != nil {
				errors = append(errors, err.Error())
			}
		}
	}

	return errors
}

func selectCases(result *Result, assertion Assertion) ([]CaseResult, error) {
	if len(assertion.Patterns) == 0 {
		return result.Cases, nil
	}
	cases := make([]CaseResult, 0, len(assertion.Patterns))
	for _, p := range assertion.Patterns {
		cr := result.Case(p)
		if cr == nil {
			return nil, fmt.Errorf("pattern %q is not a case of this scenario", p)
		}
		cases = append(cases, *cr)
	}
	return cases, nil
}
