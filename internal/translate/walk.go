package translate

import (
	"fmt"
	"slices"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/regram/internal/gramquery"
	"github.com/roach88/regram/internal/regexast"
)

// info summarises a subexpression: either the exact set of strings it
// matches, or a query every match must satisfy.
type info struct {
	exact   []string // Sorted and deduplicated; valid when isExact
	isExact bool
	query   gramquery.Query
}

func exactInfo(set []string) info {
	return info{exact: set, isExact: true}
}

func queryInfo(q gramquery.Query) info {
	return info{query: q}
}

func anyInfo() info {
	return queryInfo(gramquery.Any())
}

// translation is the state of one TranslateAST call.
type translation struct {
	cfg    Config
	budget *budget
}

func (t *translation) translate(node regexast.Node) (info, error) {
	switch n := node.(type) {
	case regexast.Empty, regexast.Anchor:
		return exactInfo([]string{""}), nil

	case regexast.NoMatch, regexast.AnyChar:
		return anyInfo(), nil

	case regexast.Literal:
		if n.FoldCase {
			return t.concat([]regexast.Node{n})
		}
		if !t.budget.spend(1) {
			return anyInfo(), nil
		}
		return exactInfo([]string{string(n.Runes)}), nil

	case regexast.CharClass:
		return t.class(n), nil

	case regexast.Concat:
		return t.concat(n.Subs)

	case regexast.Alternate:
		return t.alternate(n.Subs)

	case regexast.Star:
		// The body may occur zero times; only its validity matters.
		if _, err := t.translate(n.Sub); err != nil {
			return info{}, err
		}
		return anyInfo(), nil

	case regexast.Quest:
		return t.quest(n.Sub)

	case regexast.Plus, regexast.Repeat:
		return t.concat([]regexast.Node{n})

	case regexast.Capture:
		return t.translate(n.Sub)

	default:
		return info{}, &UnsupportedNodeError{Op: fmt.Sprintf("%T", node)}
	}
}

// concat joins a sequence left to right. Exact elements are multiplied
// into the current run; when a product would exceed MaxExact, or a
// non-exact element arrives, the run is flushed into a query and a new run
// starts. The result is exact only if nothing was flushed.
func (t *translation) concat(nodes []regexast.Node) (info, error) {
	var parts []gramquery.Query
	run := []string{""}
	split := false

	for _, node := range t.sequence(nodes) {
		in, err := t.translate(node)
		if err != nil {
			return info{}, err
		}
		if in.isExact {
			if joined, ok := t.cross(run, in.exact); ok {
				run = joined
				continue
			}
			parts = appendPart(parts, t.queryOf(run))
			run = in.exact
			split = true
			continue
		}
		parts = appendPart(parts, t.queryOf(run))
		parts = appendPart(parts, in.query)
		run = []string{""}
		split = true
	}

	if !split {
		return exactInfo(run), nil
	}
	parts = appendPart(parts, t.queryOf(run))
	return queryInfo(andOf(parts)), nil
}

// sequence flattens nested concatenations, captures, fold-case literals
// and repetitions into one list of concatenation elements, so exact runs
// continue across group boundaries.
func (t *translation) sequence(nodes []regexast.Node) []regexast.Node {
	var out []regexast.Node
	for _, node := range nodes {
		out = t.appendSequence(out, node)
	}
	return out
}

func (t *translation) appendSequence(out []regexast.Node, node regexast.Node) []regexast.Node {
	switch n := node.(type) {
	case regexast.Concat:
		for _, sub := range n.Subs {
			out = t.appendSequence(out, sub)
		}
		return out
	case regexast.Capture:
		return t.appendSequence(out, n.Sub)
	case regexast.Plus:
		out = t.appendSequence(out, n.Sub)
		return append(out, regexast.Star{Sub: n.Sub})
	case regexast.Repeat:
		return t.appendRepeat(out, n)
	case regexast.Literal:
		if !n.FoldCase {
			return append(out, n)
		}
		for _, r := range n.Runes {
			out = append(out, foldClass(r))
		}
		return out
	default:
		return append(out, node)
	}
}

// appendRepeat unrolls sub{min,max}: min mandatory copies followed by
// max-min optional ones. Unbounded repeats, and repeats beyond MaxRepeat,
// end in a star.
func (t *translation) appendRepeat(out []regexast.Node, r regexast.Repeat) []regexast.Node {
	limit := t.cfg.MaxRepeat
	mandatory := min(r.Min, limit)
	for i := 0; i < mandatory; i++ {
		out = t.appendSequence(out, r.Sub)
	}

	if r.Max == -1 || r.Max > limit {
		return append(out, regexast.Star{Sub: r.Sub})
	}
	for i := r.Min; i < r.Max; i++ {
		out = append(out, regexast.Quest{Sub: r.Sub})
	}
	return out
}

// foldClass returns the class of runes equal to r under simple case folding.
func foldClass(r rune) regexast.Node {
	orbit := []rune{r}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		orbit = append(orbit, f)
	}
	if len(orbit) == 1 {
		return regexast.Literal{Runes: orbit}
	}
	slices.Sort(orbit)
	ranges := make([]rune, 0, 2*len(orbit))
	for _, o := range orbit {
		ranges = append(ranges, o, o)
	}
	return regexast.CharClass{Ranges: ranges}
}

func (t *translation) class(c regexast.CharClass) info {
	size := c.Size()
	if size <= 0 || size > t.cfg.MaxClassSize || size > t.cfg.MaxExact {
		return anyInfo()
	}
	if !t.budget.spend(size) {
		return anyInfo()
	}
	set := make([]string, 0, size)
	for _, r := range c.Runes() {
		set = append(set, string(r))
	}
	return exactInfo(normalizeSet(set))
}

// alternate unions exact branches when the union stays small. Otherwise
// it ORs the branch queries; a branch without constraint makes the whole
// alternation unconstrained.
func (t *translation) alternate(subs []regexast.Node) (info, error) {
	if len(subs) == 0 {
		return anyInfo(), nil
	}

	infos := make([]info, 0, len(subs))
	allExact := true
	for _, sub := range subs {
		in, err := t.translate(sub)
		if err != nil {
			return info{}, err
		}
		infos = append(infos, in)
		allExact = allExact && in.isExact
	}

	if allExact {
		var union []string
		for _, in := range infos {
			union = append(union, in.exact...)
		}
		union = normalizeSet(union)
		if len(union) <= t.cfg.MaxExact && t.budget.spend(len(union)) {
			return exactInfo(union), nil
		}
	}

	queries := make([]gramquery.Query, 0, len(infos))
	for _, in := range infos {
		q := t.toQuery(in)
		if gramquery.IsAny(q) {
			return anyInfo(), nil
		}
		queries = append(queries, q)
	}
	if len(queries) == 1 {
		return queryInfo(queries[0]), nil
	}
	return queryInfo(gramquery.NewOr(queries...)), nil
}

// quest adds the empty string to an exact set. A non-exact body gives no
// constraint because it may be absent.
func (t *translation) quest(sub regexast.Node) (info, error) {
	in, err := t.translate(sub)
	if err != nil {
		return info{}, err
	}
	if !in.isExact || len(in.exact)+1 > t.cfg.MaxExact || !t.budget.spend(1) {
		return anyInfo(), nil
	}
	set := append(slices.Clone(in.exact), "")
	return exactInfo(normalizeSet(set)), nil
}

// cross returns every concatenation x+y, or false when the product would
// exceed MaxExact or the budget.
func (t *translation) cross(left, right []string) ([]string, bool) {
	if isEmptyString(right) {
		return left, true
	}
	if isEmptyString(left) {
		return right, true
	}
	n := len(left) * len(right)
	if n > t.cfg.MaxExact || !t.budget.spend(n) {
		return nil, false
	}
	out := make([]string, 0, n)
	for _, x := range left {
		for _, y := range right {
			out = append(out, x+y)
		}
	}
	return normalizeSet(out), true
}

func (t *translation) toQuery(in info) gramquery.Query {
	if in.isExact {
		return t.queryOf(in.exact)
	}
	return in.query
}

// queryOf converts an exact set into a query: the OR over its strings of
// the AND of each string's grams. A string shorter than the gram length
// gives no constraint, which makes the whole OR unconstrained.
func (t *translation) queryOf(set []string) gramquery.Query {
	if len(set) == 0 {
		return gramquery.Any()
	}
	alts := make([]gramquery.Query, 0, len(set))
	for _, s := range set {
		q := t.grams(s)
		if gramquery.IsAny(q) {
			return gramquery.Any()
		}
		alts = append(alts, q)
	}
	if len(alts) == 1 {
		return alts[0]
	}
	return gramquery.NewOr(alts...)
}

// grams slides a GramLength window across s, one rune at a time.
func (t *translation) grams(s string) gramquery.Query {
	if t.cfg.Normalize {
		s = stableNFC(s)
	}
	runes := []rune(s)
	n := t.cfg.GramLength
	if len(runes) < n {
		return gramquery.Any()
	}
	leaves := make([]gramquery.Query, 0, len(runes)-n+1)
	for i := 0; i+n <= len(runes); i++ {
		leaves = append(leaves, gramquery.NewLeaf(string(runes[i:i+n])))
	}
	if len(leaves) == 1 {
		return leaves[0]
	}
	return gramquery.NewAnd(leaves...)
}

// stableNFC returns the NFC form of the part of s that normalizes the same
// way wherever s occurs. Runes before the first normalization boundary may
// compose with the text in front of s, and the last segment may compose
// with the text after it; both are dropped.
func stableNFC(s string) string {
	runes := []rune(s)
	start := -1
	for i, r := range runes {
		if boundaryBefore(r) {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}

	end := len(runes)
	if !norm.NFC.PropertiesString(string(runes[end-1])).BoundaryAfter() {
		end = start
		for i := len(runes) - 1; i > start; i-- {
			if boundaryBefore(runes[i]) {
				end = i
				break
			}
		}
	}
	return norm.NFC.String(string(runes[start:end]))
}

func boundaryBefore(r rune) bool {
	return norm.NFC.PropertiesString(string(r)).BoundaryBefore()
}

// appendPart adds q to an AND under construction, skipping ANY.
func appendPart(parts []gramquery.Query, q gramquery.Query) []gramquery.Query {
	if gramquery.IsAny(q) {
		return parts
	}
	return append(parts, q)
}

func andOf(parts []gramquery.Query) gramquery.Query {
	switch len(parts) {
	case 0:
		return gramquery.Any()
	case 1:
		return parts[0]
	default:
		return gramquery.NewAnd(parts...)
	}
}

func isEmptyString(set []string) bool {
	return len(set) == 1 && set[0] == ""
}

func normalizeSet(set []string) []string {
	slices.Sort(set)
	return slices.Compact(set)
}
