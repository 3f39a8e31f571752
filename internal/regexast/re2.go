package regexast

import (
	"regexp/syntax"
	"slices"
)

func parseRE2(pattern string) (Node, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, &ParseError{Dialect: DialectRE2, Pattern: pattern, Err: err}
	}
	return fromRE2(re)
}

// fromRE2 maps an unsimplified regexp/syntax tree. Repeat is kept as a node
// so the translator can decide how far to unroll it.
func fromRE2(re *syntax.Regexp) (Node, error) {
	switch re.Op {
	case syntax.OpNoMatch:
		return NoMatch{}, nil
	case syntax.OpEmptyMatch:
		return Empty{}, nil
	case syntax.OpLiteral:
		return Literal{
			Runes:    slices.Clone(re.Rune),
			FoldCase: re.Flags&syntax.FoldCase != 0,
		}, nil
	case syntax.OpCharClass:
		return CharClass{Ranges: slices.Clone(re.Rune)}, nil
	case syntax.OpAnyCharNotNL:
		return AnyChar{}, nil
	case syntax.OpAnyChar:
		return AnyChar{MatchNL: true}, nil
	case syntax.OpBeginLine:
		return Anchor{Kind: BeginLine}, nil
	case syntax.OpEndLine:
		return Anchor{Kind: EndLine}, nil
	case syntax.OpBeginText:
		return Anchor{Kind: BeginText}, nil
	case syntax.OpEndText:
		return Anchor{Kind: EndText}, nil
	case syntax.OpWordBoundary:
		return Anchor{Kind: WordBoundary}, nil
	case syntax.OpNoWordBoundary:
		return Anchor{Kind: NoWordBoundary}, nil
	case syntax.OpCapture:
		sub, err := fromRE2(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return Capture{Sub: sub, Name: re.Name, Index: re.Cap}, nil
	case syntax.OpStar:
		sub, err := fromRE2(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return Star{Sub: sub}, nil
	case syntax.OpPlus:
		sub, err := fromRE2(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return Plus{Sub: sub}, nil
	case syntax.OpQuest:
		sub, err := fromRE2(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return Quest{Sub: sub}, nil
	case syntax.OpRepeat:
		sub, err := fromRE2(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return Repeat{Sub: sub, Min: re.Min, Max: re.Max}, nil
	case syntax.OpConcat:
		subs, err := fromRE2Subs(re.Sub)
		if err != nil {
			return nil, err
		}
		return Concat{Subs: subs}, nil
	case syntax.OpAlternate:
		subs, err := fromRE2Subs(re.Sub)
		if err != nil {
			return nil, err
		}
		return Alternate{Subs: subs}, nil
	default:
		return nil, &UnsupportedNodeError{Dialect: DialectRE2, Op: re.Op.String()}
	}
}

func fromRE2Subs(subs []*syntax.Regexp) ([]Node, error) {
	out := make([]Node, 0, len(subs))
	for _, s := range subs {
		n, err := fromRE2(s)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
