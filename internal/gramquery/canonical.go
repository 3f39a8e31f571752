package gramquery

import (
	"strconv"
	"strings"
)

// Operator names used in the canonical encoding.
const (
	opAnd = "and"
	opOr  = "or"
)

// encodeString produces the canonical quoted form of a gram.
//
// The encoding is byte-preserving: invalid UTF-8 is escaped rather than
// replaced, so distinct grams never share a key. HTML characters (<, >, &)
// are NOT escaped. Grams are NOT normalized here: two grams that differ
// only in normalization are different index terms.
func encodeString(s string) string {
	return strconv.Quote(s)
}

// compositeKey builds the canonical key of an And/Or node from the sorted
// keys of its children: {"and":[k1,k2,...]}.
func compositeKey(op string, keys []string) string {
	var b strings.Builder
	b.WriteString(`{"`)
	b.WriteString(op)
	b.WriteString(`":[`)
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
	}
	b.WriteString("]}")
	return b.String()
}
