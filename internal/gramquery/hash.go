package gramquery

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainGramQuery is the domain prefix for query identity.
// Version suffix enables future encoding migration.
const DomainGramQuery = "regram/gramquery/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ID computes the content-addressed identity of a query.
// Equal queries always have the same ID; the ANY sentinel has a single ID
// regardless of whether it was built as an empty And or an empty Or.
func ID(q Query) string {
	if IsAny(q) {
		return hashWithDomain(DomainGramQuery, []byte(Any().Key()))
	}
	return hashWithDomain(DomainGramQuery, []byte(q.Key()))
}
