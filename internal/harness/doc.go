// Package harness runs translation scenarios defined in YAML.
//
// A scenario fixes the translator settings, seeds a scratch gram index
// with documents, and lists patterns together with the results they must
// produce. Assertions then check properties that must hold for every
// pattern in the scenario.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	config:
//	  gram_length: 3
//	documents:
//	  - "the data base"
//	  - "databases and bcd"
//	cases:
//	  - pattern: "data*(bcd|pqr)"
//	    expect: 'OR(AND("bcd","dat"),AND("dat","pqr"))'
//	    index_query: '((gram:"bcd" AND gram:"dat") OR (gram:"dat" AND gram:"pqr"))'
//	    candidates: [doc-0002]
//	assertions:
//	  - type: sound
//	  - type: dnf
//
// Document IDs are assigned in order as doc-0001, doc-0002, and so on.
//
// # Assertion Types
//
//   - sound: every document the exact regex matches is a candidate
//   - dnf: every simplified query is in disjunctive normal form
//   - minimal: no clause of a simplified query is implied by another
//   - deterministic: translating a pattern twice gives the same query
//   - any: the named patterns impose no gram constraint
//
// # Golden Files
//
// RunWithGolden compares a JSON snapshot of the results against
// testdata/golden/{scenario.Name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
