package harness

// CaseResult is the outcome of translating one pattern.
type CaseResult struct {
	Pattern    string   `json:"pattern"`
	Dialect    string   `json:"dialect"`
	Query      string   `json:"query,omitempty"`
	IndexQuery string   `json:"index_query,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
	Error      string   `json:"error,omitempty"`

	// Matches lists documents the exact regex matches. Empty when the
	// dialect cannot be checked with the standard matcher.
	Matches []string `json:"-"`

	// Clauses holds the DNF clauses of the simplified query.
	Clauses [][]string `json:"-"`

	checked bool // Matches is meaningful
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Cases are in scenario order.
	Cases []CaseResult `json:"cases"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Case returns the result for pattern, or nil.
func (r *Result) Case(pattern string) *CaseResult {
	for i := range r.Cases {
		if r.Cases[i].Pattern == pattern {
			return &r.Cases[i]
		}
	}
	return nil
}
