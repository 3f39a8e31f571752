package translate

// budget tracks exact strings generated during one translation.
//
// Exact-set products grow multiplicatively with the pattern, so MaxExact
// alone does not bound total work: a pattern with thousands of small
// classes stays under MaxExact at every step while doing unbounded
// enumeration. The budget is the per-call ceiling. Exhaustion is not an
// error; callers fall back to ANY.
type budget struct {
	limit     int // Zero means unlimited
	spent     int
	exhausted bool
}

func newBudget(limit int) *budget {
	return &budget{limit: limit}
}

// spend reserves n units. Returns false, and marks the budget exhausted,
// when the reservation would exceed the limit.
func (b *budget) spend(n int) bool {
	if b.exhausted {
		return false
	}
	if b.limit > 0 && b.spent+n > b.limit {
		b.exhausted = true
		return false
	}
	b.spent += n
	return true
}

// Spent returns the units reserved so far.
func (b *budget) Spent() int {
	return b.spent
}

// Exhausted reports whether any reservation was refused.
func (b *budget) Exhausted() bool {
	return b.exhausted
}
