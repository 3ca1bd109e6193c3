package retry

// Counter tracks consecutive failures against a policy's budget.
// It is not safe for concurrent use.
type Counter struct {
	max     int
	current int
}

// NewCounter returns a counter for p.MaxConsecutive failures.
func (p Policy) NewCounter() *Counter {
	return &Counter{max: p.MaxConsecutive}
}

// Fail records a failure and reports whether the budget is exhausted.
func (c *Counter) Fail() bool {
	c.current++
	return c.current >= c.max
}

// Reset clears the streak after a success.
func (c *Counter) Reset() { c.current = 0 }

// Count returns the current streak of failures.
func (c *Counter) Count() int { return c.current }
