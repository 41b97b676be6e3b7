// Package compare implements the Comparator: given two histories it finds
// their common prefix and the divergent tails beyond it, the input the
// Merger needs to reconcile a local and remote archive.
package compare

// Differences is the result of comparing two histories: the longest
// shared prefix, and each history's tail beyond it.
type Differences struct {
	Common    []string
	Primary   []string
	Secondary []string
}

// Comparator computes the common prefix and divergent tails of two
// histories, A and B.
type Comparator struct {
	a, b []string
}

// New returns a Comparator over histories a and b.
func New(a, b []string) *Comparator {
	return &Comparator{a: a, b: b}
}

// CalculateDifferences returns the common prefix and each side's tail.
func (c *Comparator) CalculateDifferences() Differences {
	n := len(c.a)
	if len(c.b) < n {
		n = len(c.b)
	}
	i := 0
	for i < n && c.a[i] == c.b[i] {
		i++
	}
	return Differences{
		Common:    append([]string{}, c.a[:i]...),
		Primary:   append([]string{}, c.a[i:]...),
		Secondary: append([]string{}, c.b[i:]...),
	}
}

// ArchivesDiffer reports whether either history has lines beyond their
// common prefix.
func (c *Comparator) ArchivesDiffer() bool {
	d := c.CalculateDifferences()
	return len(d.Primary) > 0 || len(d.Secondary) > 0
}
