package report

// Window selects entries by 1-based index: from Start up to but excluding
// End, and at most Count of them. Zero fields do not restrict.
type Window struct {
	Start int
	End   int
	Count int
}

// DefaultWindow matches the command line defaults.
func DefaultWindow() Window {
	return Window{Start: 1, End: 11, Count: 10}
}

// Bounds returns the half-open 0-based range of a list of n entries that
// the window selects.
func (w Window) Bounds(n int) (int, int) {
	lo := 0
	if w.Start > 1 {
		lo = w.Start - 1
	}
	hi := n
	if w.End > 0 && w.End-1 < hi {
		hi = w.End - 1
	}
	if w.Count > 0 && lo+w.Count < hi {
		hi = lo + w.Count
	}
	if lo > n {
		lo = n
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}
