// Package crawl: crawl state.
// Pages and pens are tracked separately: pages are a bounded work list keyed
// by NormalizeURL, pens an ordered set of canonical URLs.
package crawl

// Frontier is the BFS work list of pages. It admits at most budget distinct
// pages over its lifetime, so nothing beyond what will be fetched is queued.
type Frontier struct {
	pending []string
	seen    map[string]bool
	budget  int
	popped  int
}

// NewFrontier creates a Frontier holding start, admitting up to budget pages
// (at least one).
func NewFrontier(start string, budget int) *Frontier {
	f := &Frontier{
		seen:   make(map[string]bool),
		budget: max(budget, 1),
	}
	f.Push(start)
	return f
}

// Push queues pageURL unless an equivalent page was already admitted or the
// budget is spent. It reports whether the page was queued.
func (f *Frontier) Push(pageURL string) bool {
	key := NormalizeURL(pageURL)
	if f.seen[key] || len(f.seen) >= f.budget {
		return false
	}
	f.seen[key] = true
	f.pending = append(f.pending, key)
	return true
}

// Pop returns the next page to fetch. first is true for the start page only.
func (f *Frontier) Pop() (pageURL string, first bool, ok bool) {
	if len(f.pending) == 0 {
		return "", false, false
	}
	pageURL, f.pending = f.pending[0], f.pending[1:]
	f.popped++
	return pageURL, f.popped == 1, true
}

// PenSet collects canonical pen URLs in discovery order.
type PenSet struct {
	order []string
	seen  map[string]bool
}

// NewPenSet creates an empty PenSet.
func NewPenSet() *PenSet {
	return &PenSet{seen: make(map[string]bool)}
}

// Add records penURL and reports whether it was new.
func (s *PenSet) Add(penURL string) bool {
	if s.seen[penURL] {
		return false
	}
	s.seen[penURL] = true
	s.order = append(s.order, penURL)
	return true
}

// Len returns the number of distinct pens.
func (s *PenSet) Len() int {
	return len(s.order)
}

// List returns the pens in discovery order, never nil.
func (s *PenSet) List() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
