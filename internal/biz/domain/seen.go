package domain

// SeenSet is the identifier memory preventing duplicate notifications
// across poll cycles. There is exactly one writer per run, so
// implementations need no locking.
type SeenSet interface {
	Contains(id string) bool
	Add(id string)
}

// MemorySeenSet is an in-process SeenSet, sufficient for a single run.
type MemorySeenSet struct {
	ids map[string]struct{}
}

// NewMemorySeenSet creates an empty in-memory seen set
func NewMemorySeenSet() *MemorySeenSet {
	return &MemorySeenSet{ids: make(map[string]struct{})}
}

func (s *MemorySeenSet) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *MemorySeenSet) Add(id string) {
	s.ids[id] = struct{}{}
}

// Len returns the number of remembered identifiers
func (s *MemorySeenSet) Len() int {
	return len(s.ids)
}
