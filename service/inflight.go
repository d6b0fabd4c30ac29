package service

import "sync"

// inFlightSet guards against overlapping analyses for the same pet. The
// guard is checked before gating so a double tap never reaches the quota
// counter twice.
type inFlightSet struct {
	mu   sync.Mutex
	pets map[string]struct{}
}

func newInFlightSet() *inFlightSet {
	return &inFlightSet{pets: make(map[string]struct{})}
}

func (s *inFlightSet) tryAcquire(petID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.pets[petID]; busy {
		return false
	}
	s.pets[petID] = struct{}{}
	return true
}

func (s *inFlightSet) release(petID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pets, petID)
}
