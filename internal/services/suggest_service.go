package services

import (
	"sync"

	"dressmarket/internal/repos"
	"dressmarket/internal/suggest"
)

// SuggestService owns the suggestion index lifecycle: built from the catalog
// at boot (or restored from a snapshot), rebuilt after every catalog change,
// queried on each typeahead request. The matcher itself is immutable; only
// the pointer swap needs the lock.
type SuggestService struct {
	Shops   *repos.ShopRepo
	Dresses *repos.DressRepo

	mu      sync.RWMutex
	matcher *suggest.Matcher
}

func NewSuggestService(shops *repos.ShopRepo, dresses *repos.DressRepo) *SuggestService {
	return &SuggestService{Shops: shops, Dresses: dresses, matcher: suggest.NewMatcher(nil)}
}

// Rebuild reads the full catalog and swaps in a fresh matcher.
func (s *SuggestService) Rebuild() error {
	shops, err := s.Shops.List()
	if err != nil {
		return err
	}
	dresses, err := s.Dresses.ListAll()
	if err != nil {
		return err
	}
	m := suggest.NewMatcher(suggest.BuildIndex(shops, dresses))

	s.mu.Lock()
	s.matcher = m
	s.mu.Unlock()
	return nil
}

// RestoreSnapshot swaps in a matcher built from a saved snapshot. Used at
// boot so suggestions work before the first Rebuild finishes.
func (s *SuggestService) RestoreSnapshot(path string) error {
	snap, err := suggest.LoadSnapshot(path)
	if err != nil {
		return err
	}
	m := suggest.NewMatcher(snap.Items)

	s.mu.Lock()
	s.matcher = m
	s.mu.Unlock()
	return nil
}

// SaveSnapshot persists the current index.
func (s *SuggestService) SaveSnapshot(path string) error {
	s.mu.RLock()
	m := s.matcher
	s.mu.RUnlock()
	return suggest.SaveSnapshot(path, m.Items())
}

func (s *SuggestService) Query(q string) suggest.Grouped {
	s.mu.RLock()
	m := s.matcher
	s.mu.RUnlock()
	return m.Query(q)
}

func (s *SuggestService) IndexSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matcher.Len()
}
