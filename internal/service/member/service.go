package member

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/zhouzirui/dali-api/internal/model/member"
)

var (
	ErrNameYearRequired = errors.New("name and year are required fields")
	ErrMemberNotFound   = errors.New("member not found")
	ErrInvalidPatch     = errors.New("invalid member update")
)

// Service owns the in-memory member roster.
type Service struct {
	mu      sync.RWMutex
	members []member.Member
	nextID  int
}

// NewService builds the roster from seed data. New ids continue after the
// largest seeded id and are never handed out twice.
func NewService(seed []member.Member) *Service {
	s := &Service{
		members: make([]member.Member, 0, len(seed)),
		nextID:  len(seed) + 1,
	}
	for _, m := range seed {
		s.members = append(s.members, m.Clone())
		s.bumpNextID(m.ID)
	}
	return s
}

// must hold s.mu
func (s *Service) bumpNextID(id int) {
	if id >= s.nextID {
		s.nextID = id + 1
	}
}

// must hold s.mu
func (s *Service) indexOf(id int) int {
	return slices.IndexFunc(s.members, func(m member.Member) bool { return m.ID == id })
}

// List returns every member in insertion order.
func (s *Service) List(_ context.Context) []member.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.members, nil)
}

// Count reports the roster size.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}

// Get returns the member with the given id.
func (s *Service) Get(_ context.Context, id int) (member.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return member.Member{}, ErrMemberNotFound
	}
	return s.members[idx].Clone(), nil
}

// FindByDaliUID resolves a member by the externally issued identifier.
func (s *Service) FindByDaliUID(_ context.Context, daliUID string) (member.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.DaliUID == daliUID {
			return m.Clone(), true
		}
	}
	return member.Member{}, false
}

// Create validates the draft, assigns it the next id and appends it. Drafts
// without a daliUID get a generated one.
func (s *Service) Create(_ context.Context, draft member.Member) (member.Member, error) {
	if !draft.HasRequiredFields() {
		return member.Member{}, ErrNameYearRequired
	}

	created := draft.Clone()
	if created.DaliUID == "" {
		created.DaliUID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	created.ID = s.nextID
	s.nextID++
	s.members = append(s.members, created)

	return created.Clone(), nil
}

// Update shallow-merges patch over the stored member.
func (s *Service) Update(_ context.Context, id int, patch map[string]json.RawMessage) (member.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return member.Member{}, ErrMemberNotFound
	}

	merged, err := s.members[idx].Merge(patch)
	if err != nil {
		return member.Member{}, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	s.members[idx] = merged
	s.bumpNextID(merged.ID)

	return merged.Clone(), nil
}

// Delete removes the member and returns it. Posts and reactions that
// reference the member are left alone.
func (s *Service) Delete(_ context.Context, id int) (member.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return member.Member{}, ErrMemberNotFound
	}

	removed := s.members[idx]
	s.members = slices.Delete(s.members, idx, idx+1)
	return removed, nil
}

// Filter returns the members matching every set criterion of f.
func (s *Service) Filter(_ context.Context, f member.Filter) []member.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.members, f.Match)
}

func cloneAll(items []member.Member, keep func(member.Member) bool) []member.Member {
	out := make([]member.Member, 0, len(items))
	for _, m := range items {
		if keep == nil || keep(m) {
			out = append(out, m.Clone())
		}
	}
	return out
}
