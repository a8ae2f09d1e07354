package post

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/zhouzirui/dali-api/internal/model/member"
	"github.com/zhouzirui/dali-api/internal/model/post"
)

var (
	ErrContentRequired  = errors.New("content and daliUID are required fields")
	ErrReactionRequired = errors.New("type and daliUID are required fields")
	ErrPostNotFound     = errors.New("post not found")
	ErrMemberNotFound   = errors.New("member not found")
)

// MemberResolver looks members up by daliUID when a post or reaction is
// created.
type MemberResolver interface {
	FindByDaliUID(ctx context.Context, daliUID string) (member.Member, bool)
}

// Service owns the in-memory posts and their reactions.
type Service struct {
	mu      sync.RWMutex
	posts   []post.Post
	nextID  int
	members MemberResolver
}

// NewService builds the post list from seed data.
func NewService(seed []post.Post, members MemberResolver) *Service {
	s := &Service{
		posts:   make([]post.Post, 0, len(seed)),
		nextID:  len(seed) + 1,
		members: members,
	}
	for _, p := range seed {
		s.posts = append(s.posts, p.Clone())
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	return s
}

// must hold s.mu
func (s *Service) indexOf(id int) int {
	return slices.IndexFunc(s.posts, func(p post.Post) bool { return p.ID == id })
}

// List returns every post in insertion order.
func (s *Service) List(_ context.Context) []post.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]post.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p.Clone())
	}
	return out
}

// Count reports the number of posts.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

// Create publishes content on behalf of the member holding daliUID.
func (s *Service) Create(ctx context.Context, content, daliUID string) (post.Post, error) {
	if content == "" || daliUID == "" {
		return post.Post{}, ErrContentRequired
	}

	author, ok := s.members.FindByDaliUID(ctx, daliUID)
	if !ok {
		return post.Post{}, ErrMemberNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := post.Post{
		ID:        s.nextID,
		Content:   content,
		Author:    post.AuthorFrom(author),
		Reactions: []post.Reaction{},
	}
	s.nextID++
	s.posts = append(s.posts, created)

	return created.Clone(), nil
}

// Delete removes the post and returns it.
func (s *Service) Delete(_ context.Context, id int) (post.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return post.Post{}, ErrPostNotFound
	}

	removed := s.posts[idx]
	s.posts = slices.Delete(s.posts, idx, idx+1)
	return removed.Clone(), nil
}

// AddReaction appends a reaction from the member holding daliUID and returns
// the updated post.
func (s *Service) AddReaction(ctx context.Context, postID int, reactionType, daliUID string) (post.Post, error) {
	if reactionType == "" || daliUID == "" {
		return post.Post{}, ErrReactionRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(postID)
	if idx < 0 {
		return post.Post{}, ErrPostNotFound
	}

	user, ok := s.members.FindByDaliUID(ctx, daliUID)
	if !ok {
		return post.Post{}, ErrMemberNotFound
	}

	s.posts[idx].Reactions = append(s.posts[idx].Reactions, post.Reaction{
		User: post.ReactionUserFrom(user),
		Type: reactionType,
	})

	return s.posts[idx].Clone(), nil
}

// Reactions returns the reactions on a post, oldest first.
func (s *Service) Reactions(_ context.Context, postID int) ([]post.Reaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(postID)
	if idx < 0 {
		return nil, ErrPostNotFound
	}
	return s.posts[idx].Clone().Reactions, nil
}
