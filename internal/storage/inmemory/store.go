package inmemory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/UkralStul/social-blog-service/internal/domain"
	"github.com/UkralStul/social-blog-service/internal/storage"
	"github.com/google/uuid"
)

// Store implements the Storage interface in memory. Used in dev mode and
// as the backend for handler tests.
type Store struct {
	mu             sync.RWMutex
	users          map[string]*domain.User  // by id
	usersByName    map[string]string        // username -> id
	groups         map[string]*domain.Group // by id
	groupsBySlug   map[string]string        // slug -> id
	posts          map[string]*domain.Post
	comments       map[string]*domain.Comment
	commentsByPost map[string][]string          // postID -> []commentID, insertion order
	follows        map[string]map[string]bool   // userID -> set of authorIDs
	lastCreated    time.Time
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		users:          make(map[string]*domain.User),
		usersByName:    make(map[string]string),
		groups:         make(map[string]*domain.Group),
		groupsBySlug:   make(map[string]string),
		posts:          make(map[string]*domain.Post),
		comments:       make(map[string]*domain.Comment),
		commentsByPost: make(map[string][]string),
		follows:        make(map[string]map[string]bool),
	}
}

// nextCreated returns a strictly increasing timestamp so that records
// created in the same instant still sort deterministically. Callers must
// hold the write lock.
func (s *Store) nextCreated() time.Time {
	now := time.Now().UTC()
	if !now.After(s.lastCreated) {
		now = s.lastCreated.Add(time.Microsecond)
	}
	s.lastCreated = now
	return now
}

// === User Methods ===

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usersByName[user.Username]; taken {
		return nil, storage.ErrUsernameTaken
	}
	user.ID = uuid.NewString()
	user.CreatedAt = s.nextCreated()
	s.users[user.ID] = user
	s.usersByName[user.Username] = user.ID
	return user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByName[username]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return s.users[id], nil
}

// === Group Methods ===

func (s *Store) CreateGroup(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group.ID = uuid.NewString()
	group.CreatedAt = s.nextCreated()
	s.groups[group.ID] = group
	s.groupsBySlug[group.Slug] = group.ID
	return group, nil
}

func (s *Store) GetGroupBySlug(ctx context.Context, slug string) (*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.groupsBySlug[slug]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return s.groups[id], nil
}

func (s *Store) GetGroups(ctx context.Context) ([]*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]*domain.Group, 0, len(s.groups))
	for _, g := range s.groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Title < groups[j].Title
	})
	return groups, nil
}

// === Post Methods ===

func (s *Store) CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post.ID = uuid.NewString()
	post.CreatedAt = s.nextCreated()
	post.Author = s.users[post.AuthorID]
	if post.GroupID != nil {
		post.Group = s.groups[*post.GroupID]
	}
	s.posts[post.ID] = post
	return post, nil
}

func (s *Store) UpdatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.posts[post.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	// Author and creation time are immutable.
	existing.Text = post.Text
	existing.Image = post.Image
	existing.GroupID = post.GroupID
	existing.Group = nil
	if post.GroupID != nil {
		existing.Group = s.groups[*post.GroupID]
	}
	return existing, nil
}

func (s *Store) GetPostByAuthorAndID(ctx context.Context, authorID, postID string) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[postID]
	if !ok || post.AuthorID != authorID {
		return nil, storage.ErrNotFound
	}
	return post, nil
}

func (s *Store) GetPosts(ctx context.Context, limit, offset int) ([]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paginate(s.sortedPosts(nil), limit, offset), nil
}

func (s *Store) CountPosts(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts), nil
}

func (s *Store) GetPostsByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := s.sortedPosts(func(p *domain.Post) bool {
		return p.GroupID != nil && *p.GroupID == groupID
	})
	return paginate(matches, limit, offset), nil
}

func (s *Store) CountPostsByGroup(ctx context.Context, groupID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.posts {
		if p.GroupID != nil && *p.GroupID == groupID {
			n++
		}
	}
	return n, nil
}

func (s *Store) GetPostsByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := s.sortedPosts(func(p *domain.Post) bool { return p.AuthorID == authorID })
	return paginate(matches, limit, offset), nil
}

func (s *Store) CountPostsByAuthor(ctx context.Context, authorID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.posts {
		if p.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (s *Store) GetPostsByAuthors(ctx context.Context, authorIDs []string, limit, offset int) ([]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := toSet(authorIDs)
	matches := s.sortedPosts(func(p *domain.Post) bool { return wanted[p.AuthorID] })
	return paginate(matches, limit, offset), nil
}

func (s *Store) CountPostsByAuthors(ctx context.Context, authorIDs []string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := toSet(authorIDs)
	n := 0
	for _, p := range s.posts {
		if wanted[p.AuthorID] {
			n++
		}
	}
	return n, nil
}

// sortedPosts returns posts matching the filter, newest first. A nil
// filter matches everything. Callers must hold at least the read lock.
func (s *Store) sortedPosts(match func(*domain.Post) bool) []*domain.Post {
	posts := make([]*domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if match == nil || match(p) {
			posts = append(posts, p)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

func paginate(posts []*domain.Post, limit, offset int) []*domain.Post {
	if offset >= len(posts) {
		return []*domain.Post{}
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end]
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// === Comment Methods ===

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[comment.PostID]; !ok {
		return nil, storage.ErrNotFound
	}
	if strings.TrimSpace(comment.Text) == "" {
		return nil, errors.New("comment text cannot be empty")
	}
	comment.ID = uuid.NewString()
	comment.CreatedAt = s.nextCreated()
	comment.Author = s.users[comment.AuthorID]
	s.comments[comment.ID] = comment
	s.commentsByPost[comment.PostID] = append(s.commentsByPost[comment.PostID], comment.ID)
	return comment, nil
}

func (s *Store) GetCommentsByPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.commentsByPost[postID]
	comments := make([]*domain.Comment, 0, len(ids))
	// Insertion order is oldest first; walk backwards for newest first.
	for i := len(ids) - 1; i >= 0; i-- {
		comments = append(comments, s.comments[ids[i]])
	}
	return comments, nil
}

// === Follow Methods ===

func (s *Store) CreateFollow(ctx context.Context, userID, authorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if userID == authorID {
		return storage.ErrSelfFollow
	}
	if s.follows[userID] == nil {
		s.follows[userID] = make(map[string]bool)
	}
	s.follows[userID][authorID] = true
	return nil
}

func (s *Store) DeleteFollow(ctx context.Context, userID, authorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.follows[userID], authorID)
	return nil
}

func (s *Store) IsFollowing(ctx context.Context, userID, authorID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.follows[userID][authorID], nil
}

func (s *Store) GetFollowedAuthorIDs(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.follows[userID]))
	for id := range s.follows[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
