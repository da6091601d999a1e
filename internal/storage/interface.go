package storage

import (
	"context"
	"errors"

	"github.com/UkralStul/social-blog-service/internal/domain"
)

// ErrNotFound is returned when a username, slug or post id does not resolve.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned by CreateUser for a duplicate username.
var ErrUsernameTaken = errors.New("username already taken")

// ErrSelfFollow is returned by CreateFollow when user and author are the
// same account.
var ErrSelfFollow = errors.New("cannot follow yourself")

// Storage is the contract both backends implement. All post listings are
// ordered by creation time, newest first.
type Storage interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	CreateGroup(ctx context.Context, group *domain.Group) (*domain.Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (*domain.Group, error)
	GetGroups(ctx context.Context) ([]*domain.Group, error)

	CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error)
	UpdatePost(ctx context.Context, post *domain.Post) (*domain.Post, error)
	GetPostByAuthorAndID(ctx context.Context, authorID, postID string) (*domain.Post, error)
	GetPosts(ctx context.Context, limit, offset int) ([]*domain.Post, error)
	CountPosts(ctx context.Context) (int, error)
	GetPostsByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Post, error)
	CountPostsByGroup(ctx context.Context, groupID string) (int, error)
	GetPostsByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*domain.Post, error)
	CountPostsByAuthor(ctx context.Context, authorID string) (int, error)
	GetPostsByAuthors(ctx context.Context, authorIDs []string, limit, offset int) ([]*domain.Post, error)
	CountPostsByAuthors(ctx context.Context, authorIDs []string) (int, error)

	CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	// GetCommentsByPost returns the post's comments, newest first.
	GetCommentsByPost(ctx context.Context, postID string) ([]*domain.Comment, error)

	// CreateFollow is a no-op if the edge already exists.
	CreateFollow(ctx context.Context, userID, authorID string) error
	// DeleteFollow is idempotent; a missing edge is not an error.
	DeleteFollow(ctx context.Context, userID, authorID string) error
	IsFollowing(ctx context.Context, userID, authorID string) (bool, error)
	GetFollowedAuthorIDs(ctx context.Context, userID string) ([]string, error)
}
