package inmemory

import (
	"context"
	"testing"

	"github.com/UkralStul/social-blog-service/internal/domain"
	"github.com/UkralStul/social-blog-service/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a store with two users for tests.
func newTestStore(t *testing.T) (*Store, *domain.User, *domain.User) {
	store := New()
	ctx := context.Background()
	alice, err := store.CreateUser(ctx, &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"})
	require.NoError(t, err)
	bob, err := store.CreateUser(ctx, &domain.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"})
	require.NoError(t, err)
	return store, alice, bob
}

func TestStore_CreateUser_DuplicateUsername(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateUser(ctx, &domain.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, storage.ErrUsernameTaken)
}

func TestStore_GetUserByUsername_NotFound(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, err := store.GetUserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_PostsNewestFirst(t *testing.T) {
	store, alice, _ := newTestStore(t)
	ctx := context.Background()

	first, err := store.CreatePost(ctx, &domain.Post{Text: "first", AuthorID: alice.ID})
	require.NoError(t, err)
	second, err := store.CreatePost(ctx, &domain.Post{Text: "second", AuthorID: alice.ID})
	require.NoError(t, err)

	posts, err := store.GetPosts(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)

	count, err := store.CountPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStore_GetPostByAuthorAndID(t *testing.T) {
	store, alice, bob := newTestStore(t)
	ctx := context.Background()

	post, err := store.CreatePost(ctx, &domain.Post{Text: "hello", AuthorID: alice.ID})
	require.NoError(t, err)

	found, err := store.GetPostByAuthorAndID(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", found.Text)
	require.NotNil(t, found.Author)
	assert.Equal(t, "alice", found.Author.Username)

	// A post does not resolve through a different author.
	_, err = store.GetPostByAuthorAndID(ctx, bob.ID, post.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_UpdatePost_KeepsAuthorAndCreatedAt(t *testing.T) {
	store, alice, _ := newTestStore(t)
	ctx := context.Background()

	post, err := store.CreatePost(ctx, &domain.Post{Text: "original", AuthorID: alice.ID})
	require.NoError(t, err)
	created := post.CreatedAt

	post.Text = "edited"
	updated, err := store.UpdatePost(ctx, post)
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	assert.Equal(t, alice.ID, updated.AuthorID)
	assert.Equal(t, created, updated.CreatedAt)
}

func TestStore_GroupPosts(t *testing.T) {
	store, alice, _ := newTestStore(t)
	ctx := context.Background()

	group, err := store.CreateGroup(ctx, &domain.Group{Title: "Tech", Slug: "tech"})
	require.NoError(t, err)

	_, err = store.CreatePost(ctx, &domain.Post{Text: "no group", AuthorID: alice.ID})
	require.NoError(t, err)
	inGroup, err := store.CreatePost(ctx, &domain.Post{Text: "grouped", AuthorID: alice.ID, GroupID: &group.ID})
	require.NoError(t, err)

	posts, err := store.GetPostsByGroup(ctx, group.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, inGroup.ID, posts[0].ID)

	_, err = store.GetGroupBySlug(ctx, "unknown")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_CommentsNewestFirst(t *testing.T) {
	store, alice, bob := newTestStore(t)
	ctx := context.Background()

	post, err := store.CreatePost(ctx, &domain.Post{Text: "hello", AuthorID: alice.ID})
	require.NoError(t, err)

	_, err = store.CreateComment(ctx, &domain.Comment{PostID: post.ID, AuthorID: bob.ID, Text: "first"})
	require.NoError(t, err)
	_, err = store.CreateComment(ctx, &domain.Comment{PostID: post.ID, AuthorID: alice.ID, Text: "second"})
	require.NoError(t, err)

	comments, err := store.GetCommentsByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Text)
	assert.Equal(t, "first", comments[1].Text)
	require.NotNil(t, comments[0].Author)
	assert.Equal(t, "alice", comments[0].Author.Username)
}

func TestStore_CreateComment_UnknownPost(t *testing.T) {
	store, _, bob := newTestStore(t)

	_, err := store.CreateComment(context.Background(), &domain.Comment{PostID: "missing", AuthorID: bob.ID, Text: "hi"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_FollowLifecycle(t *testing.T) {
	store, alice, bob := newTestStore(t)
	ctx := context.Background()

	following, err := store.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	require.NoError(t, store.CreateFollow(ctx, alice.ID, bob.ID))
	// Duplicate creates are a no-op, not an error.
	require.NoError(t, store.CreateFollow(ctx, alice.ID, bob.ID))

	following, err = store.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	ids, err := store.GetFollowedAuthorIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, ids)

	// Unfollow is idempotent.
	require.NoError(t, store.DeleteFollow(ctx, alice.ID, bob.ID))
	require.NoError(t, store.DeleteFollow(ctx, alice.ID, bob.ID))

	following, err = store.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestStore_SelfFollowRejected(t *testing.T) {
	store, alice, _ := newTestStore(t)

	err := store.CreateFollow(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, storage.ErrSelfFollow)
}

func TestStore_FollowFeedScope(t *testing.T) {
	store, alice, bob := newTestStore(t)
	ctx := context.Background()

	carol, err := store.CreateUser(ctx, &domain.User{Username: "carol", Email: "carol@example.com", PasswordHash: "x"})
	require.NoError(t, err)

	_, err = store.CreatePost(ctx, &domain.Post{Text: "by bob", AuthorID: bob.ID})
	require.NoError(t, err)
	_, err = store.CreatePost(ctx, &domain.Post{Text: "by carol", AuthorID: carol.ID})
	require.NoError(t, err)

	require.NoError(t, store.CreateFollow(ctx, alice.ID, bob.ID))

	ids, err := store.GetFollowedAuthorIDs(ctx, alice.ID)
	require.NoError(t, err)
	posts, err := store.GetPostsByAuthors(ctx, ids, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "by bob", posts[0].Text)

	count, err := store.CountPostsByAuthors(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStore_Pagination(t *testing.T) {
	store, alice, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, err := store.CreatePost(ctx, &domain.Post{Text: "post", AuthorID: alice.ID})
		require.NoError(t, err)
	}

	firstPage, err := store.GetPosts(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, firstPage, 10)

	secondPage, err := store.GetPosts(ctx, 10, 10)
	require.NoError(t, err)
	assert.Len(t, secondPage, 5)

	empty, err := store.GetPosts(ctx, 10, 20)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
