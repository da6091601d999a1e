package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/UkralStul/social-blog-service/internal/domain"
	"github.com/UkralStul/social-blog-service/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Store implements the Storage interface on PostgreSQL.
type Store struct {
	db *gorm.DB
}

// New connects to the database and migrates the schema.
func New(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Group{},
		&domain.Post{},
		&domain.Comment{},
		&domain.Follow{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.ErrNotFound
	}
	return err
}

// === User Methods ===

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, storage.ErrUsernameTaken
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// === Group Methods ===

func (s *Store) CreateGroup(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	if err := s.db.WithContext(ctx).Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

func (s *Store) GetGroupBySlug(ctx context.Context, slug string) (*domain.Group, error) {
	var group domain.Group
	if err := s.db.WithContext(ctx).First(&group, "slug = ?", slug).Error; err != nil {
		return nil, translate(err)
	}
	return &group, nil
}

func (s *Store) GetGroups(ctx context.Context) ([]*domain.Group, error) {
	var groups []*domain.Group
	err := s.db.WithContext(ctx).Order("title ASC").Find(&groups).Error
	return groups, err
}

// === Post Methods ===

func (s *Store) CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Store) UpdatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	// Only text, image and group are editable; author and creation time
	// stay as persisted.
	err := s.db.WithContext(ctx).Model(&domain.Post{ID: post.ID}).
		Updates(map[string]interface{}{
			"text":     post.Text,
			"image":    post.Image,
			"group_id": post.GroupID,
		}).Error
	if err != nil {
		return nil, err
	}
	var updated domain.Post
	if err := s.db.WithContext(ctx).Preload("Author").Preload("Group").
		First(&updated, "id = ?", post.ID).Error; err != nil {
		return nil, translate(err)
	}
	return &updated, nil
}

func (s *Store) GetPostByAuthorAndID(ctx context.Context, authorID, postID string) (*domain.Post, error) {
	var post domain.Post
	err := s.db.WithContext(ctx).Preload("Author").Preload("Group").
		First(&post, "id = ? AND author_id = ?", postID, authorID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (s *Store) GetPosts(ctx context.Context, limit, offset int) ([]*domain.Post, error) {
	var posts []*domain.Post
	err := s.db.WithContext(ctx).Preload("Author").Preload("Group").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error
	return posts, err
}

func (s *Store) CountPosts(ctx context.Context) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Post{}).Count(&count).Error
	return int(count), err
}

func (s *Store) GetPostsByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Post, error) {
	var posts []*domain.Post
	err := s.db.WithContext(ctx).Preload("Author").Preload("Group").
		Where("group_id = ?", groupID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error
	return posts, err
}

func (s *Store) CountPostsByGroup(ctx context.Context, groupID string) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Post{}).
		Where("group_id = ?", groupID).Count(&count).Error
	return int(count), err
}

func (s *Store) GetPostsByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*domain.Post, error) {
	var posts []*domain.Post
	err := s.db.WithContext(ctx).Preload("Author").Preload("Group").
		Where("author_id = ?", authorID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error
	return posts, err
}

func (s *Store) CountPostsByAuthor(ctx context.Context, authorID string) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Post{}).
		Where("author_id = ?", authorID).Count(&count).Error
	return int(count), err
}

func (s *Store) GetPostsByAuthors(ctx context.Context, authorIDs []string, limit, offset int) ([]*domain.Post, error) {
	if len(authorIDs) == 0 {
		return []*domain.Post{}, nil
	}
	var posts []*domain.Post
	err := s.db.WithContext(ctx).Preload("Author").Preload("Group").
		Where("author_id IN ?", authorIDs).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error
	return posts, err
}

func (s *Store) CountPostsByAuthors(ctx context.Context, authorIDs []string) (int, error) {
	if len(authorIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Post{}).
		Where("author_id IN ?", authorIDs).Count(&count).Error
	return int(count), err
}

// === Comment Methods ===

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Post{}).Where("id = ?", comment.PostID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return storage.ErrNotFound
		}
		return tx.Create(comment).Error
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Store) GetCommentsByPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	err := s.db.WithContext(ctx).Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at DESC").Find(&comments).Error
	return comments, err
}

// === Follow Methods ===

func (s *Store) CreateFollow(ctx context.Context, userID, authorID string) error {
	if userID == authorID {
		return storage.ErrSelfFollow
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Follow{}).
			Where("user_id = ? AND author_id = ?", userID, authorID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return tx.Create(&domain.Follow{UserID: userID, AuthorID: authorID}).Error
	})
}

func (s *Store) DeleteFollow(ctx context.Context, userID, authorID string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&domain.Follow{}).Error
}

func (s *Store) IsFollowing(ctx context.Context, userID, authorID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) GetFollowedAuthorIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&domain.Follow{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("author_id", &ids).Error
	return ids, err
}
