package repository

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/openflock/backend/internal/errors"
	"github.com/openflock/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository is the content store: posts, their comment threads and
// like edges
type PostRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewPostRepository creates a repository bound to the given handle
func NewPostRepository(db *gorm.DB, timeout time.Duration) *PostRepository {
	return &PostRepository{db: db, timeout: timeout}
}

// GetByID fetches a bare post row
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, translate("post lookup", "post", err)
	}
	return &post, nil
}

// GetWithThread fetches a post with its author and full comment thread,
// comments in append order with their authors resolved
func (r *PostRepository) GetWithThread(ctx context.Context, id string) (*models.Post, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC, comments.id ASC")
		}).
		Preload("Comments.User").
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, translate("post lookup", "post", err)
	}
	return &post, nil
}

// Create inserts a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return errors.StoreUnavailable("post create", err)
	}
	return nil
}

// Delete removes a post together with its comments and like edges.
// The three deletes run in one transaction; notifications referencing the
// post's author are intentionally left behind.
func (r *PostRepository) Delete(ctx context.Context, postID string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, "id = ?", postID).Error
	})
	if err != nil {
		return errors.StoreUnavailable("post delete", err)
	}
	return nil
}

// IsLiked reports whether userID has a like edge on postID
func (r *PostRepository) IsLiked(ctx context.Context, postID, userID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, errors.StoreUnavailable("like lookup", err)
	}
	return count > 0, nil
}

// AddLike inserts the like edge; a duplicate insert means the target state
// already holds and is not an error
func (r *PostRepository) AddLike(ctx context.Context, postID, userID string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	edge := models.PostLike{PostID: postID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&edge).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return errors.StoreUnavailable("like edge insert", err)
	}
	return nil
}

// RemoveLike deletes the like edge, reporting whether a row was removed
func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostLike{})
	if res.Error != nil {
		return false, errors.StoreUnavailable("like edge delete", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// LikeUserIDs returns the ids of users who like the post, oldest edge first
func (r *PostRepository) LikeUserIDs(ctx context.Context, postID string) ([]string, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var ids []string
	err := r.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, errors.StoreUnavailable("like list", err)
	}
	return ids, nil
}

// LikedPostIDs returns the ids of posts the user likes
func (r *PostRepository) LikedPostIDs(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var ids []string
	err := r.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("user_id = ?", userID).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, errors.StoreUnavailable("liked post list", err)
	}
	return ids, nil
}

// AdjustLikeCount bumps the cached like counter on a post
func (r *PostRepository) AdjustLikeCount(ctx context.Context, postID string, delta int) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error
	if err != nil {
		return errors.StoreUnavailable("like count", err)
	}
	return nil
}

// AdjustCommentCount bumps the cached comment counter on a post
func (r *PostRepository) AdjustCommentCount(ctx context.Context, postID string, delta int) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", delta)).Error
	if err != nil {
		return errors.StoreUnavailable("comment count", err)
	}
	return nil
}

// AddComment appends a comment to a post's thread. The append is a single
// row insert, never a read-modify-write of the thread, so concurrent
// appends are all retained.
func (r *PostRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return errors.StoreUnavailable("comment append", err)
	}
	return nil
}

// GetComment fetches a comment, scoped to its parent post
func (r *PostRepository) GetComment(ctx context.Context, postID, commentID string) (*models.Comment, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var comment models.Comment
	err := r.db.WithContext(ctx).
		Where("id = ? AND post_id = ?", commentID, postID).
		First(&comment).Error
	if err != nil {
		return nil, translate("comment lookup", "comment", err)
	}
	return &comment, nil
}

// DeleteComment removes exactly one comment
func (r *PostRepository) DeleteComment(ctx context.Context, commentID string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", commentID).Error; err != nil {
		return errors.StoreUnavailable("comment delete", err)
	}
	return nil
}

// feedQuery is the shared shape of every feed read: author and comment
// authors resolved via batched preloads, never lazy per-row lookups
func (r *PostRepository) feedQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC, comments.id ASC")
		}).
		Preload("Comments.User")
}

// ListGlobal returns every post, newest first
func (r *PostRepository) ListGlobal(ctx context.Context) ([]models.Post, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var posts []models.Post
	err := r.feedQuery(ctx).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, errors.StoreUnavailable("global feed", err)
	}
	return posts, nil
}

// ListByAuthorIDs returns posts by any of the given authors, newest first.
// An empty author set yields an empty slice without touching the store.
func (r *PostRepository) ListByAuthorIDs(ctx context.Context, authorIDs []string) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var posts []models.Post
	err := r.feedQuery(ctx).
		Where("user_id IN ?", authorIDs).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, errors.StoreUnavailable("following feed", err)
	}
	return posts, nil
}

// ListByIDs returns the posts with the given ids in stored order
func (r *PostRepository) ListByIDs(ctx context.Context, postIDs []string) ([]models.Post, error) {
	if len(postIDs) == 0 {
		return []models.Post{}, nil
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var posts []models.Post
	err := r.feedQuery(ctx).
		Where("id IN ?", postIDs).
		Find(&posts).Error
	if err != nil {
		return nil, errors.StoreUnavailable("liked feed", err)
	}
	return posts, nil
}
