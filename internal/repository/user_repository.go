package repository

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/openflock/backend/internal/errors"
	"github.com/openflock/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository is the identity store: user records plus the follow graph
type UserRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewUserRepository creates a repository bound to the given handle
func NewUserRepository(db *gorm.DB, timeout time.Duration) *UserRepository {
	return &UserRepository{db: db, timeout: timeout}
}

// GetByID fetches a user by primary key
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate("user lookup", "user", err)
	}
	return &user, nil
}

// GetByUsername fetches a user by username, case-insensitively
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var user models.User
	if err := r.db.WithContext(ctx).Where("LOWER(username) = LOWER(?)", username).First(&user).Error; err != nil {
		return nil, translate("user lookup", "user", err)
	}
	return &user, nil
}

// GetByEmail fetches a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var user models.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, translate("user lookup", "user", err)
	}
	return &user, nil
}

// Create inserts a new user record
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.Conflict("user")
		}
		return errors.StoreUnavailable("user create", err)
	}
	return nil
}

// Update persists profile changes on an existing user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.Conflict("user")
		}
		return errors.StoreUnavailable("user update", err)
	}
	return nil
}

// Suggested returns up to limit users the given user does not already
// follow, excluding the user themselves
func (r *UserRepository) Suggested(ctx context.Context, userID string, limit int) ([]models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var users []models.User
	err := r.db.WithContext(ctx).
		Where("id != ?", userID).
		Where("id NOT IN (?)", r.db.Model(&models.Follow{}).Select("followee_id").Where("follower_id = ?", userID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, errors.StoreUnavailable("suggested users", err)
	}
	return users, nil
}

// IsFollowing reports whether an edge follower→followee exists
func (r *UserRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, errors.StoreUnavailable("follow lookup", err)
	}
	return count > 0, nil
}

// AddFollow inserts the follow edge. Inserting an edge that already exists
// is not an error: the target state (following) already holds.
func (r *UserRepository) AddFollow(ctx context.Context, followerID, followeeID string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	edge := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	if err := r.db.WithContext(ctx).Create(&edge).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return errors.StoreUnavailable("follow edge insert", err)
	}
	return nil
}

// RemoveFollow deletes the follow edge, reporting whether a row was removed
func (r *UserRepository) RemoveFollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, errors.StoreUnavailable("follow edge delete", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// FollowerIDs returns the ids of users following userID
func (r *UserRepository) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("followee_id = ?", userID).
		Order("created_at ASC").
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, errors.StoreUnavailable("follower list", err)
	}
	return ids, nil
}

// FollowingIDs returns the ids of users userID follows
func (r *UserRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Order("created_at ASC").
		Pluck("followee_id", &ids).Error
	if err != nil {
		return nil, errors.StoreUnavailable("following list", err)
	}
	return ids, nil
}

// AdjustFollowCounts bumps the cached counters on both ends of an edge.
// delta is +1 on follow, -1 on unfollow.
func (r *UserRepository) AdjustFollowCounts(ctx context.Context, followerID, followeeID string, delta int) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	db := r.db.WithContext(ctx)
	if err := db.Model(&models.User{}).Where("id = ?", followeeID).
		UpdateColumn("follower_count", gorm.Expr("follower_count + ?", delta)).Error; err != nil {
		return errors.StoreUnavailable("follower count", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", followerID).
		UpdateColumn("following_count", gorm.Expr("following_count + ?", delta)).Error; err != nil {
		return errors.StoreUnavailable("following count", err)
	}
	return nil
}

// AdjustPostCount bumps the cached authored-post counter
func (r *UserRepository) AdjustPostCount(ctx context.Context, userID string, delta int) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("post_count", gorm.Expr("post_count + ?", delta)).Error
	if err != nil {
		return errors.StoreUnavailable("post count", err)
	}
	return nil
}
