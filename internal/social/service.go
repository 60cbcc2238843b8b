// Package social implements the follow graph and the interaction ledger:
// the toggle operations (follow/unfollow, like/unlike), comment appends and
// deletes, and the post lifecycle. Every mutation that spans more than one
// record commits the edge first, then the cached counters, then the
// notification fan-out; a failure after the edge committed surfaces as
// STORE_UNAVAILABLE naming the failed step so the caller can retry or leave
// the drift for the backfill-counts reconciliation.
package social

import (
	"context"
	"strings"

	"github.com/openflock/backend/internal/errors"
	"github.com/openflock/backend/internal/logger"
	"github.com/openflock/backend/internal/metrics"
	"github.com/openflock/backend/internal/models"
	"github.com/openflock/backend/internal/repository"
	"go.uber.org/zap"
)

// ImageReleaser releases a stored image reference when its post goes away.
// The actual image host is an external collaborator.
type ImageReleaser interface {
	Release(ctx context.Context, imageURL string) error
}

// NoopImageReleaser is the default release hook
type NoopImageReleaser struct{}

// Release does nothing
func (NoopImageReleaser) Release(ctx context.Context, imageURL string) error {
	return nil
}

// Service coordinates the identity store, the content store and the
// notification log. It holds no mutable state of its own; all shared state
// lives in the stores.
type Service struct {
	users  *repository.UserRepository
	posts  *repository.PostRepository
	notifs *repository.NotificationRepository
	images ImageReleaser
}

// NewService creates the social service
func NewService(users *repository.UserRepository, posts *repository.PostRepository, notifs *repository.NotificationRepository, images ImageReleaser) *Service {
	if images == nil {
		images = NoopImageReleaser{}
	}
	return &Service{users: users, posts: posts, notifs: notifs, images: images}
}

// FollowUnfollow toggles the follow edge actor→target and returns the
// resulting membership state. A follow fans out a notification to the
// target; an unfollow never does.
func (s *Service) FollowUnfollow(ctx context.Context, actorID, targetID string) (bool, error) {
	if actorID == targetID {
		return false, errors.SelfReference("you cannot follow yourself")
	}

	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return false, err
	}

	following, err := s.users.IsFollowing(ctx, actorID, targetID)
	if err != nil {
		return false, err
	}

	if following {
		removed, err := s.users.RemoveFollow(ctx, actorID, targetID)
		if err != nil {
			return true, err
		}
		if removed {
			s.adjustFollowCounters(ctx, actorID, targetID, -1)
			metrics.FollowToggles.WithLabelValues("unfollow").Inc()
		}
		return false, nil
	}

	if err := s.users.AddFollow(ctx, actorID, targetID); err != nil {
		return false, err
	}
	s.adjustFollowCounters(ctx, actorID, targetID, +1)

	notification := models.Notification{
		FromUserID: actorID,
		ToUserID:   targetID,
		Type:       models.NotificationFollow,
	}
	if err := s.notifs.Create(ctx, &notification); err != nil {
		// The edge is committed; surface which step failed
		return true, err
	}
	metrics.FollowToggles.WithLabelValues("follow").Inc()
	metrics.NotificationsFanned.WithLabelValues(string(models.NotificationFollow)).Inc()

	return true, nil
}

// ToggleLike toggles the actor's like on a post and returns the updated
// like set. A fresh like notifies the post's author unless the actor is
// the author. Every unliked→liked transition fans out a new notification;
// rapid like/unlike/like cycles therefore produce duplicates. There is no
// dedup window.
func (s *Service) ToggleLike(ctx context.Context, actorID, postID string) ([]string, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	liked, err := s.posts.IsLiked(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}

	if liked {
		removed, err := s.posts.RemoveLike(ctx, postID, actorID)
		if err != nil {
			return nil, err
		}
		if removed {
			s.adjustLikeCounter(ctx, postID, -1)
			metrics.LikeToggles.WithLabelValues("unlike").Inc()
		}
	} else {
		if err := s.posts.AddLike(ctx, postID, actorID); err != nil {
			return nil, err
		}
		s.adjustLikeCounter(ctx, postID, +1)
		metrics.LikeToggles.WithLabelValues("like").Inc()

		if actorID != post.UserID {
			notification := models.Notification{
				FromUserID: actorID,
				ToUserID:   post.UserID,
				Type:       models.NotificationLike,
			}
			if err := s.notifs.Create(ctx, &notification); err != nil {
				return nil, err
			}
			metrics.NotificationsFanned.WithLabelValues(string(models.NotificationLike)).Inc()
		}
	}

	return s.posts.LikeUserIDs(ctx, postID)
}

// AddComment appends a comment to a post and returns the updated post with
// its full thread resolved
func (s *Service) AddComment(ctx context.Context, actorID, postID, text string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.ValidationError("text", "comment cannot be empty")
	}

	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		PostID: postID,
		UserID: actorID,
		Body:   text,
	}
	if err := s.posts.AddComment(ctx, &comment); err != nil {
		return nil, err
	}
	if err := s.posts.AdjustCommentCount(ctx, postID, +1); err != nil {
		logger.Warn("comment count adjust failed", zap.String("post_id", postID), zap.Error(err))
	}
	metrics.CommentsAppended.Inc()

	return s.posts.GetWithThread(ctx, postID)
}

// DeleteComment removes a comment. The comment's author and the post's
// author may both delete; anyone else is rejected.
func (s *Service) DeleteComment(ctx context.Context, actorID, postID, commentID string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comment, err := s.posts.GetComment(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}

	if actorID != comment.UserID && actorID != post.UserID {
		return nil, errors.Forbidden("you cannot delete this comment")
	}

	if err := s.posts.DeleteComment(ctx, commentID); err != nil {
		return nil, err
	}
	if err := s.posts.AdjustCommentCount(ctx, postID, -1); err != nil {
		logger.Warn("comment count adjust failed", zap.String("post_id", postID), zap.Error(err))
	}

	return s.posts.GetWithThread(ctx, postID)
}

// CreatePost creates a post for the actor. Text and image may not both be
// empty; the image is expected to be an already-uploaded reference.
func (s *Service) CreatePost(ctx context.Context, actorID, text, imageURL string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" && imageURL == "" {
		return nil, errors.ValidationError("text", "post must have text or an image")
	}

	if _, err := s.users.GetByID(ctx, actorID); err != nil {
		return nil, err
	}

	post := models.Post{
		UserID:   actorID,
		Text:     text,
		ImageURL: imageURL,
	}
	if err := s.posts.Create(ctx, &post); err != nil {
		return nil, err
	}
	if err := s.users.AdjustPostCount(ctx, actorID, +1); err != nil {
		logger.Warn("post count adjust failed", zap.String("user_id", actorID), zap.Error(err))
	}
	metrics.PostsCreated.Inc()

	return s.posts.GetWithThread(ctx, post.ID)
}

// DeletePost removes a post its author no longer wants. The stored image
// reference is released, then the post, its comments and its like edges go
// in one transaction. Notifications that pointed at the post are left
// behind.
func (s *Service) DeletePost(ctx context.Context, actorID, postID string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != actorID {
		return errors.Forbidden("you cannot delete this post")
	}

	if post.ImageURL != "" {
		if err := s.images.Release(ctx, post.ImageURL); err != nil {
			logger.Warn("image release failed", zap.String("post_id", postID), zap.Error(err))
		}
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}
	if err := s.users.AdjustPostCount(ctx, actorID, -1); err != nil {
		logger.Warn("post count adjust failed", zap.String("user_id", actorID), zap.Error(err))
	}

	return nil
}

// Counter drift is repairable; edge state is not. Counter failures are
// logged and left to reconciliation instead of failing the toggle.
func (s *Service) adjustFollowCounters(ctx context.Context, actorID, targetID string, delta int) {
	if err := s.users.AdjustFollowCounts(ctx, actorID, targetID, delta); err != nil {
		logger.Warn("follow count adjust failed",
			zap.String("follower_id", actorID),
			zap.String("followee_id", targetID),
			zap.Error(err),
		)
	}
}

func (s *Service) adjustLikeCounter(ctx context.Context, postID string, delta int) {
	if err := s.posts.AdjustLikeCount(ctx, postID, delta); err != nil {
		logger.Warn("like count adjust failed", zap.String("post_id", postID), zap.Error(err))
	}
}
