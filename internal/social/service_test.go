package social

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/openflock/backend/internal/database"
	apperrors "github.com/openflock/backend/internal/errors"
	"github.com/openflock/backend/internal/models"
	"github.com/openflock/backend/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SocialServiceTestSuite runs the toggle and comment semantics against an
// in-memory database
type SocialServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	users   *repository.UserRepository
	posts   *repository.PostRepository
	notifs  *repository.NotificationRepository
	service *Service

	alice *models.User
	bob   *models.User
	carol *models.User
}

func (suite *SocialServiceTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open("file:socialtest?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(suite.T(), err)

	sqlDB, err := db.DB()
	require.NoError(suite.T(), err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(suite.T(), database.MigrateWith(db))

	suite.db = db
	suite.users = repository.NewUserRepository(db, repository.DefaultTimeout)
	suite.posts = repository.NewPostRepository(db, repository.DefaultTimeout)
	suite.notifs = repository.NewNotificationRepository(db, repository.DefaultTimeout)
	suite.service = NewService(suite.users, suite.posts, suite.notifs, nil)
}

func (suite *SocialServiceTestSuite) TearDownSuite() {
	sqlDB, _ := suite.db.DB()
	sqlDB.Close()
}

func (suite *SocialServiceTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM notifications")
	suite.db.Exec("DELETE FROM post_likes")
	suite.db.Exec("DELETE FROM follows")
	suite.db.Exec("DELETE FROM comments")
	suite.db.Exec("DELETE FROM posts")
	suite.db.Exec("DELETE FROM users")

	suite.alice = suite.createUser("alice")
	suite.bob = suite.createUser("bob")
	suite.carol = suite.createUser("carol")
}

func (suite *SocialServiceTestSuite) createUser(name string) *models.User {
	user := &models.User{
		Username:     fmt.Sprintf("%s_%d", name, time.Now().UnixNano()),
		Email:        fmt.Sprintf("%s_%d@test.com", name, time.Now().UnixNano()),
		DisplayName:  name,
		PasswordHash: "x",
	}
	require.NoError(suite.T(), suite.db.Create(user).Error)
	return user
}

func (suite *SocialServiceTestSuite) createPost(author *models.User, text string) *models.Post {
	post, err := suite.service.CreatePost(context.Background(), author.ID, text, "")
	require.NoError(suite.T(), err)
	return post
}

func (suite *SocialServiceTestSuite) reloadUser(id string) *models.User {
	var user models.User
	require.NoError(suite.T(), suite.db.First(&user, "id = ?", id).Error)
	return &user
}

func (suite *SocialServiceTestSuite) reloadPost(id string) *models.Post {
	var post models.Post
	require.NoError(suite.T(), suite.db.First(&post, "id = ?", id).Error)
	return &post
}

// =============================================================================
// FOLLOW/UNFOLLOW TESTS
// =============================================================================

func (suite *SocialServiceTestSuite) TestFollowCreatesSymmetricEdge() {
	t := suite.T()
	ctx := context.Background()

	followed, err := suite.service.FollowUnfollow(ctx, suite.alice.ID, suite.bob.ID)
	require.NoError(t, err)
	assert.True(t, followed)

	// Both directions read from the same edge
	followers, err := suite.users.FollowerIDs(ctx, suite.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{suite.alice.ID}, followers)

	following, err := suite.users.FollowingIDs(ctx, suite.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{suite.bob.ID}, following)

	assert.Equal(t, 1, suite.reloadUser(suite.bob.ID).FollowerCount)
	assert.Equal(t, 1, suite.reloadUser(suite.alice.ID).FollowingCount)
}

func (suite *SocialServiceTestSuite) TestFollowToggleRoundTrip() {
	t := suite.T()
	ctx := context.Background()

	followed, err := suite.service.FollowUnfollow(ctx, suite.alice.ID, suite.bob.ID)
	require.NoError(t, err)
	assert.True(t, followed)

	followed, err = suite.service.FollowUnfollow(ctx, suite.alice.ID, suite.bob.ID)
	require.NoError(t, err)
	assert.False(t, followed)

	followers, err := suite.users.FollowerIDs(ctx, suite.bob.ID)
	require.NoError(t, err)
	assert.Empty(t, followers)

	assert.Equal(t, 0, suite.reloadUser(suite.bob.ID).FollowerCount)
	assert.Equal(t, 0, suite.reloadUser(suite.alice.ID).FollowingCount)
}

func (suite *SocialServiceTestSuite) TestSelfFollowRejected() {
	t := suite.T()
	ctx := context.Background()

	_, err := suite.service.FollowUnfollow(ctx, suite.alice.ID, suite.alice.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrSelfReference))

	// Nothing changed
	var count int64
	suite.db.Model(&models.Follow{}).Count(&count)
	assert.Zero(t, count)
	assert.Equal(t, 0, suite.reloadUser(suite.alice.ID).FollowerCount)
}

func (suite *SocialServiceTestSuite) TestFollowUnknownTarget() {
	t := suite.T()

	_, err := suite.service.FollowUnfollow(context.Background(), suite.alice.ID, "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func (suite *SocialServiceTestSuite) TestFollowNotifiesTarget() {
	t := suite.T()
	ctx := context.Background()

	_, err := suite.service.FollowUnfollow(ctx, suite.alice.ID, suite.bob.ID)
	require.NoError(t, err)

	count, err := suite.notifs.CountByRecipientAndSender(ctx, suite.bob.ID, suite.alice.ID, models.NotificationFollow)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// Unfollow does not notify
	_, err = suite.service.FollowUnfollow(ctx, suite.alice.ID, suite.bob.ID)
	require.NoError(t, err)

	count, err = suite.notifs.CountByRecipientAndSender(ctx, suite.bob.ID, suite.alice.ID, models.NotificationFollow)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func (suite *SocialServiceTestSuite) TestConcurrentFollowsBothRetained() {
	t := suite.T()
	ctx := context.Background()

	// Two different followers of bob race; disjoint edges must both land
	var wg sync.WaitGroup
	for _, actor := range []*models.User{suite.alice, suite.carol} {
		wg.Add(1)
		go func(actorID string) {
			defer wg.Done()
			_, err := suite.service.FollowUnfollow(ctx, actorID, suite.bob.ID)
			assert.NoError(t, err)
		}(actor.ID)
	}
	wg.Wait()

	followers, err := suite.users.FollowerIDs(ctx, suite.bob.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{suite.alice.ID, suite.carol.ID}, followers)
	assert.Equal(t, 2, suite.reloadUser(suite.bob.ID).FollowerCount)
}

// =============================================================================
// LIKE/UNLIKE TESTS
// =============================================================================

func (suite *SocialServiceTestSuite) TestLikeToggleRoundTrip() {
	t := suite.T()
	ctx := context.Background()
	post := suite.createPost(suite.bob, "first post")

	likes, err := suite.service.ToggleLike(ctx, suite.alice.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{suite.alice.ID}, likes)

	// The user's liked set sees the same edge
	likedIDs, err := suite.posts.LikedPostIDs(ctx, suite.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{post.ID}, likedIDs)
	assert.Equal(t, 1, suite.reloadPost(post.ID).LikeCount)

	likes, err = suite.service.ToggleLike(ctx, suite.alice.ID, post.ID)
	require.NoError(t, err)
	assert.Empty(t, likes)

	likedIDs, err = suite.posts.LikedPostIDs(ctx, suite.alice.ID)
	require.NoError(t, err)
	assert.Empty(t, likedIDs)
	assert.Equal(t, 0, suite.reloadPost(post.ID).LikeCount)
}

func (suite *SocialServiceTestSuite) TestLikeUnknownPost() {
	t := suite.T()

	_, err := suite.service.ToggleLike(context.Background(), suite.alice.ID, "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func (suite *SocialServiceTestSuite) TestLikeNotifiesAuthorPerTransition() {
	t := suite.T()
	ctx := context.Background()
	post := suite.createPost(suite.bob, "notify me")

	// like, unlike, like again: each unliked→liked transition notifies
	_, err := suite.service.ToggleLike(ctx, suite.alice.ID, post.ID)
	require.NoError(t, err)
	_, err = suite.service.ToggleLike(ctx, suite.alice.ID, post.ID)
	require.NoError(t, err)
	_, err = suite.service.ToggleLike(ctx, suite.alice.ID, post.ID)
	require.NoError(t, err)

	count, err := suite.notifs.CountByRecipientAndSender(ctx, suite.bob.ID, suite.alice.ID, models.NotificationLike)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func (suite *SocialServiceTestSuite) TestSelfLikeDoesNotNotify() {
	t := suite.T()
	ctx := context.Background()
	post := suite.createPost(suite.bob, "self like")

	likes, err := suite.service.ToggleLike(ctx, suite.bob.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{suite.bob.ID}, likes)

	count, err := suite.notifs.CountByRecipientAndSender(ctx, suite.bob.ID, suite.bob.ID, models.NotificationLike)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func (suite *SocialServiceTestSuite) TestConcurrentLikesBothRetained() {
	t := suite.T()
	ctx := context.Background()
	post := suite.createPost(suite.bob, "race me")

	var wg sync.WaitGroup
	for _, actor := range []*models.User{suite.alice, suite.carol} {
		wg.Add(1)
		go func(actorID string) {
			defer wg.Done()
			_, err := suite.service.ToggleLike(ctx, actorID, post.ID)
			assert.NoError(t, err)
		}(actor.ID)
	}
	wg.Wait()

	likes, err := suite.posts.LikeUserIDs(ctx, post.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{suite.alice.ID, suite.carol.ID}, likes)
	assert.Equal(t, 2, suite.reloadPost(post.ID).LikeCount)
}

// =============================================================================
// COMMENT TESTS
// =============================================================================

func (suite *SocialServiceTestSuite) TestAddCommentAppends() {
	t := suite.T()
	ctx := context.Background()
	post := suite.createPost(suite.bob, "discuss")

	updated, err := suite.service.AddComment(ctx, suite.alice.ID, post.ID, "first")
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, "first", updated.Comments[0].Body)
	assert.Equal(t, suite.alice.ID, updated.Comments[0].UserID)
	assert.Equal(t, suite.alice.Username, updated.Comments[0].User.Username)

	updated, err = suite.service.AddComment(ctx, suite.carol.ID, post.ID, "second")
	require.NoError(t, err)
	require.Len(t, updated.Comments, 2)
	// Append order is preserved
	assert.Equal(t, "first", updated.Comments[0].Body)
	assert.Equal(t, "second", updated.Comments[1].Body)

	assert.Equal(t, 2, suite.reloadPost(post.ID).CommentCount)
}

func (suite *SocialServiceTestSuite) TestAddCommentRejectsEmptyText() {
	t := suite.T()
	post := suite.createPost(suite.bob, "quiet")

	_, err := suite.service.AddComment(context.Background(), suite.alice.ID, post.ID, "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func (suite *SocialServiceTestSuite) TestAddCommentUnknownPost() {
	t := suite.T()

	_, err := suite.service.AddComment(context.Background(), suite.alice.ID, "00000000-0000-0000-0000-000000000000", "hello")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func (suite *SocialServiceTestSuite) TestConcurrentCommentsAllRetained() {
	t := suite.T()
	ctx := context.Background()
	post := suite.createPost(suite.bob, "busy thread")

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := suite.service.AddComment(ctx, suite.alice.ID, post.ID, fmt.Sprintf("comment %d", n))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	updated, err := suite.posts.GetWithThread(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, updated.Comments, 5)
	assert.Equal(t, 5, suite.reloadPost(post.ID).CommentCount)
}

func (suite *SocialServiceTestSuite) TestDeleteCommentByCommentAuthor() {
	t := suite.T()
	ctx := context.Background()
	post := suite.createPost(suite.bob, "moderated")

	updated, err := suite.service.AddComment(ctx, suite.alice.ID, post.ID, "remove me")
	require.NoError(t, err)
	commentID := updated.Comments[0].ID

	updated, err = suite.service.DeleteComment(ctx, suite.alice.ID, post.ID, commentID)
	require.NoError(t, err)
	assert.Empty(t, updated.Comments)
	assert.Equal(t, 0, suite.reloadPost(post.ID).CommentCount)
}

func (suite *SocialServiceTestSuite) TestDeleteCommentByPostAuthor() {
	t := suite.T()
	ctx := context.Background()
	post := suite.createPost(suite.bob, "my house my rules")

	updated, err := suite.service.AddComment(ctx, suite.alice.ID, post.ID, "spam")
	require.NoError(t, err)
	commentID := updated.Comments[0].ID

	updated, err = suite.service.DeleteComment(ctx, suite.bob.ID, post.ID, commentID)
	require.NoError(t, err)
	assert.Empty(t, updated.Comments)
}

func (suite *SocialServiceTestSuite) TestDeleteCommentByStrangerForbidden() {
	t := suite.T()
	ctx := context.Background()
	post := suite.createPost(suite.bob, "protected")

	updated, err := suite.service.AddComment(ctx, suite.alice.ID, post.ID, "stays")
	require.NoError(t, err)
	commentID := updated.Comments[0].ID

	_, err = suite.service.DeleteComment(ctx, suite.carol.ID, post.ID, commentID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	remaining, err := suite.posts.GetWithThread(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, remaining.Comments, 1)
}

// =============================================================================
// POST LIFECYCLE TESTS
// =============================================================================

func (suite *SocialServiceTestSuite) TestCreatePostRequiresContent() {
	t := suite.T()

	_, err := suite.service.CreatePost(context.Background(), suite.alice.ID, "  ", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func (suite *SocialServiceTestSuite) TestCreatePostImageOnly() {
	t := suite.T()

	post, err := suite.service.CreatePost(context.Background(), suite.alice.ID, "", "https://img.test/pic.png")
	require.NoError(t, err)
	assert.Empty(t, post.Text)
	assert.Equal(t, "https://img.test/pic.png", post.ImageURL)
	assert.Equal(t, 1, suite.reloadUser(suite.alice.ID).PostCount)
}

func (suite *SocialServiceTestSuite) TestDeletePostCascades() {
	t := suite.T()
	ctx := context.Background()
	post := suite.createPost(suite.bob, "short lived")

	_, err := suite.service.ToggleLike(ctx, suite.alice.ID, post.ID)
	require.NoError(t, err)
	_, err = suite.service.AddComment(ctx, suite.carol.ID, post.ID, "gone soon")
	require.NoError(t, err)

	require.NoError(t, suite.service.DeletePost(ctx, suite.bob.ID, post.ID))

	var postCount, likeCount, commentCount int64
	suite.db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&postCount)
	suite.db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likeCount)
	suite.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount)
	assert.Zero(t, postCount)
	assert.Zero(t, likeCount)
	assert.Zero(t, commentCount)

	assert.Equal(t, 0, suite.reloadUser(suite.bob.ID).PostCount)

	// The like notification outlives the post
	notifCount, err := suite.notifs.CountByRecipientAndSender(ctx, suite.bob.ID, suite.alice.ID, models.NotificationLike)
	require.NoError(t, err)
	assert.EqualValues(t, 1, notifCount)
}

func (suite *SocialServiceTestSuite) TestDeletePostOnlyByAuthor() {
	t := suite.T()
	post := suite.createPost(suite.bob, "not yours")

	err := suite.service.DeletePost(context.Background(), suite.alice.ID, post.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}

func TestSocialServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SocialServiceTestSuite))
}
