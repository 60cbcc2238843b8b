package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/openflock/backend/internal/database"
	apperrors "github.com/openflock/backend/internal/errors"
	"github.com/openflock/backend/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	users   *repository.UserRepository
	service *Service
}

func (suite *AuthServiceTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open("file:authtest?mode=memory&cache=shared"), &gorm.Config{
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
	suite.service = NewService([]byte("test-secret"), suite.users)
}

func (suite *AuthServiceTestSuite) TearDownSuite() {
	sqlDB, _ := suite.db.DB()
	sqlDB.Close()
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM users")
}

func (suite *AuthServiceTestSuite) signupRequest() SignupRequest {
	id := time.Now().UnixNano()
	return SignupRequest{
		Username:    fmt.Sprintf("tester%d", id),
		Email:       fmt.Sprintf("tester%d@test.com", id),
		Password:    "hunter22",
		DisplayName: "Tester",
	}
}

func (suite *AuthServiceTestSuite) TestSignupIssuesToken() {
	t := suite.T()
	req := suite.signupRequest()

	resp, err := suite.service.Signup(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, req.Username, resp.User.Username)
	assert.NotEmpty(t, resp.User.ID)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	// The token names the new user
	userID, err := suite.service.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
}

func (suite *AuthServiceTestSuite) TestSignupInvalidEmail() {
	t := suite.T()
	req := suite.signupRequest()
	req.Email = "not-an-email"

	_, err := suite.service.Signup(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func (suite *AuthServiceTestSuite) TestSignupShortPassword() {
	t := suite.T()
	req := suite.signupRequest()
	req.Password = "abc"

	_, err := suite.service.Signup(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func (suite *AuthServiceTestSuite) TestSignupDuplicateUsername() {
	t := suite.T()
	ctx := context.Background()
	req := suite.signupRequest()

	_, err := suite.service.Signup(ctx, req)
	require.NoError(t, err)

	dup := req
	dup.Email = "other_" + req.Email
	_, err = suite.service.Signup(ctx, dup)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func (suite *AuthServiceTestSuite) TestSignupDuplicateEmail() {
	t := suite.T()
	ctx := context.Background()
	req := suite.signupRequest()

	_, err := suite.service.Signup(ctx, req)
	require.NoError(t, err)

	dup := req
	dup.Username = "other_" + req.Username
	_, err = suite.service.Signup(ctx, dup)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func (suite *AuthServiceTestSuite) TestLoginRoundTrip() {
	t := suite.T()
	ctx := context.Background()
	req := suite.signupRequest()

	_, err := suite.service.Signup(ctx, req)
	require.NoError(t, err)

	resp, err := suite.service.Login(ctx, LoginRequest{Username: req.Username, Password: req.Password})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, req.Username, resp.User.Username)
}

func (suite *AuthServiceTestSuite) TestLoginWrongPassword() {
	t := suite.T()
	ctx := context.Background()
	req := suite.signupRequest()

	_, err := suite.service.Signup(ctx, req)
	require.NoError(t, err)

	_, err = suite.service.Login(ctx, LoginRequest{Username: req.Username, Password: "wrongpassword"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func (suite *AuthServiceTestSuite) TestLoginUnknownUser() {
	t := suite.T()

	_, err := suite.service.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func (suite *AuthServiceTestSuite) TestVerifyTokenGarbage() {
	t := suite.T()

	_, err := suite.service.VerifyToken("not.a.token")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func (suite *AuthServiceTestSuite) TestVerifyTokenWrongSecret() {
	t := suite.T()
	req := suite.signupRequest()

	resp, err := suite.service.Signup(context.Background(), req)
	require.NoError(t, err)

	other := NewService([]byte("different-secret"), suite.users)
	_, err = other.VerifyToken(resp.Token)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
