package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/careerai/backend/internal/cache"
	"github.com/careerai/backend/internal/models"
	"github.com/careerai/backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateName(ctx context.Context, email, name string) (*models.User, error) {
	args := m.Called(ctx, email, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) SetApproval(ctx context.Context, userID string, approved bool, approvedAt *time.Time, approvedBy *string) error {
	args := m.Called(ctx, userID, approved, approvedAt, approvedBy)
	return args.Error(0)
}

// fakeCache records deletions and serves nothing.
type fakeCache struct {
	deleted []string
}

func (f *fakeCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	return false, nil
}

func (f *fakeCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	return nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) error {
	f.deleted = append(f.deleted, keys...)
	return nil
}

type ProfileServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	cache    *fakeCache
	service  ProfileService
}

func (suite *ProfileServiceTestSuite) SetupTest() {
	suite.mockRepo = &MockUserRepository{}
	suite.cache = &fakeCache{}
	suite.service = NewProfileService(suite.mockRepo, suite.cache, nil)

	suite.mockRepo.Test(suite.T())
}

func (suite *ProfileServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestProfileServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceTestSuite))
}

func (suite *ProfileServiceTestSuite) TestUpdateProfile_Success() {
	ctx := context.Background()
	want := &models.User{ID: "u1", Email: "jane@example.com", Name: "Jane Doe"}

	suite.mockRepo.On("UpdateName", ctx, "jane@example.com", "Jane Doe").Return(want, nil)

	got, err := suite.service.UpdateProfile(ctx, "jane@example.com", "Jane Doe", "")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), want, got)
	assert.ElementsMatch(suite.T(), []string{cache.HistoryKey("u1"), cache.SettingsKey("u1")}, suite.cache.deleted)
}

func (suite *ProfileServiceTestSuite) TestUpdateProfile_TurkishName() {
	ctx := context.Background()
	want := &models.User{ID: "u1", Email: "caglar@example.com", Name: "Çağla Gümüş"}

	suite.mockRepo.On("UpdateName", ctx, "caglar@example.com", "Çağla Gümüş").Return(want, nil)

	got, err := suite.service.UpdateProfile(ctx, "caglar@example.com", "Çağla Gümüş", "")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Çağla Gümüş", got.Name)
}

func (suite *ProfileServiceTestSuite) TestUpdateProfile_ShortName() {
	_, err := suite.service.UpdateProfile(context.Background(), "jane@example.com", "J", "")
	assert.True(suite.T(), utils.IsCode(err, utils.CodeInvalidArgument))
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateName", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProfileServiceTestSuite) TestUpdateProfile_RejectsDigitsAndPunctuation() {
	for _, name := range []string{"Jane42", "Jane_Doe", "Jane!", "J@ne"} {
		_, err := suite.service.UpdateProfile(context.Background(), "jane@example.com", name, "")
		assert.True(suite.T(), utils.IsCode(err, utils.CodeInvalidArgument), "name %q should be rejected", name)
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateName", mock.Anything, mock.Anything, mock.Anything)
}

// The write path has no bio column: supplying a bio must not change what is
// persisted, only the name reaches the repository.
func (suite *ProfileServiceTestSuite) TestUpdateProfile_BioIsNotPersisted() {
	ctx := context.Background()
	stored := &models.User{ID: "u1", Email: "jane@example.com", Name: "Jane Doe", Bio: "old bio"}

	suite.mockRepo.On("UpdateName", ctx, "jane@example.com", "Jane Doe").Return(stored, nil)

	got, err := suite.service.UpdateProfile(ctx, "jane@example.com", "Jane Doe", "a brand new bio")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "old bio", got.Bio)
}

func (suite *ProfileServiceTestSuite) TestUpdateProfile_UserNotFound() {
	ctx := context.Background()
	suite.mockRepo.On("UpdateName", ctx, "ghost@example.com", "Jane Doe").Return(nil, utils.ErrNotFound)

	_, err := suite.service.UpdateProfile(ctx, "ghost@example.com", "Jane Doe", "")
	assert.True(suite.T(), utils.IsCode(err, utils.CodeNotFound))
}

func (suite *ProfileServiceTestSuite) TestUpdateProfile_PersistenceFailureIsGeneric() {
	ctx := context.Background()
	suite.mockRepo.On("UpdateName", ctx, "jane@example.com", "Jane Doe").
		Return(nil, errors.New("pq: connection refused"))

	_, err := suite.service.UpdateProfile(ctx, "jane@example.com", "Jane Doe", "")
	assert.True(suite.T(), utils.IsCode(err, utils.CodeInternal))

	var ae *utils.AppError
	assert.True(suite.T(), errors.As(err, &ae))
	assert.Equal(suite.T(), "failed to update profile", ae.Message)
	assert.Empty(suite.T(), suite.cache.deleted)
}

func (suite *ProfileServiceTestSuite) TestUpdateProfile_Unauthenticated() {
	_, err := suite.service.UpdateProfile(context.Background(), "", "Jane Doe", "")
	assert.True(suite.T(), utils.IsCode(err, utils.CodeUnauthorized))
}
