package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/careerai/backend/internal/models"
	"github.com/careerai/backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ApprovalServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  ApprovalService
}

func (suite *ApprovalServiceTestSuite) SetupTest() {
	suite.mockRepo = &MockUserRepository{}
	suite.service = NewApprovalService(suite.mockRepo, nil)
	suite.mockRepo.Test(suite.T())
}

func (suite *ApprovalServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestApprovalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceTestSuite))
}

func (suite *ApprovalServiceTestSuite) TestApprove_StampsAuditFields() {
	ctx := context.Background()
	before := time.Now().UTC()

	suite.mockRepo.On("SetApproval", ctx, "u1", true,
		mock.MatchedBy(func(at *time.Time) bool {
			return at != nil && !at.Before(before) && time.Since(*at) < time.Minute
		}),
		mock.MatchedBy(func(by *string) bool {
			return by != nil && *by == "admin@careerai.dev"
		}),
	).Return(nil)

	now := time.Now().UTC()
	by := "admin@careerai.dev"
	suite.mockRepo.On("GetByID", ctx, "u1").Return(&models.User{
		ID: "u1", Approved: true, ApprovedAt: &now, ApprovedBy: &by,
	}, nil)

	user, err := suite.service.SetApproval(ctx, "u1", true, "admin@careerai.dev")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), user.Approved)
	assert.NotNil(suite.T(), user.ApprovedAt)
	assert.Equal(suite.T(), "admin@careerai.dev", *user.ApprovedBy)
}

func (suite *ApprovalServiceTestSuite) TestRevoke_ClearsAuditFields() {
	ctx := context.Background()

	suite.mockRepo.On("SetApproval", ctx, "u1", false, (*time.Time)(nil), (*string)(nil)).Return(nil)
	suite.mockRepo.On("GetByID", ctx, "u1").Return(&models.User{ID: "u1", Approved: false}, nil)

	user, err := suite.service.SetApproval(ctx, "u1", false, "admin@careerai.dev")
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), user.Approved)
	assert.Nil(suite.T(), user.ApprovedAt)
	assert.Nil(suite.T(), user.ApprovedBy)
}

func (suite *ApprovalServiceTestSuite) TestSetApproval_MissingUserID() {
	_, err := suite.service.SetApproval(context.Background(), "", true, "admin@careerai.dev")
	assert.True(suite.T(), utils.IsCode(err, utils.CodeInvalidArgument))
}

func (suite *ApprovalServiceTestSuite) TestSetApproval_MissingCaller() {
	_, err := suite.service.SetApproval(context.Background(), "u1", true, "")
	assert.True(suite.T(), utils.IsCode(err, utils.CodeUnauthorized))
}

func (suite *ApprovalServiceTestSuite) TestSetApproval_TargetNotFound() {
	ctx := context.Background()
	suite.mockRepo.On("SetApproval", ctx, "ghost", true, mock.Anything, mock.Anything).
		Return(utils.ErrNotFound)

	_, err := suite.service.SetApproval(ctx, "ghost", true, "admin@careerai.dev")
	assert.True(suite.T(), utils.IsCode(err, utils.CodeNotFound))
}

func (suite *ApprovalServiceTestSuite) TestSetApproval_StoreFailureIsGeneric() {
	ctx := context.Background()
	suite.mockRepo.On("SetApproval", ctx, "u1", true, mock.Anything, mock.Anything).
		Return(errors.New("pq: connection refused"))

	_, err := suite.service.SetApproval(ctx, "u1", true, "admin@careerai.dev")
	assert.True(suite.T(), utils.IsCode(err, utils.CodeInternal))

	var ae *utils.AppError
	assert.True(suite.T(), errors.As(err, &ae))
	assert.Equal(suite.T(), "failed to update approval", ae.Message)
}
