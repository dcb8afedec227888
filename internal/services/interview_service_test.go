package services

import (
	"context"
	"testing"

	"github.com/careerai/backend/internal/models"
	"github.com/careerai/backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type InterviewServiceTestSuite struct {
	suite.Suite
	interviews *MockInterviewRepository
	messages   *MockMessageRepository
	service    InterviewService
}

func (suite *InterviewServiceTestSuite) SetupTest() {
	suite.interviews = &MockInterviewRepository{}
	suite.messages = &MockMessageRepository{}
	suite.service = NewInterviewService(suite.interviews, suite.messages, nil)
}

func TestInterviewServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InterviewServiceTestSuite))
}

func (suite *InterviewServiceTestSuite) TestStart_Success() {
	ctx := context.Background()

	suite.interviews.On("Insert", ctx, mock.MatchedBy(func(iv *models.Interview) bool {
		return iv.ID != "" && iv.UserID == "u1" && iv.Position == "Backend Engineer" &&
			iv.Status == models.InterviewActive && !iv.Date.IsZero()
	})).Return(nil)

	iv, err := suite.service.Start(ctx, "u1", "Backend Engineer")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.InterviewActive, iv.Status)
}

func (suite *InterviewServiceTestSuite) TestStart_MissingPosition() {
	_, err := suite.service.Start(context.Background(), "u1", "")
	assert.True(suite.T(), utils.IsCode(err, utils.CodeInvalidArgument))
}

func (suite *InterviewServiceTestSuite) TestAppendMessage_RejectsUnknownRole() {
	_, err := suite.service.AppendMessage(context.Background(), "iv1", "u1", "system", "hi")
	assert.True(suite.T(), utils.IsCode(err, utils.CodeInvalidArgument))
	suite.messages.AssertNotCalled(suite.T(), "Insert", mock.Anything, mock.Anything)
}

func (suite *InterviewServiceTestSuite) TestAppendMessage_Success() {
	ctx := context.Background()

	suite.messages.On("Insert", ctx, mock.MatchedBy(func(m *models.InterviewMessage) bool {
		return m.InterviewID == "iv1" && m.Role == "user" && m.Content == "I led the migration" &&
			!m.CreatedAt.IsZero()
	})).Return(nil)

	msg, err := suite.service.AppendMessage(ctx, "iv1", "u1", "user", "I led the migration")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "user", msg.Role)
}

func (suite *InterviewServiceTestSuite) TestGet_NotFound() {
	ctx := context.Background()
	suite.interviews.On("GetByID", ctx, "ghost").Return(nil, utils.ErrNotFound)

	_, err := suite.service.Get(ctx, "ghost")
	assert.True(suite.T(), utils.IsCode(err, utils.CodeNotFound))
}
