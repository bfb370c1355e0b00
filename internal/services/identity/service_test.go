package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/2exd/suit-streak-server/internal/dependencies/mocks"
	"github.com/2exd/suit-streak-server/internal/model"
	"github.com/2exd/suit-streak-server/internal/storage/memory"
	"github.com/2exd/suit-streak-server/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

// Create tests

func (s *ServiceSuite) TestCreateIssuesIdentityAndSession() {
	session, identity, err := s.service.Create(s.ctx)
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.NotEmpty(identity.UserID)
	s.Equal(identity.UserID, session.UserID)
	s.Empty(identity.Username)
	s.False(identity.IsLoggedIn())
	s.Equal(s.clock.Now(), identity.LastLogin)
}

func (s *ServiceSuite) TestCreateGeneratesDistinctUserIDs() {
	_, a, err := s.service.Create(s.ctx)
	s.Require().NoError(err)
	_, b, err := s.service.Create(s.ctx)
	s.Require().NoError(err)

	s.NotEqual(a.UserID, b.UserID)
}

// SetUsername tests

func (s *ServiceSuite) TestSetUsernameSucceeds() {
	_, identity, _ := s.service.Create(s.ctx)

	updated, err := s.service.SetUsername(s.ctx, identity.UserID, "Alice")
	s.Require().NoError(err)

	s.Equal("Alice", updated.Username)
	s.True(updated.IsLoggedIn())

	loggedIn, err := s.service.IsLoggedIn(s.ctx, identity.UserID)
	s.Require().NoError(err)
	s.True(loggedIn)
}

func (s *ServiceSuite) TestSetUsernameTrimsWhitespace() {
	_, identity, _ := s.service.Create(s.ctx)

	updated, err := s.service.SetUsername(s.ctx, identity.UserID, "  Alice  ")
	s.Require().NoError(err)
	s.Equal("Alice", updated.Username)
}

func (s *ServiceSuite) TestSetUsernameAcceptsBoundaryLengths() {
	_, identity, _ := s.service.Create(s.ctx)

	_, err := s.service.SetUsername(s.ctx, identity.UserID, "ab")
	s.Require().NoError(err)

	_, err = s.service.SetUsername(s.ctx, identity.UserID, "abcdefghij")
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestSetUsernameRejectsTooShort() {
	_, identity, _ := s.service.Create(s.ctx)

	_, err := s.service.SetUsername(s.ctx, identity.UserID, "a")
	s.ErrorIs(err, model.ErrInvalidUsername)

	stored, _ := s.service.Get(s.ctx, identity.UserID)
	s.Empty(stored.Username)
	s.False(stored.IsLoggedIn())
}

func (s *ServiceSuite) TestSetUsernameRejectsTooLong() {
	_, identity, _ := s.service.Create(s.ctx)

	_, err := s.service.SetUsername(s.ctx, identity.UserID, "abcdefghijk")
	s.ErrorIs(err, model.ErrInvalidUsername)
}

func (s *ServiceSuite) TestSetUsernameRejectsWhitespaceOnly() {
	_, identity, _ := s.service.Create(s.ctx)

	_, err := s.service.SetUsername(s.ctx, identity.UserID, "     ")
	s.ErrorIs(err, model.ErrInvalidUsername)
}

func (s *ServiceSuite) TestSetUsernameCountsRunes() {
	_, identity, _ := s.service.Create(s.ctx)

	// Two runes, more than two bytes
	updated, err := s.service.SetUsername(s.ctx, identity.UserID, "牌手")
	s.Require().NoError(err)
	s.Equal("牌手", updated.Username)
}

func (s *ServiceSuite) TestSetUsernameDoesNotMutateOnRejection() {
	_, identity, _ := s.service.Create(s.ctx)
	_, _ = s.service.SetUsername(s.ctx, identity.UserID, "Alice")

	_, err := s.service.SetUsername(s.ctx, identity.UserID, "x")
	s.ErrorIs(err, model.ErrInvalidUsername)

	stored, _ := s.service.Get(s.ctx, identity.UserID)
	s.Equal("Alice", stored.Username)
}

// ClearUser tests

func (s *ServiceSuite) TestClearUserRetainsUserID() {
	_, identity, _ := s.service.Create(s.ctx)
	_, _ = s.service.SetUsername(s.ctx, identity.UserID, "Alice")
	_ = s.service.SetAvatar(s.ctx, identity.UserID, "https://example.com/a.png")

	err := s.service.ClearUser(s.ctx, identity.UserID)
	s.Require().NoError(err)

	stored, err := s.service.Get(s.ctx, identity.UserID)
	s.Require().NoError(err)
	s.Equal(identity.UserID, stored.UserID)
	s.Empty(stored.Username)
	s.Empty(stored.Avatar)
	s.False(stored.IsLoggedIn())
}

// Avatar tests

func (s *ServiceSuite) TestGenerateDefaultAvatar() {
	_, identity, _ := s.service.Create(s.ctx)
	_, _ = s.service.SetUsername(s.ctx, identity.UserID, "Alice")

	err := s.service.GenerateDefaultAvatar(s.ctx, identity.UserID)
	s.Require().NoError(err)

	stored, _ := s.service.Get(s.ctx, identity.UserID)
	s.Contains(stored.Avatar, "picsum.photos/seed/A")
}

func (s *ServiceSuite) TestGenerateDefaultAvatarNoOpWhenLoggedOut() {
	_, identity, _ := s.service.Create(s.ctx)

	err := s.service.GenerateDefaultAvatar(s.ctx, identity.UserID)
	s.Require().NoError(err)

	stored, _ := s.service.Get(s.ctx, identity.UserID)
	s.Empty(stored.Avatar)
}

// Session tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	session, identity, _ := s.service.Create(s.ctx)

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(identity.UserID, validated.UserID)
}

func (s *ServiceSuite) TestValidateSessionRejectsUnknownToken() {
	_, err := s.service.ValidateSession("sess_bogus")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionRejectsExpiredToken() {
	session, _, _ := s.service.Create(s.ctx)

	s.clock.Advance(25 * time.Hour)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSession() {
	session, _, _ := s.service.Create(s.ctx)

	s.service.InvalidateSession(session.Token)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestResumeReusesUserID() {
	session, identity, _ := s.service.Create(s.ctx)
	s.clock.Advance(25 * time.Hour)

	resumed, stored, err := s.service.Resume(s.ctx, identity.UserID)
	s.Require().NoError(err)
	s.Equal(identity.UserID, stored.UserID)
	s.NotEqual(session.Token, resumed.Token)
	s.Equal(s.clock.Now(), stored.LastLogin)
}

func (s *ServiceSuite) TestCleanExpiredSessions() {
	expired, _, _ := s.service.Create(s.ctx)
	s.clock.Advance(25 * time.Hour)
	live, _, _ := s.service.Create(s.ctx)

	s.service.CleanExpiredSessions()

	_, err := s.service.ValidateSession(expired.Token)
	s.ErrorIs(err, ErrInvalidSession)
	_, err = s.service.ValidateSession(live.Token)
	s.Require().NoError(err)
}
