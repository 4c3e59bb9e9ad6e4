package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"partner-portal/internal/status"
	"partner-portal/models"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func setupTestSessionService() (*SessionService, redismock.ClientMock, *mockPartnerStore) {
	db, redisMock := redismock.NewClientMock()
	partners := &mockPartnerStore{}

	service := NewSessionService(db, partners, time.Hour)
	service.now = func() time.Time { return testNow }

	return service, redisMock, partners
}

func testPartner() *models.Partner {
	return &models.Partner{
		ID:             "p1",
		Email:          "owner@example.com",
		Name:           "Owner",
		BusinessName:   "Desert Tours",
		CommissionRate: 10,
		IsActive:       true,
		IsVerified:     true,
	}
}

func expectCache(t *testing.T, redisMock redismock.ClientMock, session models.PartnerSession) {
	t.Helper()
	data, err := json.Marshal(session)
	require.NoError(t, err)

	redisMock.ExpectSet("partner:session:"+session.PartnerID, data, time.Hour).SetVal("OK")
	redisMock.ExpectZAdd(sessionIndexKey, redis.Z{
		Score:  float64(testNow.Add(time.Hour).Unix()),
		Member: session.PartnerID,
	}).SetVal(1)
}

func TestSessionService_Resolve_CacheHit(t *testing.T) {
	service, redisMock, partners := setupTestSessionService()
	defer redisMock.ClearExpect()

	cached := models.NewPartnerSession(testPartner(), testNow.Add(-time.Minute))
	data, err := json.Marshal(cached)
	require.NoError(t, err)
	redisMock.ExpectGet("partner:session:p1").SetVal(string(data))

	session, err := service.Resolve(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, "Desert Tours", session.BusinessName)
	assert.True(t, cached.LoginTime.Equal(session.LoginTime))
	partners.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestSessionService_Resolve_CacheMissLoadsPartner(t *testing.T) {
	service, redisMock, partners := setupTestSessionService()
	defer redisMock.ClearExpect()

	partner := testPartner()
	partners.On("FindByID", mock.Anything, "p1").Return(partner, nil)

	redisMock.ExpectGet("partner:session:p1").RedisNil()
	expectCache(t, redisMock, models.NewPartnerSession(partner, testNow))

	session, err := service.Resolve(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, "p1", session.PartnerID)
	assert.Equal(t, 10.0, session.CommissionRate)
	assert.NoError(t, redisMock.ExpectationsWereMet())
	partners.AssertExpectations(t)
}

func TestSessionService_Resolve_RedisDownFallsBackToStore(t *testing.T) {
	service, redisMock, partners := setupTestSessionService()
	defer redisMock.ClearExpect()

	partners.On("FindByID", mock.Anything, "p1").Return(testPartner(), nil)
	redisMock.ExpectGet("partner:session:p1").SetErr(errors.New("connection refused"))

	session, err := service.Resolve(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, "Owner", session.Name)
}

func TestSessionService_Resolve_Rejections(t *testing.T) {
	t.Run("missing partner", func(t *testing.T) {
		service, redisMock, partners := setupTestSessionService()
		partners.On("FindByID", mock.Anything, "gone").Return(nil, status.ErrPartnerNotFound)
		redisMock.ExpectGet("partner:session:gone").RedisNil()

		_, err := service.Resolve(context.Background(), "gone")
		assert.ErrorIs(t, err, status.ErrPartnerNotFound)
	})

	t.Run("inactive partner", func(t *testing.T) {
		service, redisMock, partners := setupTestSessionService()
		partner := testPartner()
		partner.IsActive = false
		partners.On("FindByID", mock.Anything, "p1").Return(partner, nil)
		redisMock.ExpectGet("partner:session:p1").RedisNil()

		_, err := service.Resolve(context.Background(), "p1")
		assert.ErrorIs(t, err, status.ErrPartnerInactive)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
}

func TestSessionService_Login(t *testing.T) {
	t.Run("success caches session", func(t *testing.T) {
		service, redisMock, partners := setupTestSessionService()
		partner := testPartner()
		partners.On("Authenticate", mock.Anything, "owner@example.com", "secret123").Return(partner, nil)
		partners.On("IssueToken", mock.Anything, "p1").Return("token-abc", nil)
		expectCache(t, redisMock, models.NewPartnerSession(partner, testNow))

		result, err := service.Login(context.Background(), models.LoginForm{
			Email:    "  owner@example.com ",
			Password: "secret123",
		})

		require.NoError(t, err)
		assert.Equal(t, "token-abc", result.Token)
		assert.Equal(t, "p1", result.Session.PartnerID)
		assert.True(t, testNow.Equal(result.Session.LoginTime))
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	tests := []struct {
		name    string
		mutate  func(p *models.Partner)
		wantErr error
	}{
		{"inactive", func(p *models.Partner) { p.IsActive = false }, status.ErrPartnerInactive},
		{"unverified", func(p *models.Partner) { p.IsVerified = false }, status.ErrPartnerUnverified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, redisMock, partners := setupTestSessionService()
			partner := testPartner()
			tt.mutate(partner)
			partners.On("Authenticate", mock.Anything, "owner@example.com", "secret123").Return(partner, nil)

			_, err := service.Login(context.Background(), models.LoginForm{Email: "owner@example.com", Password: "secret123"})

			assert.ErrorIs(t, err, tt.wantErr)
			partners.AssertNotCalled(t, "IssueToken", mock.Anything, mock.Anything)
			assert.NoError(t, redisMock.ExpectationsWereMet())
		})
	}

	t.Run("bad credentials", func(t *testing.T) {
		service, _, partners := setupTestSessionService()
		partners.On("Authenticate", mock.Anything, "owner@example.com", "wrong").Return(nil, status.ErrInvalidLogin)

		_, err := service.Login(context.Background(), models.LoginForm{Email: "owner@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, status.ErrInvalidLogin)
	})

	t.Run("empty form", func(t *testing.T) {
		service, _, partners := setupTestSessionService()

		_, err := service.Login(context.Background(), models.LoginForm{Email: "   "})
		assert.True(t, IsValidationError(err))
		partners.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSessionService_Refresh_KeepsLoginTime(t *testing.T) {
	service, redisMock, _ := setupTestSessionService()
	defer redisMock.ClearExpect()

	loginTime := testNow.Add(-2 * time.Hour)
	previous := models.NewPartnerSession(testPartner(), loginTime)
	data, err := json.Marshal(previous)
	require.NoError(t, err)
	redisMock.ExpectGet("partner:session:p1").SetVal(string(data))

	updated := testPartner()
	updated.BusinessName = "Wadi Rum Tours"
	expectCache(t, redisMock, models.NewPartnerSession(updated, loginTime))

	session := service.Refresh(context.Background(), updated)

	assert.Equal(t, "Wadi Rum Tours", session.BusinessName)
	assert.True(t, loginTime.Equal(session.LoginTime))
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestSessionService_Logout(t *testing.T) {
	service, redisMock, _ := setupTestSessionService()
	defer redisMock.ClearExpect()

	redisMock.ExpectDel("partner:session:p1").SetVal(1)
	redisMock.ExpectZRem(sessionIndexKey, "p1").SetVal(1)

	require.NoError(t, service.Logout(context.Background(), "p1"))
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestSessionService_CountActive(t *testing.T) {
	service, redisMock, _ := setupTestSessionService()
	defer redisMock.ClearExpect()

	now := "1710072000"
	redisMock.ExpectZRemRangeByScore(sessionIndexKey, "-inf", "("+now).SetVal(2)
	redisMock.ExpectZCount(sessionIndexKey, now, "+inf").SetVal(7)

	count, err := service.CountActive(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestSessionService_CountActive_Error(t *testing.T) {
	service, redisMock, _ := setupTestSessionService()
	defer redisMock.ClearExpect()

	redisMock.ExpectZRemRangeByScore(sessionIndexKey, "-inf", "(1710072000").SetErr(errors.New("timeout"))

	_, err := service.CountActive(context.Background())
	assert.Error(t, err)
}
