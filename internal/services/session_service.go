package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"partner-portal/internal/status"
	"partner-portal/models"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "partner:session:"
	sessionIndexKey  = "partner:sessions"
)

func sessionKey(partnerID string) string {
	return sessionKeyPrefix + partnerID
}

// SessionService caches the identity of signed in partners in Redis. The
// sorted set at sessionIndexKey scores each partner id with its cache expiry.
type SessionService struct {
	redis    redis.Cmdable
	partners PartnerStore
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionService(rdb redis.Cmdable, partners PartnerStore, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionService{
		redis:    rdb,
		partners: partners,
		ttl:      ttl,
		now:      time.Now,
	}
}

type LoginResult struct {
	Token   string                `json:"token"`
	Session models.PartnerSession `json:"session"`
}

// Login checks the credentials and refuses inactive or unverified partners.
func (s *SessionService) Login(ctx context.Context, form models.LoginForm) (*LoginResult, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := form.Validate(); err != nil {
		return nil, err
	}

	partner, err := s.partners.Authenticate(ctx, form.Email, form.Password)
	if err != nil {
		return nil, err
	}
	if !partner.IsActive {
		return nil, status.ErrPartnerInactive
	}
	if !partner.IsVerified {
		return nil, status.ErrPartnerUnverified
	}

	token, err := s.partners.IssueToken(ctx, partner.ID)
	if err != nil {
		return nil, err
	}

	session := models.NewPartnerSession(partner, s.now())
	s.cache(ctx, session)

	return &LoginResult{Token: token, Session: session}, nil
}

// Resolve returns the session of an authenticated partner, from the cache when
// present and from the partners collection otherwise.
func (s *SessionService) Resolve(ctx context.Context, partnerID string) (*models.PartnerSession, error) {
	if session, ok := s.cached(ctx, partnerID); ok {
		return session, nil
	}

	partner, err := s.partners.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if !partner.IsActive {
		return nil, status.ErrPartnerInactive
	}

	session := models.NewPartnerSession(partner, s.now())
	s.cache(ctx, session)
	return &session, nil
}

// Refresh re-caches the session after the partner record changed, keeping the login time.
func (s *SessionService) Refresh(ctx context.Context, partner *models.Partner) models.PartnerSession {
	loginTime := s.now()
	if previous, ok := s.cached(ctx, partner.ID); ok {
		loginTime = previous.LoginTime
	}
	session := models.NewPartnerSession(partner, loginTime)
	s.cache(ctx, session)
	return session
}

func (s *SessionService) Logout(ctx context.Context, partnerID string) error {
	if err := s.redis.Del(ctx, sessionKey(partnerID)).Err(); err != nil {
		return fmt.Errorf("s.redis.Del(): %w", err)
	}
	if err := s.redis.ZRem(ctx, sessionIndexKey, partnerID).Err(); err != nil {
		return fmt.Errorf("s.redis.ZRem(): %w", err)
	}
	return nil
}

// CountActive prunes expired index entries and counts the live ones.
func (s *SessionService) CountActive(ctx context.Context) (int64, error) {
	now := strconv.FormatInt(s.now().Unix(), 10)
	if err := s.redis.ZRemRangeByScore(ctx, sessionIndexKey, "-inf", "("+now).Err(); err != nil {
		return 0, fmt.Errorf("s.redis.ZRemRangeByScore(): %w", err)
	}
	count, err := s.redis.ZCount(ctx, sessionIndexKey, now, "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("s.redis.ZCount(): %w", err)
	}
	return count, nil
}

func (s *SessionService) cached(ctx context.Context, partnerID string) (*models.PartnerSession, bool) {
	data, err := s.redis.Get(ctx, sessionKey(partnerID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("s.redis.Get()", "partner_id", partnerID, "error", err)
		}
		return nil, false
	}

	var session models.PartnerSession
	if err := json.Unmarshal(data, &session); err != nil {
		slog.Warn("json.Unmarshal(session)", "partner_id", partnerID, "error", err)
		return nil, false
	}
	return &session, true
}

// cache logs write errors; a missing entry falls back to the partners collection.
func (s *SessionService) cache(ctx context.Context, session models.PartnerSession) {
	data, err := json.Marshal(session)
	if err != nil {
		slog.Error("json.Marshal(session)", "partner_id", session.PartnerID, "error", err)
		return
	}

	if err := s.redis.Set(ctx, sessionKey(session.PartnerID), data, s.ttl).Err(); err != nil {
		slog.Warn("s.redis.Set()", "partner_id", session.PartnerID, "error", err)
		return
	}

	expiry := s.now().Add(s.ttl).Unix()
	if err := s.redis.ZAdd(ctx, sessionIndexKey, redis.Z{Score: float64(expiry), Member: session.PartnerID}).Err(); err != nil {
		slog.Warn("s.redis.ZAdd()", "partner_id", session.PartnerID, "error", err)
	}
}
