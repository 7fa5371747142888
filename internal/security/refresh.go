package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sideeffect/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrRefreshTokenNotFound covers unknown, expired and already rotated refresh tokens.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshStore keeps refresh token digests. Consume must remove the entry atomically.
type RefreshStore interface {
	Save(ctx context.Context, digest string, userID uint, ttl time.Duration) error
	Consume(ctx context.Context, digest string) (uint, error)
	Delete(ctx context.Context, digest string) error
}

// RefreshTokenProvider issues opaque refresh tokens and rotates them on exchange.
type RefreshTokenProvider struct {
	store RefreshStore
	ttl   time.Duration
}

// NewRefreshTokenProvider returns a provider backed by store.
func NewRefreshTokenProvider(store RefreshStore, ttl time.Duration) *RefreshTokenProvider {
	return &RefreshTokenProvider{store: store, ttl: ttl}
}

// TTL is the refresh token lifetime.
func (p *RefreshTokenProvider) TTL() time.Duration {
	return p.ttl
}

// Issue creates a refresh token for userID.
func (p *RefreshTokenProvider) Issue(ctx context.Context, userID uint) (string, error) {
	token := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	if err := p.store.Save(ctx, Digest(token), userID, p.ttl); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return token, nil
}

// Rotate exchanges token for a new one. A token can be exchanged only once.
func (p *RefreshTokenProvider) Rotate(ctx context.Context, token string) (uint, string, error) {
	if token == "" {
		return 0, "", ErrRefreshTokenNotFound
	}
	userID, err := p.store.Consume(ctx, Digest(token))
	if err != nil {
		return 0, "", err
	}
	next, err := p.Issue(ctx, userID)
	if err != nil {
		return 0, "", err
	}
	return userID, next, nil
}

// Revoke forgets token. Unknown tokens are ignored.
func (p *RefreshTokenProvider) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return p.store.Delete(ctx, Digest(token))
}

// Digest is the hex SHA-256 of token; only digests are stored.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// RedisRefreshStore keeps digests under refresh:<digest> with a TTL.
type RedisRefreshStore struct {
	client *redis.Client
}

// NewRedisRefreshStore returns a store on client.
func NewRedisRefreshStore(client *redis.Client) *RedisRefreshStore {
	return &RedisRefreshStore{client: client}
}

func refreshKey(digest string) string {
	return "refresh:" + digest
}

func (s *RedisRefreshStore) Save(ctx context.Context, digest string, userID uint, ttl time.Duration) error {
	return s.client.Set(ctx, refreshKey(digest), userID, ttl).Err()
}

func (s *RedisRefreshStore) Consume(ctx context.Context, digest string) (uint, error) {
	val, err := s.client.GetDel(ctx, refreshKey(digest)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrRefreshTokenNotFound
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt refresh entry: %w", err)
	}
	return uint(id), nil
}

func (s *RedisRefreshStore) Delete(ctx context.Context, digest string) error {
	return s.client.Del(ctx, refreshKey(digest)).Err()
}

// GormRefreshStore keeps digests in the refresh_tokens table.
type GormRefreshStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormRefreshStore returns a store on db.
func NewGormRefreshStore(db *gorm.DB) *GormRefreshStore {
	return &GormRefreshStore{db: db, now: time.Now}
}

func (s *GormRefreshStore) Save(ctx context.Context, digest string, userID uint, ttl time.Duration) error {
	return s.db.WithContext(ctx).Create(&models.RefreshToken{
		Digest:    digest,
		UserID:    userID,
		ExpiresAt: s.now().Add(ttl),
	}).Error
}

func (s *GormRefreshStore) Consume(ctx context.Context, digest string) (uint, error) {
	var rt models.RefreshToken
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("digest = ?", digest).First(&rt).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRefreshTokenNotFound
			}
			return err
		}
		res := tx.Delete(&rt)
		if res.Error != nil {
			return res.Error
		}
		// Another request consumed it first.
		if res.RowsAffected == 0 {
			return ErrRefreshTokenNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	// Expired rows are deleted above but never honoured.
	if !rt.ExpiresAt.After(s.now()) {
		return 0, ErrRefreshTokenNotFound
	}
	return rt.UserID, nil
}

func (s *GormRefreshStore) Delete(ctx context.Context, digest string) error {
	return s.db.WithContext(ctx).Where("digest = ?", digest).Delete(&models.RefreshToken{}).Error
}
