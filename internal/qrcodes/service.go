package qrcodes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hariprasanna/counterpos-backend/pkg/db/models"
	pkgerrors "github.com/hariprasanna/counterpos-backend/pkg/errors"
)

const activeCacheKeyPart = "qr-active"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cacheStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CacheKey(parts ...string) string
}

// CreateQRCodeInput carries a new payment QR record.
type CreateQRCodeInput struct {
	Label    string
	ImageURL string
}

// Service manages counter payment QR codes. The active code is cached in
// Redis for a short TTL since every checkout screen render reads it.
type Service interface {
	CreateQRCode(ctx context.Context, input CreateQRCodeInput) (*models.QRCode, error)
	ListQRCodes(ctx context.Context) ([]models.QRCode, error)
	ActivateQRCode(ctx context.Context, id uuid.UUID) (*models.QRCode, error)
	GetActiveQRCode(ctx context.Context) (*models.QRCode, error)
	DeleteQRCode(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     Repository
	tx       txRunner
	cache    cacheStore
	cacheTTL time.Duration
}

// NewService builds the QR code service.
func NewService(repo Repository, tx txRunner, cache cacheStore, cacheTTL time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("qr code repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache store required")
	}
	if cacheTTL <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive")
	}
	return &service{repo: repo, tx: tx, cache: cache, cacheTTL: cacheTTL}, nil
}

func (s *service) CreateQRCode(ctx context.Context, input CreateQRCodeInput) (*models.QRCode, error) {
	url := strings.TrimSpace(input.ImageURL)
	if url == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
	}

	code := &models.QRCode{
		Label:    strings.TrimSpace(input.Label),
		ImageURL: url,
		IsActive: false,
	}
	created, err := s.repo.Create(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating qr code")
	}
	return created, nil
}

func (s *service) ListQRCodes(ctx context.Context) ([]models.QRCode, error) {
	listed, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing qr codes")
	}
	return listed, nil
}

// ActivateQRCode flips the chosen code on and all others off in one
// transaction, then drops the cached copy so the next read sees the change.
func (s *service) ActivateQRCode(ctx context.Context, id uuid.UUID) (*models.QRCode, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qr code id is required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeactivateAll(ctx); err != nil {
			return fmt.Errorf("deactivating codes: %w", err)
		}
		if err := txRepo.SetActive(ctx, id); err != nil {
			return fmt.Errorf("activating code: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "qr code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activating qr code")
	}

	s.invalidateActiveCache(ctx)
	return s.repo.FindByID(ctx, id)
}

// GetActiveQRCode serves from the Redis cache when possible and falls back to
// the database on a miss or a cache failure. There being no active code is a
// NotFound, not an error state.
func (s *service) GetActiveQRCode(ctx context.Context) (*models.QRCode, error) {
	key := s.cache.CacheKey(activeCacheKeyPart)

	// a cache miss, a cache failure, or a corrupt entry all fall through to
	// the database read
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var code models.QRCode
		if jsonErr := json.Unmarshal([]byte(cached), &code); jsonErr == nil {
			return &code, nil
		}
		_ = s.cache.Del(ctx, key)
	}

	code, err := s.repo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active qr code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading active qr code")
	}

	if payload, err := json.Marshal(code); err == nil {
		_ = s.cache.Set(ctx, key, string(payload), s.cacheTTL)
	}
	return code, nil
}

func (s *service) DeleteQRCode(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "qr code id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "qr code not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting qr code")
	}
	s.invalidateActiveCache(ctx)
	return nil
}

func (s *service) invalidateActiveCache(ctx context.Context) {
	_ = s.cache.Del(ctx, s.cache.CacheKey(activeCacheKeyPart))
}
