package qrcodes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hariprasanna/counterpos-backend/pkg/db/models"
	pkgerrors "github.com/hariprasanna/counterpos-backend/pkg/errors"
)

type stubQRRepo struct {
	codes       map[uuid.UUID]*models.QRCode
	findActives int
}

func newStubQRRepo() *stubQRRepo {
	return &stubQRRepo{codes: make(map[uuid.UUID]*models.QRCode)}
}

func (s *stubQRRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubQRRepo) Create(ctx context.Context, code *models.QRCode) (*models.QRCode, error) {
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	s.codes[code.ID] = code
	return code, nil
}

func (s *stubQRRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.QRCode, error) {
	code, ok := s.codes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return code, nil
}

func (s *stubQRRepo) FindActive(ctx context.Context) (*models.QRCode, error) {
	s.findActives++
	for _, code := range s.codes {
		if code.IsActive {
			return code, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubQRRepo) List(ctx context.Context) ([]models.QRCode, error) {
	var listed []models.QRCode
	for _, code := range s.codes {
		listed = append(listed, *code)
	}
	return listed, nil
}

func (s *stubQRRepo) DeactivateAll(ctx context.Context) error {
	for _, code := range s.codes {
		code.IsActive = false
	}
	return nil
}

func (s *stubQRRepo) SetActive(ctx context.Context, id uuid.UUID) error {
	code, ok := s.codes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	code.IsActive = true
	return nil
}

func (s *stubQRRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.codes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.codes, id)
	return nil
}

type stubQRTx struct{}

func (stubQRTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubCache struct {
	data   map[string]string
	getErr error
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string]string)}
}

func (s *stubCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.data[key] = fmt.Sprint(value)
	return nil
}

func (s *stubCache) Get(ctx context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	value, ok := s.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return value, nil
}

func (s *stubCache) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func (s *stubCache) CacheKey(parts ...string) string {
	return "cpos:cache:" + strings.Join(parts, ":")
}

func newQRService(t *testing.T, repo Repository, cache cacheStore) Service {
	t.Helper()
	svc, err := NewService(repo, stubQRTx{}, cache, 5*time.Minute)
	require.NoError(t, err)
	return svc
}

func TestActivateQRCodeFlipsOthersOff(t *testing.T) {
	repo := newStubQRRepo()
	cache := newStubCache()
	svc := newQRService(t, repo, cache)
	ctx := context.Background()

	first, err := svc.CreateQRCode(ctx, CreateQRCodeInput{Label: "UPI main", ImageURL: "https://cdn.example.com/qr1.png"})
	require.NoError(t, err)
	second, err := svc.CreateQRCode(ctx, CreateQRCodeInput{Label: "UPI backup", ImageURL: "https://cdn.example.com/qr2.png"})
	require.NoError(t, err)

	_, err = svc.ActivateQRCode(ctx, first.ID)
	require.NoError(t, err)
	activated, err := svc.ActivateQRCode(ctx, second.ID)
	require.NoError(t, err)

	assert.True(t, activated.IsActive)
	assert.False(t, repo.codes[first.ID].IsActive)
}

func TestActivateQRCodeUnknownID(t *testing.T) {
	svc := newQRService(t, newStubQRRepo(), newStubCache())

	_, err := svc.ActivateQRCode(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestGetActiveQRCodeCachesResult(t *testing.T) {
	repo := newStubQRRepo()
	cache := newStubCache()
	svc := newQRService(t, repo, cache)
	ctx := context.Background()

	code, err := svc.CreateQRCode(ctx, CreateQRCodeInput{Label: "UPI main", ImageURL: "https://cdn.example.com/qr.png"})
	require.NoError(t, err)
	_, err = svc.ActivateQRCode(ctx, code.ID)
	require.NoError(t, err)

	first, err := svc.GetActiveQRCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, code.ID, first.ID)
	assert.Equal(t, 1, repo.findActives)

	// second read is served from cache
	second, err := svc.GetActiveQRCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, code.ID, second.ID)
	assert.Equal(t, 1, repo.findActives)
}

func TestGetActiveQRCodeFallsBackWhenCacheDown(t *testing.T) {
	repo := newStubQRRepo()
	cache := newStubCache()
	cache.getErr = fmt.Errorf("connection refused")
	svc := newQRService(t, repo, cache)
	ctx := context.Background()

	code, err := svc.CreateQRCode(ctx, CreateQRCodeInput{Label: "UPI main", ImageURL: "https://cdn.example.com/qr.png"})
	require.NoError(t, err)
	_, err = svc.ActivateQRCode(ctx, code.ID)
	require.NoError(t, err)

	active, err := svc.GetActiveQRCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, code.ID, active.ID)
	assert.Equal(t, 1, repo.findActives)
}

func TestGetActiveQRCodeDropsCorruptCacheEntry(t *testing.T) {
	repo := newStubQRRepo()
	cache := newStubCache()
	svc := newQRService(t, repo, cache)
	ctx := context.Background()

	code, err := svc.CreateQRCode(ctx, CreateQRCodeInput{Label: "UPI main", ImageURL: "https://cdn.example.com/qr.png"})
	require.NoError(t, err)
	_, err = svc.ActivateQRCode(ctx, code.ID)
	require.NoError(t, err)

	cache.data[cache.CacheKey("qr-active")] = "{not json"

	active, err := svc.GetActiveQRCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, code.ID, active.ID)

	var cached models.QRCode
	require.NoError(t, json.Unmarshal([]byte(cache.data[cache.CacheKey("qr-active")]), &cached))
	assert.Equal(t, code.ID, cached.ID)
}

func TestGetActiveQRCodeNoneActive(t *testing.T) {
	svc := newQRService(t, newStubQRRepo(), newStubCache())

	_, err := svc.GetActiveQRCode(context.Background())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDeleteQRCodeInvalidatesCache(t *testing.T) {
	repo := newStubQRRepo()
	cache := newStubCache()
	svc := newQRService(t, repo, cache)
	ctx := context.Background()

	code, err := svc.CreateQRCode(ctx, CreateQRCodeInput{Label: "UPI main", ImageURL: "https://cdn.example.com/qr.png"})
	require.NoError(t, err)
	_, err = svc.ActivateQRCode(ctx, code.ID)
	require.NoError(t, err)
	_, err = svc.GetActiveQRCode(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteQRCode(ctx, code.ID))
	assert.Empty(t, cache.data)
}

func TestCreateQRCodeRequiresImageURL(t *testing.T) {
	svc := newQRService(t, newStubQRRepo(), newStubCache())

	_, err := svc.CreateQRCode(context.Background(), CreateQRCodeInput{Label: "x", ImageURL: "  "})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
