package drafts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hariprasanna/counterpos-backend/pkg/db/models"
	pkgerrors "github.com/hariprasanna/counterpos-backend/pkg/errors"
)

type stubDraftsRepo struct {
	drafts map[uuid.UUID]*models.DraftOrder
}

func newStubDraftsRepo() *stubDraftsRepo {
	return &stubDraftsRepo{drafts: make(map[uuid.UUID]*models.DraftOrder)}
}

func (s *stubDraftsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubDraftsRepo) Create(ctx context.Context, draft *models.DraftOrder) (*models.DraftOrder, error) {
	if draft.ID == uuid.Nil {
		draft.ID = uuid.New()
	}
	s.drafts[draft.ID] = draft
	return draft, nil
}

func (s *stubDraftsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.DraftOrder, error) {
	draft, ok := s.drafts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return draft, nil
}

func (s *stubDraftsRepo) List(ctx context.Context) ([]models.DraftOrder, error) {
	var listed []models.DraftOrder
	for _, draft := range s.drafts {
		listed = append(listed, *draft)
	}
	return listed, nil
}

func (s *stubDraftsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	draft, ok := s.drafts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		draft.Name = name
	}
	if items, ok := updates["items"].([]models.DraftLineItem); ok {
		draft.Items = items
	}
	if total, ok := updates["total_amount"].(decimal.Decimal); ok {
		draft.TotalAmount = total
	}
	return nil
}

func (s *stubDraftsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.drafts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.drafts, id)
	return nil
}

func (s *stubDraftsRepo) DeleteUpdatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func newDraftsService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc
}

func draftLine(qty int, price int64) models.DraftLineItem {
	return models.DraftLineItem{
		ItemID:    uuid.New(),
		Name:      "Bagel",
		Quantity:  qty,
		UnitPrice: decimal.NewFromInt(price),
	}
}

func TestSaveDraftDefaultsNameAndComputesTotal(t *testing.T) {
	svc := newDraftsService(t, newStubDraftsRepo())

	draft, err := svc.SaveDraft(context.Background(), SaveDraftInput{
		Name:  "  ",
		Items: []models.DraftLineItem{draftLine(4, 40), draftLine(2, 15)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Untitled Draft", draft.Name)
	assert.True(t, draft.TotalAmount.Equal(decimal.NewFromInt(190)))
}

func TestSaveDraftAllowsEmptyCart(t *testing.T) {
	svc := newDraftsService(t, newStubDraftsRepo())

	draft, err := svc.SaveDraft(context.Background(), SaveDraftInput{Name: "Table 4"})
	require.NoError(t, err)
	assert.Equal(t, "Table 4", draft.Name)
	assert.NotNil(t, draft.Items)
	assert.Empty(t, draft.Items)
	assert.True(t, draft.TotalAmount.IsZero())
}

func TestSaveDraftRejectsBadLines(t *testing.T) {
	svc := newDraftsService(t, newStubDraftsRepo())

	bad := draftLine(0, 40)
	_, err := svc.SaveDraft(context.Background(), SaveDraftInput{Items: []models.DraftLineItem{bad}})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateDraftReplacesDocument(t *testing.T) {
	repo := newStubDraftsRepo()
	svc := newDraftsService(t, repo)
	ctx := context.Background()

	draft, err := svc.SaveDraft(ctx, SaveDraftInput{
		Name:  "Counter 1",
		Items: []models.DraftLineItem{draftLine(1, 40)},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateDraft(ctx, draft.ID, SaveDraftInput{
		Name:  "Counter 1",
		Items: []models.DraftLineItem{draftLine(3, 40)},
	})
	require.NoError(t, err)
	assert.Equal(t, draft.ID, updated.ID)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 3, updated.Items[0].Quantity)
	assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(120)))
}

func TestDraftNotFoundPaths(t *testing.T) {
	svc := newDraftsService(t, newStubDraftsRepo())
	ctx := context.Background()
	missing := uuid.New()

	_, err := svc.GetDraft(ctx, missing)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	_, err = svc.UpdateDraft(ctx, missing, SaveDraftInput{})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	err = svc.DeleteDraft(ctx, missing)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
