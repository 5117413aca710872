package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hariprasanna/counterpos-backend/pkg/businessday"
	"github.com/hariprasanna/counterpos-backend/pkg/db/models"
	pkgerrors "github.com/hariprasanna/counterpos-backend/pkg/errors"
)

type stubCatalogRepo struct {
	items   map[uuid.UUID]*models.Item
	listErr error
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{items: make(map[uuid.UUID]*models.Item)}
}

func (s *stubCatalogRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubCatalogRepo) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items[item.ID] = item
	return item, nil
}

func (s *stubCatalogRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s *stubCatalogRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Item, error) {
	var found []models.Item
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			found = append(found, *item)
		}
	}
	return found, nil
}

func (s *stubCatalogRepo) List(ctx context.Context, includeInactive bool) ([]models.Item, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var items []models.Item
	for _, item := range s.items {
		if !includeInactive && !item.IsActive {
			continue
		}
		items = append(items, *item)
	}
	return items, nil
}

func (s *stubCatalogRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	item, ok := s.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		item.Name = name
	}
	if price, ok := updates["price"].(decimal.Decimal); ok {
		item.Price = price
	}
	if order, ok := updates["display_order"].(int); ok {
		item.DisplayOrder = order
	}
	if active, ok := updates["is_active"].(bool); ok {
		item.IsActive = active
	}
	return nil
}

func (s *stubCatalogRepo) ItemExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := s.items[id]
	return ok, nil
}

type stubAvailability struct {
	availability map[uuid.UUID]int
	err          error
}

func (s *stubAvailability) AvailabilityForDate(ctx context.Context, date businessday.Date) (map[uuid.UUID]int, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.availability, nil
}

func newCatalogService(t *testing.T, repo Repository, stock AvailabilityProvider) Service {
	t.Helper()
	calendar, err := businessday.NewCalendar("Asia/Kolkata", businessday.FixedClock{
		Instant: time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	svc, err := NewService(repo, stock, calendar)
	require.NoError(t, err)
	return svc
}

func TestCreateItemValidatesInput(t *testing.T) {
	svc := newCatalogService(t, newStubCatalogRepo(), &stubAvailability{})

	_, err := svc.CreateItem(context.Background(), CreateItemInput{Name: "   "})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.CreateItem(context.Background(), CreateItemInput{
		Name:  "Coffee",
		Price: decimal.NewFromInt(-1),
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateItemTrimsName(t *testing.T) {
	repo := newStubCatalogRepo()
	svc := newCatalogService(t, repo, &stubAvailability{})

	item, err := svc.CreateItem(context.Background(), CreateItemInput{
		Name:  "  Bagel  ",
		Price: decimal.NewFromFloat(45.50),
	})
	require.NoError(t, err)
	assert.Equal(t, "Bagel", item.Name)
	assert.True(t, item.IsActive)
}

func TestUpdateItemUnknownID(t *testing.T) {
	svc := newCatalogService(t, newStubCatalogRepo(), &stubAvailability{})
	name := "Espresso"

	_, err := svc.UpdateItem(context.Background(), uuid.New(), UpdateItemInput{Name: &name})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDeactivateItemHidesFromListing(t *testing.T) {
	repo := newStubCatalogRepo()
	svc := newCatalogService(t, repo, &stubAvailability{})

	item, err := svc.CreateItem(context.Background(), CreateItemInput{
		Name:  "Bagel",
		Price: decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateItem(context.Background(), item.ID))

	list, err := svc.ListItems(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	full, err := svc.ListItems(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, full.Items, 1)
	assert.False(t, full.Items[0].IsActive)
}

func TestListItemsEnrichesAvailability(t *testing.T) {
	repo := newStubCatalogRepo()
	stock := &stubAvailability{availability: map[uuid.UUID]int{}}
	svc := newCatalogService(t, repo, stock)

	item, err := svc.CreateItem(context.Background(), CreateItemInput{
		Name:  "Bagel",
		Price: decimal.NewFromInt(40),
	})
	require.NoError(t, err)
	stock.availability[item.ID] = 6

	list, err := svc.ListItems(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.True(t, list.AvailabilityKnown)
	assert.Equal(t, "2025-09-01", list.StockDate)
	require.NotNil(t, list.Items[0].Available)
	assert.Equal(t, 6, *list.Items[0].Available)
}

func TestListItemsDegradesWhenStockLookupFails(t *testing.T) {
	repo := newStubCatalogRepo()
	svc := newCatalogService(t, repo, &stubAvailability{err: fmt.Errorf("redis down")})

	_, err := svc.CreateItem(context.Background(), CreateItemInput{
		Name:  "Bagel",
		Price: decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	list, err := svc.ListItems(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.False(t, list.AvailabilityKnown)
	assert.Nil(t, list.Items[0].Available)
}
