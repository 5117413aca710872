package controllers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hariprasanna/counterpos-backend/internal/orders"
	"github.com/hariprasanna/counterpos-backend/pkg/db/models"
	"github.com/hariprasanna/counterpos-backend/pkg/enums"
)

type stubOrdersService struct {
	order       *models.Order
	list        []models.Order
	lastPlace   orders.PlaceOrderInput
	lastRevise  orders.ReviseOrderInput
	lastDeleted uuid.UUID
	lastFilter  enums.OrderDateFilter
	err         error
}

func (s *stubOrdersService) PlaceOrder(ctx context.Context, input orders.PlaceOrderInput) (*models.Order, error) {
	s.lastPlace = input
	return s.order, s.err
}

func (s *stubOrdersService) ReviseOrder(ctx context.Context, input orders.ReviseOrderInput) (*models.Order, error) {
	s.lastRevise = input
	return s.order, s.err
}

func (s *stubOrdersService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	s.lastDeleted = orderID
	return s.err
}

func (s *stubOrdersService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrdersService) ListOrders(ctx context.Context, filters orders.ListFilters) ([]models.Order, error) {
	s.lastFilter = filters.DateFilter
	return s.list, s.err
}

func TestPlaceOrder(t *testing.T) {
	itemID := uuid.New()
	svc := &stubOrdersService{order: &models.Order{ID: uuid.New(), TotalAmount: decimal.NewFromInt(160)}}
	handler := PlaceOrder(svc, nil)

	body := fmt.Sprintf(`{"items":[{"item_id":"%s","quantity":4}],"total":"160"}`, itemID)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	require.Len(t, svc.lastPlace.Items, 1)
	require.Equal(t, itemID, svc.lastPlace.Items[0].ItemID)
	require.Equal(t, 4, svc.lastPlace.Items[0].Quantity)
	require.True(t, svc.lastPlace.Total.Equal(decimal.NewFromInt(160)))
}

func TestPlaceOrderRejectsEmptyItems(t *testing.T) {
	handler := PlaceOrder(&stubOrdersService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte(`{"items":[],"total":"0"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestReviseOrderCarriesOrderID(t *testing.T) {
	orderID := uuid.New()
	itemID := uuid.New()
	svc := &stubOrdersService{order: &models.Order{ID: orderID}}
	handler := ReviseOrder(svc, nil)

	body := fmt.Sprintf(`{"items":[{"item_id":"%s","quantity":7}],"total":"280"}`, itemID)
	req := pathRequest(http.MethodPut, "/api/v1/orders/"+orderID.String(), "orderID", orderID.String(), []byte(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, orderID, svc.lastRevise.OrderID)
	require.Equal(t, 7, svc.lastRevise.Items[0].Quantity)
}

func TestDeleteOrder(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{}
	handler := DeleteOrder(svc, nil)

	req := pathRequest(http.MethodDelete, "/api/v1/orders/"+orderID.String(), "orderID", orderID.String(), nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, orderID, svc.lastDeleted)
}

func TestListOrdersDefaultsToToday(t *testing.T) {
	svc := &stubOrdersService{list: []models.Order{}}
	handler := ListOrders(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, enums.OrderDateFilterToday, svc.lastFilter)
}

func TestListOrdersPassesFilter(t *testing.T) {
	svc := &stubOrdersService{list: []models.Order{}}
	handler := ListOrders(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?date_filter=all", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, enums.OrderDateFilterAll, svc.lastFilter)
}
