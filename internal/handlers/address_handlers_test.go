package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"billmaker/internal/models"
	"billmaker/internal/repositories"
	"billmaker/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAddressHandlers_CreateAndList(t *testing.T) {
	e := echo.New()
	e.Validator = NewRequestValidator()
	svc := new(MockAddressService)
	h := NewAddressHandlers(svc, zap.NewNop())

	gstin := "29ABCDE1234F1Z5"
	saved := &models.Address{ID: uuid.New(), UserID: testUserID, Name: "Ravi Constructions", Address: "12 MG Road", GSTNumber: &gstin, CreatedAt: time.Now()}
	svc.On("Create", mock.Anything, testUserID, services.AddressInput{Name: "Ravi Constructions", Address: "12 MG Road", GSTNumber: &gstin}).
		Return(saved, nil)
	svc.On("List", mock.Anything, testUserID).Return([]*models.Address{saved}, nil)

	c, rec := newContext(e, http.MethodPost, "/v1/addresses", `{"name":"Ravi Constructions","address":"12 MG Road","gst_number":"29ABCDE1234F1Z5"}`, testUserID)
	require.NoError(t, h.CreateAddress(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newContext(e, http.MethodGet, "/v1/addresses", "", testUserID)
	require.NoError(t, h.ListAddresses(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, gstin, data[0].(map[string]interface{})["gst_number"])

	svc.AssertExpectations(t)
}

func TestAddressHandlers_CreateRequiresAddress(t *testing.T) {
	e := echo.New()
	e.Validator = NewRequestValidator()
	h := NewAddressHandlers(new(MockAddressService), zap.NewNop())

	c, rec := newContext(e, http.MethodPost, "/v1/addresses", `{"name":"Ravi"}`, testUserID)
	require.NoError(t, h.CreateAddress(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decodeBody(t, rec)["error"].(map[string]interface{})
	assert.Equal(t, "address is required", errBody["message"])
}

func TestAddressHandlers_NotFound(t *testing.T) {
	e := echo.New()
	e.Validator = NewRequestValidator()
	svc := new(MockAddressService)
	h := NewAddressHandlers(svc, zap.NewNop())
	id := uuid.New()

	svc.On("GetByID", mock.Anything, testUserID, id).Return(nil, repositories.ErrNotFound)
	svc.On("Update", mock.Anything, testUserID, id, mock.Anything).Return(nil, repositories.ErrNotFound)
	svc.On("Delete", mock.Anything, testUserID, id).Return(repositories.ErrNotFound)

	c, rec := newContext(e, http.MethodGet, "/v1/addresses/"+id.String(), "", testUserID)
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	require.NoError(t, h.GetAddress(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newContext(e, http.MethodPut, "/v1/addresses/"+id.String(), `{"name":"A","address":"B"}`, testUserID)
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	require.NoError(t, h.UpdateAddress(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newContext(e, http.MethodDelete, "/v1/addresses/"+id.String(), "", testUserID)
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	require.NoError(t, h.DeleteAddress(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	svc.AssertExpectations(t)
}

func TestDashboardHandlers_GetSummary(t *testing.T) {
	e := echo.New()
	provider := new(MockSummaryProvider)
	h := NewDashboardHandlers(provider, zap.NewNop())

	provider.On("GetSummary", mock.Anything, testUserID).
		Return(&models.BillSummary{TotalBills: 12, BillsThisMonth: 3, TotalAmount: 141600}, nil)

	c, rec := newContext(e, http.MethodGet, "/v1/dashboard/summary", "", testUserID)
	require.NoError(t, h.GetSummary(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, 12.0, data["total_bills"])
	assert.Equal(t, 3.0, data["bills_this_month"])
	provider.AssertExpectations(t)
}

func TestDashboardHandlers_RequiresUser(t *testing.T) {
	e := echo.New()
	h := NewDashboardHandlers(new(MockSummaryProvider), zap.NewNop())

	c, rec := newContext(e, http.MethodGet, "/v1/dashboard/summary", "", "")
	require.NoError(t, h.GetSummary(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthHandlers(t *testing.T) {
	e := echo.New()

	t.Run("all healthy", func(t *testing.T) {
		h := NewHealthHandlers(stubPinger{}, stubPinger{}, stubPinger{}, "v1.2.0")
		c, rec := newContext(e, http.MethodGet, "/health", "", "")
		require.NoError(t, h.HealthCheck(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "v1.2.0", body["version"])
	})

	t.Run("redis down degrades", func(t *testing.T) {
		h := NewHealthHandlers(stubPinger{}, stubPinger{err: errors.New("connection refused")}, nil, "v1.2.0")
		c, rec := newContext(e, http.MethodGet, "/health", "", "")
		require.NoError(t, h.HealthCheck(c))

		assert.Equal(t, http.StatusPartialContent, rec.Code)
		svcs := decodeBody(t, rec)["services"].(map[string]interface{})
		assert.Equal(t, "unhealthy", svcs["redis"])
		assert.Equal(t, "disabled", svcs["storage"])
	})

	t.Run("readiness follows the database", func(t *testing.T) {
		h := NewHealthHandlers(stubPinger{err: errors.New("no route")}, stubPinger{}, nil, "v1.2.0")
		c, rec := newContext(e, http.MethodGet, "/health/ready", "", "")
		require.NoError(t, h.ReadinessCheck(c))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		h = NewHealthHandlers(stubPinger{}, stubPinger{err: errors.New("no route")}, nil, "v1.2.0")
		c, rec = newContext(e, http.MethodGet, "/health/ready", "", "")
		require.NoError(t, h.ReadinessCheck(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
