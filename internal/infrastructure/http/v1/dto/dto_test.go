package dto

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bleuims/internal/core/apperror"
	"bleuims/internal/domain/material"
)

func TestMaterialRequestToModel(t *testing.T) {
	req := MaterialRequest{
		Name:        "Milk",
		Quantity:    decimal.NewFromInt(12),
		Measurement: "box",
		DateAdded:   "2026-08-01",
	}

	m, err := req.ToModel()
	require.NoError(t, err)
	assert.Equal(t, "Milk", m.Name)
	assert.Equal(t, "2026-08-01", m.DateAdded.Format(time.DateOnly))
	assert.Empty(t, m.Status, "status is derived by the service, never by the DTO")
}

func TestMaterialRequestDefaultsDateAdded(t *testing.T) {
	req := MaterialRequest{Name: "Milk", Quantity: decimal.NewFromInt(1), Measurement: "box"}

	m, err := req.ToModel()
	require.NoError(t, err)
	assert.Equal(t, time.Now().UTC().Format(time.DateOnly), m.DateAdded.Format(time.DateOnly))
}

func TestMaterialRequestRejectsBadDate(t *testing.T) {
	req := MaterialRequest{Name: "Milk", Quantity: decimal.NewFromInt(1), Measurement: "box", DateAdded: "01/08/2026"}

	_, err := req.ToModel()
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestMaterialRequestRejectsNegativeQuantity(t *testing.T) {
	req := MaterialRequest{Name: "Milk", Quantity: decimal.NewFromInt(-1), Measurement: "box"}

	_, err := req.ToModel()
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreateBatchRequestRequiresLoggedBy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/material-batches", strings.NewReader(
		`{"materialId": 1, "quantity": 5, "unit": "pcs", "batchDate": "2026-08-15"}`,
	))

	var req CreateBatchRequest
	err := c.ShouldBindJSON(&req)
	require.Error(t, err, "loggedBy is mandatory on batch creation")
	assert.Contains(t, err.Error(), "LoggedBy")
}

func TestUpdateBatchRequestParsesDate(t *testing.T) {
	date := "2026-08-15"
	req := UpdateBatchRequest{BatchDate: &date}

	u, err := req.ToUpdate()
	require.NoError(t, err)
	require.NotNil(t, u.BatchDate)
	assert.Equal(t, date, u.BatchDate.Format(time.DateOnly))
	assert.False(t, u.IsEmpty())
}

func TestDeductFromSaleRequestRejectsNonPositiveQuantity(t *testing.T) {
	req := DeductFromSaleRequest{CartItems: []CartItem{{Name: "Latte", Quantity: 0}}}

	_, err := req.ToModel()
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestFromMaterialsNeverNil(t *testing.T) {
	out := FromMaterials(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestFromStatusCountsKeys(t *testing.T) {
	resp := FromStatusCounts(material.StatusCounts{Available: 3, LowStock: 1, NotAvailable: 2})
	assert.Equal(t, int64(3), resp.Available)
	assert.Equal(t, int64(1), resp.LowStock)
	assert.Equal(t, int64(2), resp.NotAvailable)

	// The dashboard reads these exact keys off the wire.
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var body map[string]int64
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, map[string]int64{
		"available":     3,
		"low_stock":     1,
		"not_available": 2,
	}, body)
}
