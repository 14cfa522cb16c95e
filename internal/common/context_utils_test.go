package common

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGSTIN(t *testing.T) {
	tests := []struct {
		name    string
		gstin   string
		wantErr bool
	}{
		{"empty is allowed", "", false},
		{"valid karnataka", "29ABCDE1234F1Z5", false},
		{"valid delhi", "07AAACR5055K1Z3", false},
		{"too short", "29ABCDE1234F1Z", true},
		{"lower case", "29abcde1234f1z5", true},
		{"missing Z", "29ABCDE1234F1X5", true},
		{"zero entity number", "29ABCDE1234F0Z5", true},
		{"letters in state code", "AAABCDE1234F1Z5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGSTIN(tt.gstin, "buyer_gst")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeGSTIN(t *testing.T) {
	assert.Nil(t, NormalizeGSTIN(nil))

	blank := "   "
	assert.Nil(t, NormalizeGSTIN(&blank))

	raw := " 29abcde1234f1z5 "
	got := NormalizeGSTIN(&raw)
	require.NotNil(t, got)
	assert.Equal(t, "29ABCDE1234F1Z5", *got)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-04-01", "billing_date")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("01/04/2024", "billing_date")
	assert.EqualError(t, err, "billing_date must be in YYYY-MM-DD format")

	_, err = ParseDate("", "billing_date")
	assert.EqualError(t, err, "billing_date is required")

	_, err = ParseDate("1800-01-01", "billing_date")
	assert.Error(t, err)
}

func TestValidateUUID(t *testing.T) {
	_, err := ValidateUUID("", "id")
	assert.Error(t, err)

	_, err = ValidateUUID("not-a-uuid", "id")
	assert.Error(t, err)

	id, err := ValidateUUID(" 3f0b6c2e-8a43-4a53-9c7e-0b5d1e2f3a4b ", "id")
	require.NoError(t, err)
	assert.Equal(t, "3f0b6c2e-8a43-4a53-9c7e-0b5d1e2f3a4b", id.String())
}

func TestSanitizeSearchQuery(t *testing.T) {
	assert.Equal(t, "acme", SanitizeSearchQuery(" %ac_me% "))
	assert.Equal(t, "O'Brien", SanitizeSearchQuery("O'Brien"))
	assert.Len(t, SanitizeSearchQuery(strings.Repeat("a", 300)), 100)
}

func TestValidatePaginationParams(t *testing.T) {
	limit, offset, err := ValidatePaginationParams(0, -5)
	require.NoError(t, err)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 0, offset)

	limit, _, err = ValidatePaginationParams(5000, 0)
	require.NoError(t, err)
	assert.Equal(t, 1000, limit)

	_, _, err = ValidatePaginationParams(10, 2000000)
	assert.Error(t, err)
}

func TestValidateOptionalString(t *testing.T) {
	v := "  KA01AB1234 "
	require.NoError(t, ValidateOptionalString(&v, "vehicle_number", 20))
	assert.Equal(t, "KA01AB1234", v)

	long := "this vehicle number is far too long"
	assert.Error(t, ValidateOptionalString(&long, "vehicle_number", 20))
	assert.NoError(t, ValidateOptionalString(nil, "vehicle_number", 20))
}

func TestUserIDContext(t *testing.T) {
	_, ok := GetUserIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = GetUserIDFromContext(WithUserID(context.Background(), ""))
	assert.False(t, ok)

	id, ok := GetUserIDFromContext(WithUserID(context.Background(), "user_2abc"))
	assert.True(t, ok)
	assert.Equal(t, "user_2abc", id)
}

func TestResponseEnvelopes(t *testing.T) {
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, SendValidationError(c, "quantity", "quantity must be at least 1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var failure map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failure))
	assert.Equal(t, false, failure["success"])
	errBody := failure["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
	assert.Equal(t, "quantity must be at least 1", errBody["details"].(map[string]any)["quantity"])

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, SendSuccess(c, http.StatusCreated, map[string]int{"n": 1}, "created"))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var success map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &success))
	assert.Equal(t, true, success["success"])
	assert.Equal(t, "created", success["message"])
	assert.NotContains(t, success, "error")
}
