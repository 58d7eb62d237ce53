package state

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := newFixture(t)
	h := NewGinHandlers(f.manager)

	router := gin.New()
	v1 := router.Group("/api/v1")
	trades := v1.Group("/trades")
	trades.GET("", h.GetHistoryHandler())
	trades.POST("", h.CreateTradeHandler())
	trades.PUT("/:trade_id", h.UpdateTradeHandler())
	trades.DELETE("/:trade_id", h.DeleteTradeHandler())
	trades.GET("/:trade_id/receipt", h.ReceiptHandler())

	cart := v1.Group("/cart")
	cart.GET("", h.GetCartHandler())
	cart.GET("/total", h.CartTotalHandler())
	cart.POST("/items", h.AddCartItemHandler())
	cart.PATCH("/items/:item_id", h.UpdateCartItemHandler())

	v1.PUT("/shop", h.UpdateShopInfoHandler())

	return router, f
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateTradeEndpoint(t *testing.T) {
	router, f := newTestRouter(t)

	body := `{
		"customer_name": "동해수산",
		"date": "2026-08-28",
		"cart": [{"id": 1, "name": "광어", "unit": "kg", "price": 1000, "weight": 2}]
	}`
	w := doRequest(router, http.MethodPost, "/api/v1/trades", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	require.Len(t, f.manager.History(), 1)
}

func TestCreateTradeEndpointRejectsMissingCustomer(t *testing.T) {
	router, f := newTestRouter(t)

	body := `{"date": "2026-08-28", "cart": [{"id": 1, "name": "광어", "unit": "kg", "price": 1000, "weight": 2}]}`
	w := doRequest(router, http.MethodPost, "/api/v1/trades", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_FAILED")
	assert.Empty(t, f.manager.History())
}

func TestDeleteTradeEndpointRequiresConfirm(t *testing.T) {
	router, f := newTestRouter(t)

	body := `{"customer_name": "동해수산", "cart": [{"id": 1, "name": "광어", "unit": "kg", "price": 1000, "weight": 2}]}`
	w := doRequest(router, http.MethodPost, "/api/v1/trades", body)
	require.Equal(t, http.StatusCreated, w.Code)
	id := f.manager.History()[0].ID

	w = doRequest(router, http.MethodDelete, "/api/v1/trades/"+id, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CONFIRMATION_REQUIRED")
	assert.Len(t, f.manager.History(), 1)

	w = doRequest(router, http.MethodDelete, "/api/v1/trades/"+id+"?confirm=true", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.manager.History())
}

func TestUpdateTradeEndpointUnknownID(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"customer_name": "동해수산", "cart": [{"id": 1, "name": "광어", "unit": "kg", "price": 1000, "weight": 2}]}`
	w := doRequest(router, http.MethodPut, "/api/v1/trades/no-such-trade", body)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartEndpoints(t *testing.T) {
	router, f := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/cart/items", `{"name": "광어", "unit": "kg", "price": 1000}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// Same product again merges instead of adding a row.
	w = doRequest(router, http.MethodPost, "/api/v1/cart/items", `{"name": "광어", "unit": "kg", "price": 1000}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, f.manager.Cart(), 1)

	itemID := f.manager.Cart()[0].ID
	w = doRequest(router, http.MethodPatch, fmt.Sprintf("/api/v1/cart/items/%d", itemID),
		`{"field": "weight", "value": "3.5"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3.5, f.manager.Cart()[0].Weight)

	w = doRequest(router, http.MethodGet, "/api/v1/cart/total", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sub_total":3500`)
	assert.Contains(t, w.Body.String(), `"commission":280`)
	assert.Contains(t, w.Body.String(), `"total_amount":3780`)
}

func TestCartItemUpdateRejectsUnknownField(t *testing.T) {
	router, f := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/cart/items", `{"name": "광어", "unit": "kg", "price": 1000}`)
	require.Equal(t, http.StatusCreated, w.Code)
	itemID := f.manager.Cart()[0].ID

	w = doRequest(router, http.MethodPatch, fmt.Sprintf("/api/v1/cart/items/%d", itemID),
		`{"field": "name", "value": "도미"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "광어", f.manager.Cart()[0].Name)
}

func TestReceiptEndpoint(t *testing.T) {
	router, f := newTestRouter(t)

	w := doRequest(router, http.MethodPut, "/api/v1/shop", `{"name": "민수수산", "owner": "김민수"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := `{
		"customer_name": "동해수산",
		"date": "2026-08-05",
		"cart": [{"id": 1, "name": "광어", "unit": "kg", "price": 1000, "weight": 2}]
	}`
	w = doRequest(router, http.MethodPost, "/api/v1/trades", body)
	require.Equal(t, http.StatusCreated, w.Code)
	id := f.manager.History()[0].ID

	w = doRequest(router, http.MethodGet, "/api/v1/trades/"+id+"/receipt", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "거 래 명 세 서")
	assert.Contains(t, w.Body.String(), "2026 년 8 월 5 일")
	assert.Contains(t, w.Body.String(), "민수수산")

	w = doRequest(router, http.MethodGet, "/api/v1/trades/unknown/receipt", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
