// internal/tests/api_test.go
package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/humbleetrees/storefront-backend/internal/config"
	"github.com/humbleetrees/storefront-backend/internal/i18n"
	"github.com/humbleetrees/storefront-backend/internal/router"
	"github.com/humbleetrees/storefront-backend/internal/services"
	"github.com/humbleetrees/storefront-backend/internal/store"
)

type APITestSuite struct {
	suite.Suite
	store     *store.Store
	router    *gin.Engine
	telemetry *services.TelemetryService
}

func (suite *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		Checkout: config.CheckoutConfig{
			Currency:       "INR",
			PaymentLatency: 0,
		},
		Telemetry: config.TelemetryConfig{
			TickInterval:  5 * time.Millisecond,
			ReadingWindow: 24,
		},
		Frontend: config.FrontendConfig{BaseURL: "http://localhost:5173"},
	}

	require.NoError(suite.T(), i18n.Initialize("../i18n/locales"))

	suite.store = store.New()
	require.NoError(suite.T(), store.Seed(suite.store, cfg.Telemetry.ReadingWindow))

	suite.router, suite.telemetry = router.Initialize(suite.store, cfg)
}

func (suite *APITestSuite) TearDownTest() {
	suite.telemetry.StopAll()
}

func (suite *APITestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(suite.T(), err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) login(email, password string) string {
	w := suite.request("POST", "/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(suite.T(), resp.Data.Token)
	return resp.Data.Token
}

func (suite *APITestSuite) TestHealthCheck() {
	w := suite.request("GET", "/health", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "healthy")
}

func (suite *APITestSuite) TestLoginWithSeededAccounts() {
	suite.login("john@example.com", "GrowMushrooms1!")
	suite.login("nanda@humbleetrees.in", "GrowMushrooms1!")
	suite.login("admin@humbleetrees.in", "GrowMushrooms1!")
}

func (suite *APITestSuite) TestLoginUnknownEmailIsRejected() {
	w := suite.request("POST", "/v1/auth/login", "", map[string]string{
		"email":    "ghost@example.com",
		"password": "GrowMushrooms1!",
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestCatalogIsPublic() {
	w := suite.request("GET", "/v1/products", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(suite.T(), resp.Data, 5)
}

func (suite *APITestSuite) TestGuestCartUsesSessionHeader() {
	productID := store.SeedProductID(1).String()

	body, _ := json.Marshal(map[string]string{"product_id": productID})
	req, _ := http.NewRequest("POST", "/v1/cart/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())
	sessionID := w.Header().Get("X-Session-Id")
	require.NotEmpty(suite.T(), sessionID)

	// The same session header sees the same cart.
	req, _ = http.NewRequest("GET", "/v1/cart", nil)
	req.Header.Set("X-Session-Id", sessionID)
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), productID)

	// A different session sees an empty cart.
	req, _ = http.NewRequest("GET", "/v1/cart", nil)
	req.Header.Set("X-Session-Id", "some-other-session")
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.NotContains(suite.T(), w.Body.String(), productID)
}

func (suite *APITestSuite) TestSetQuantityZeroGetsQuantityError() {
	token := suite.login("john@example.com", "GrowMushrooms1!")
	productID := store.SeedProductID(1).String()

	w := suite.request("POST", "/v1/cart/items", token, map[string]string{
		"product_id": productID,
	})
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	// An explicit zero reaches the quantity check instead of dying in
	// request binding.
	w = suite.request("PUT", "/v1/cart/items/"+productID, token, map[string]int{
		"quantity": 0,
	})
	require.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "Quantity must be at least 1")
}

func (suite *APITestSuite) TestFullCheckoutFlow() {
	token := suite.login("john@example.com", "GrowMushrooms1!")

	w := suite.request("POST", "/v1/cart/items", token, map[string]string{
		"product_id": store.SeedProductID(1).String(),
	})
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	w = suite.request("POST", "/v1/checkout/address", token, map[string]string{
		"address_id": store.SeedCustomerAddressID.String(),
	})
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	w = suite.request("GET", "/v1/checkout/review", token, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	w = suite.request("POST", "/v1/checkout/submit", token, map[string]string{
		"payment_method": "cod",
		"request_token":  "api-test-token-1",
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Order struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"order"`
		} `json:"data"`
	}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), "placed", resp.Data.Order.Status)

	// The order shows up in the buyer's history and tracking view.
	w = suite.request("GET", "/v1/orders/"+resp.Data.Order.ID, token, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "progress_index")

	// The cart is empty after checkout.
	w = suite.request("GET", "/v1/cart", token, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.NotContains(suite.T(), w.Body.String(), store.SeedProductID(1).String())
}

func (suite *APITestSuite) TestCheckoutRequiresOrderedSteps() {
	token := suite.login("john@example.com", "GrowMushrooms1!")

	w := suite.request("POST", "/v1/cart/items", token, map[string]string{
		"product_id": store.SeedProductID(1).String(),
	})
	require.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.request("POST", "/v1/checkout/submit", token, map[string]string{
		"payment_method": "cod",
		"request_token":  "api-test-token-2",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestOrdersRequireAuth() {
	w := suite.request("GET", "/v1/orders", "", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestFarmerRoutesAreRoleGated() {
	customer := suite.login("john@example.com", "GrowMushrooms1!")
	w := suite.request("GET", "/v1/farmer/batches", customer, nil)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	farmer := suite.login("nanda@humbleetrees.in", "GrowMushrooms1!")
	w = suite.request("GET", "/v1/farmer/batches", farmer, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "B-101")

	w = suite.request("GET", "/v1/farmer/dashboard", farmer, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "total_orders")
}

func (suite *APITestSuite) TestBatchMonitorOverHTTP() {
	farmer := suite.login("nanda@humbleetrees.in", "GrowMushrooms1!")

	w := suite.request("POST", "/v1/farmer/batches/B-101/monitor/start", farmer, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	// Starting twice conflicts.
	w = suite.request("POST", "/v1/farmer/batches/B-101/monitor/start", farmer, nil)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	w = suite.request("GET", "/v1/farmer/batches/B-101/readings", farmer, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `"monitoring":true`)

	w = suite.request("POST", "/v1/farmer/batches/B-101/monitor/stop", farmer, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *APITestSuite) TestAdminRoutesAreRoleGated() {
	farmer := suite.login("nanda@humbleetrees.in", "GrowMushrooms1!")
	w := suite.request("GET", "/v1/admin/dashboard", farmer, nil)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	admin := suite.login("admin@humbleetrees.in", "GrowMushrooms1!")
	w = suite.request("GET", "/v1/admin/dashboard", admin, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "total_users")
}

func (suite *APITestSuite) TestProductApprovalFlow() {
	farmer := suite.login("nanda@humbleetrees.in", "GrowMushrooms1!")

	w := suite.request("POST", "/v1/products", farmer, map[string]interface{}{
		"name":        "Pink Oyster Grow Kit",
		"category":    "Grow Kits",
		"description": "A fast colonizing pink oyster kit for warm climates.",
		"price":       549,
		"stock":       12,
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data struct {
			Product struct {
				ID         string `json:"id"`
				IsApproved bool   `json:"is_approved"`
			} `json:"product"`
		} `json:"data"`
	}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &created))
	assert.False(suite.T(), created.Data.Product.IsApproved)

	admin := suite.login("admin@humbleetrees.in", "GrowMushrooms1!")
	w = suite.request("GET", "/v1/admin/products/pending", admin, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), created.Data.Product.ID)

	path := fmt.Sprintf("/v1/admin/products/%s/approval", created.Data.Product.ID)
	w = suite.request("PUT", path, admin, map[string]bool{"approved": true})
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	// The approved product is now publicly visible.
	w = suite.request("GET", "/v1/products/"+created.Data.Product.ID, "", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `"is_approved":true`)
}

func (suite *APITestSuite) TestUnknownOrderIsNotFound() {
	token := suite.login("john@example.com", "GrowMushrooms1!")
	w := suite.request("GET", "/v1/orders/ORD-00000", token, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
