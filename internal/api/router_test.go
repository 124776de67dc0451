package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhunter5/Backend/internal/auth"
	"github.com/jhunter5/Backend/internal/cache"
	"github.com/jhunter5/Backend/internal/config"
	"github.com/jhunter5/Backend/internal/services"
)

// offlineDB returns a database handle whose client never reaches a server.
// Routes exercised with it must fail before any query is sent.
func offlineDB(t *testing.T) *mongo.Database {
	t.Helper()
	client, err := mongo.Connect(context.Background(), options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(50*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client.Database("router_test")
}

func testRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		JwtSecret:           "router-secret",
		RequestTimeout:      time.Second,
		RateLimitBucketSize: 100,
		RateLimitRefillRate: 100,
		ImageMaxSizeMB:      1,
		UploadConcurrency:   1,
		LockTTL:             time.Second,
	}
	r, _ := SetupRouter(cfg, Dependencies{
		DB:     offlineDB(t),
		Queue:  services.NoopJobQueue{},
		Locker: cache.NewLocalLocker(),
	})
	return r
}

func serve(r http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetupRouter_Ping(t *testing.T) {
	w := serve(testRouter(t), http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestSetupRouter_UnknownEndpoint(t *testing.T) {
	r := testRouter(t)
	for _, path := range []string{"/api/nothing", "/", "/api/property/available/extra/segments"} {
		w := serve(r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.JSONEq(t, `{"error":"Endpoint not found"}`, w.Body.String(), path)
	}
}

func TestSetupRouter_RoleManagementNeedsAdminToken(t *testing.T) {
	r := testRouter(t)

	w := serve(r, http.MethodGet, "/api/auth/roles", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := auth.GenerateJWT("auth0|tenant", []string{"Tenant"}, "router-secret", time.Hour)
	require.NoError(t, err)
	w = serve(r, http.MethodPost, "/api/auth/assignRole", `{"userId":"auth0|x","role":"Tenant"}`, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSetupRouter_ValidationBeforeStorage(t *testing.T) {
	r := testRouter(t)

	w := serve(r, http.MethodPost, "/api/tenant", `{"firstName":"Ana"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"errors"`)

	w = serve(r, http.MethodGet, "/api/property/not-an-id", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid id format"}`, w.Body.String())

	w = serve(r, http.MethodPost, "/api/contract", `not json`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
