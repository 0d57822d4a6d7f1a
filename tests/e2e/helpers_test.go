//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres"
	auditrepo "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres/audit"
	destructionrepo "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres/destruction"
	harvestrepo "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres/harvest"
	inventoryrepo "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres/inventory"
	inventorytyperepo "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres/inventorytype"
	plantrepo "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres/plant"
	roomrepo "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres/room"
	roommoverepo "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres/roommove"
	"github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres/testhelper"
	authpkg "github.com/verdantlabs/seedtrace-backend/internal/auth"
	"github.com/verdantlabs/seedtrace-backend/internal/domain"
	"github.com/verdantlabs/seedtrace-backend/internal/service/conversion"
	"github.com/verdantlabs/seedtrace-backend/internal/service/lifecycle"
	"github.com/verdantlabs/seedtrace-backend/internal/transport/middleware"
	"github.com/verdantlabs/seedtrace-backend/internal/transport/rest"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	jwt    *authpkg.JWTManager
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// newTestServer assembles the full stack against the shared test database
// and serves it via httptest.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	txManager := postgres.NewTxManager(pool)

	plants := plantrepo.New(pool)
	inventory := inventoryrepo.New(pool)
	types := inventorytyperepo.New(pool)
	harvests := harvestrepo.New(pool)
	destructions := destructionrepo.New(pool)
	moves := roommoverepo.New(pool)
	rooms := roomrepo.New(pool)
	audit := auditrepo.New(pool)

	lifecycleSvc := lifecycle.NewService(
		logger, plants, inventory, types, harvests, destructions, moves, rooms, audit, txManager,
		lifecycle.Config{BarcodeRetries: 3, MaxOffspringPerBatch: 1000},
	)
	conversionSvc := conversion.NewService(
		logger, inventory, types, rooms, audit, txManager,
		conversion.Config{BarcodeRetries: 3, MaxListLimit: 200},
	)

	jwtManager := authpkg.NewJWTManager(
		"e2e-test-secret-at-least-32-characters",
		"seedtrace-test",
		time.Hour,
	)

	lifecycleHandler := rest.NewLifecycleHandler(lifecycleSvc, logger)
	conversionHandler := rest.NewConversionHandler(conversionSvc, logger)
	auditHandler := rest.NewAuditHandler(audit, logger)
	destructionHandler := rest.NewDestructionHandler(destructions, logger)
	roomMoveHandler := rest.NewRoomMoveHandler(moves, logger)
	typeHandler := rest.NewInventoryTypeHandler(types, logger)
	healthHandler := rest.NewHealthHandler(pool, "test-version")

	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", healthHandler.Live)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /health", healthHandler.Health)

	api := http.NewServeMux()
	api.HandleFunc("POST /plants", lifecycleHandler.CreatePlant)
	api.HandleFunc("GET /plants/{id}", lifecycleHandler.GetPlant)
	api.HandleFunc("PATCH /plants/{id}", lifecycleHandler.UpdatePlant)
	api.HandleFunc("DELETE /plants/{id}", lifecycleHandler.DeletePlant)
	api.HandleFunc("GET /plants/{id}/history", lifecycleHandler.PlantHistory)
	api.HandleFunc("GET /plants/{id}/moves", roomMoveHandler.ListByPlant)
	api.HandleFunc("POST /plants/{id}/mother", lifecycleHandler.ConvertToMother)
	api.HandleFunc("POST /plants/{id}/clones", lifecycleHandler.GenerateClones)
	api.HandleFunc("POST /plants/{id}/seeds", lifecycleHandler.GenerateSeeds)
	api.HandleFunc("POST /plants/{id}/harvests", lifecycleHandler.CreateHarvest)
	api.HandleFunc("POST /harvests/{id}/cures", lifecycleHandler.CreateCure)
	api.HandleFunc("POST /room-moves", lifecycleHandler.CreateRoomMove)
	api.HandleFunc("POST /destructions", lifecycleHandler.CreateDestruction)
	api.HandleFunc("GET /destructions", destructionHandler.List)
	api.HandleFunc("POST /operations/undo", lifecycleHandler.UndoOperation)
	api.HandleFunc("POST /conversions/wet-to-dry", conversionHandler.WetToDry)
	api.HandleFunc("POST /conversions/dry-to-extraction", conversionHandler.DryToExtraction)
	api.HandleFunc("POST /conversions/extraction-to-finished-goods", conversionHandler.ExtractionToFinishedGoods)
	api.HandleFunc("GET /conversions", conversionHandler.ListConversions)
	api.HandleFunc("GET /conversions/{itemId}", conversionHandler.GetConversion)
	api.HandleFunc("GET /inventory-types", typeHandler.List)
	api.HandleFunc("DELETE /inventory-types/{id}", typeHandler.Deactivate)
	api.HandleFunc("GET /audit", auditHandler.List)
	api.HandleFunc("GET /audit/{entityType}/{entityId}", auditHandler.EntityHistory)

	mux.Handle("/", middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Auth(jwtManager),
	)(api))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		jwt:    jwtManager,
	}
}

// token issues a signed access token for the given identity.
func (ts *testServer) token(t *testing.T, userID, locationID uuid.UUID, role string) string {
	t.Helper()
	tok, err := ts.jwt.GenerateAccessToken(authpkg.Identity{
		UserID:     userID,
		LocationID: locationID,
		Role:       role,
	})
	require.NoError(t, err)
	return tok
}

// ---------------------------------------------------------------------------
// HTTP helpers.
// ---------------------------------------------------------------------------

// doJSON sends a JSON request and decodes the JSON response body into a map.
// A nil body sends no payload.
func (ts *testServer) doJSON(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &result), "body: %s", raw)
	}

	return resp.StatusCode, result
}

// doJSONList sends a GET request to an endpoint that returns a JSON array.
func (ts *testServer) doJSONList(t *testing.T, path, token string) (int, []any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result []any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &result), "body: %s", raw)
	}

	return resp.StatusCode, result
}

// fieldStr extracts a string field from a decoded JSON object, failing the
// test when absent.
func fieldStr(t *testing.T, obj map[string]any, field string) string {
	t.Helper()
	v, ok := obj[field].(string)
	require.True(t, ok, "expected string field %q in %v", field, obj)
	return v
}

// fieldNum extracts a numeric field from a decoded JSON object.
func fieldNum(t *testing.T, obj map[string]any, field string) float64 {
	t.Helper()
	v, ok := obj[field].(float64)
	require.True(t, ok, "expected numeric field %q in %v", field, obj)
	return v
}

// fieldList extracts an array field from a decoded JSON object.
func fieldList(t *testing.T, obj map[string]any, field string) []any {
	t.Helper()
	v, ok := obj[field].([]any)
	require.True(t, ok, "expected array field %q in %v", field, obj)
	return v
}

// seedOperator creates a location, an operator user and two rooms, and
// returns them with a signed token.
type testTenant struct {
	Location domain.Location
	User     domain.User
	RoomA    domain.Room
	RoomB    domain.Room
	Token    string
}

func seedTenant(t *testing.T, ts *testServer, role string) testTenant {
	t.Helper()

	loc := testhelper.SeedLocation(t, ts.Pool)
	user := testhelper.SeedUser(t, ts.Pool)
	roomA := testhelper.SeedRoom(t, ts.Pool, loc.ID)
	roomB := testhelper.SeedRoom(t, ts.Pool, loc.ID)

	return testTenant{
		Location: loc,
		User:     user,
		RoomA:    roomA,
		RoomB:    roomB,
		Token:    ts.token(t, user.ID, loc.ID, role),
	}
}
