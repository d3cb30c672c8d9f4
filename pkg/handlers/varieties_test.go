package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/89lafa/awesomegardener-sub003/pkg/apperrors"
	"github.com/89lafa/awesomegardener-sub003/pkg/models"
)

// mockRedirectResolver is a mock implementation of services.RedirectResolver.
type mockRedirectResolver struct {
	varieties map[uuid.UUID]*models.Variety
}

func (m *mockRedirectResolver) Resolve(ctx context.Context, id uuid.UUID) (*models.Variety, error) {
	v, ok := m.varieties[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return v, nil
}

func newVarietiesMux(resolver *mockRedirectResolver) *http.ServeMux {
	mux := http.NewServeMux()
	NewVarietiesHandler(resolver, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func getVariety(mux *http.ServeMux, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/varieties/"+id, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestVarietiesHandler_Get(t *testing.T) {
	v := &models.Variety{ID: uuid.New(), VarietyName: "Shishito", Status: models.VarietyStatusActive}
	mux := newVarietiesMux(&mockRedirectResolver{varieties: map[uuid.UUID]*models.Variety{v.ID: v}})

	rec := getVariety(mux, v.ID.String())
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool            `json:"success"`
		Data    VarietyResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, v.ID, resp.Data.Variety.ID)
	assert.False(t, resp.Data.Redirected)
}

func TestVarietiesHandler_GetRedirected(t *testing.T) {
	canonical := &models.Variety{ID: uuid.New(), VarietyName: "Shishito", Status: models.VarietyStatusActive}
	removedID := uuid.New()
	// The resolver already followed the pointer; the handler just reports it.
	mux := newVarietiesMux(&mockRedirectResolver{varieties: map[uuid.UUID]*models.Variety{
		removedID: canonical,
	}})

	rec := getVariety(mux, removedID.String())
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data VarietyResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, canonical.ID, resp.Data.Variety.ID)
	assert.True(t, resp.Data.Redirected)
}

func TestVarietiesHandler_GetNotFound(t *testing.T) {
	mux := newVarietiesMux(&mockRedirectResolver{varieties: map[uuid.UUID]*models.Variety{}})

	rec := getVariety(mux, uuid.New().String())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVarietiesHandler_GetBadID(t *testing.T) {
	mux := newVarietiesMux(&mockRedirectResolver{})

	rec := getVariety(mux, "not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
