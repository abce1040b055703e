package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/trendboard/internal/models"
	"github.com/ternarybob/trendboard/internal/services/platform"
)

// fakePlatformService is a scriptable PlatformService for handler tests
type fakePlatformService struct {
	rankings     []models.PlatformRanking
	rankingsErr  error
	latest       *models.PlatformStat
	latestErr    error
	lastPlatform string
	lastCountry  string
}

func (f *fakePlatformService) Rankings(ctx context.Context, country, platformName string) ([]models.PlatformRanking, error) {
	f.lastCountry = country
	f.lastPlatform = platformName
	if f.rankingsErr != nil {
		return nil, f.rankingsErr
	}
	return f.rankings, nil
}

func (f *fakePlatformService) Latest(ctx context.Context, platformName, country string) (*models.PlatformStat, error) {
	f.lastPlatform = platformName
	f.lastCountry = country
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	return f.latest, nil
}

func TestRankingsHandler(t *testing.T) {
	service := &fakePlatformService{rankings: []models.PlatformRanking{
		{Platform: "tiktok", Keywords: []models.PlatformKeyword{{Keyword: "cica", Value: 90}}},
	}}
	handler := NewPlatformHandler(service, testBatchConfig(), arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/sns-platform/rankings?platform=tiktok", nil)
	rec := httptest.NewRecorder()
	handler.RankingsHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "usa", service.lastCountry) // default applied
	assert.Equal(t, "tiktok", service.lastPlatform)

	var resp struct {
		Country   string                   `json:"country"`
		Platforms []models.PlatformRanking `json:"platforms"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "usa", resp.Country)
	require.Len(t, resp.Platforms, 1)
	assert.Equal(t, "tiktok", resp.Platforms[0].Platform)
}

func TestLatestHandler(t *testing.T) {
	date := time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		service := &fakePlatformService{latest: &models.PlatformStat{
			ID:       "s1",
			Platform: "tiktok",
			Country:  "usa",
			Date:     date,
			Keywords: []models.PlatformKeyword{{Keyword: "glow", Value: 50}},
		}}
		handler := NewPlatformHandler(service, testBatchConfig(), arbor.NewLogger())

		req := httptest.NewRequest("GET", "/api/sns-platform/tiktok?country=usa", nil)
		rec := httptest.NewRecorder()
		handler.LatestHandler(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "tiktok", service.lastPlatform)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "tiktok", resp["platform"])
		assert.Equal(t, "usa", resp["country"])
	})

	t.Run("unknown platform", func(t *testing.T) {
		service := &fakePlatformService{latestErr: platform.ErrPlatformNotFound}
		handler := NewPlatformHandler(service, testBatchConfig(), arbor.NewLogger())

		req := httptest.NewRequest("GET", "/api/sns-platform/myspace", nil)
		rec := httptest.NewRecorder()
		handler.LatestHandler(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing platform segment", func(t *testing.T) {
		handler := NewPlatformHandler(&fakePlatformService{}, testBatchConfig(), arbor.NewLogger())

		req := httptest.NewRequest("GET", "/api/sns-platform/", nil)
		rec := httptest.NewRecorder()
		handler.LatestHandler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		service := &fakePlatformService{latestErr: assert.AnError}
		handler := NewPlatformHandler(service, testBatchConfig(), arbor.NewLogger())

		req := httptest.NewRequest("GET", "/api/sns-platform/tiktok", nil)
		rec := httptest.NewRecorder()
		handler.LatestHandler(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
