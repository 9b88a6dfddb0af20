package usecase

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrolease/agrolease-backend/internal/entity"
)

func TestBuildListQueryDefaults(t *testing.T) {
	query, err := BuildListQuery(entity.LandSpec, url.Values{})
	require.NoError(t, err)

	assert.Equal(t, 1, query.Page)
	assert.Equal(t, 10, query.Limit)
	require.NotNil(t, query.Available)
	assert.True(t, *query.Available)
	assert.Nil(t, query.MinPrice)
	assert.Nil(t, query.MaxPrice)
}

func TestBuildListQueryForcesAvailability(t *testing.T) {
	params := url.Values{"isAvailable": {"false"}}
	query, err := BuildListQuery(entity.LandSpec, params)
	require.NoError(t, err)

	// The public surface never exposes unavailable listings, whatever the
	// client sends.
	require.NotNil(t, query.Available)
	assert.True(t, *query.Available)
}

func TestBuildListQueryRanges(t *testing.T) {
	params := url.Values{
		"lga":      {"bau"},
		"minPrice": {"1000"},
		"maxPrice": {"5000"},
		"minSize":  {"2"},
		"maxSize":  {"10.5"},
		"page":     {"3"},
		"limit":    {"20"},
	}
	query, err := BuildListQuery(entity.LandSpec, params)
	require.NoError(t, err)

	assert.Equal(t, "bau", query.LGA)
	assert.Equal(t, 1000.0, *query.MinPrice)
	assert.Equal(t, 5000.0, *query.MaxPrice)
	assert.Equal(t, 2.0, *query.MinSize)
	assert.Equal(t, 10.5, *query.MaxSize)
	assert.Equal(t, 3, query.Page)
	assert.Equal(t, 20, query.Limit)
	assert.Equal(t, 40, query.Offset())
}

func TestBuildListQuerySizeFilterLandOnly(t *testing.T) {
	params := url.Values{"minSize": {"2"}, "category": {"tractor"}}

	landQuery, err := BuildListQuery(entity.LandSpec, params)
	require.NoError(t, err)
	require.NotNil(t, landQuery.MinSize)
	assert.Empty(t, landQuery.Category)

	equipmentQuery, err := BuildListQuery(entity.EquipmentSpec, params)
	require.NoError(t, err)
	assert.Nil(t, equipmentQuery.MinSize)
	assert.Equal(t, entity.CategoryTractor, equipmentQuery.Category)
}

func TestBuildListQueryRejectsMalformedNumbers(t *testing.T) {
	tests := []struct {
		name   string
		params url.Values
	}{
		{"bad minPrice", url.Values{"minPrice": {"cheap"}}},
		{"bad maxPrice", url.Values{"maxPrice": {"12x"}}},
		{"bad minSize", url.Values{"minSize": {"two"}}},
		{"bad page", url.Values{"page": {"first"}}},
		{"zero page", url.Values{"page": {"0"}}},
		{"negative limit", url.Values{"limit": {"-5"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildListQuery(entity.LandSpec, tt.params)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestBuildAdminListQueryAvailabilityOverride(t *testing.T) {
	query, err := BuildAdminListQuery(entity.LandSpec, url.Values{})
	require.NoError(t, err)
	assert.Nil(t, query.Available)

	query, err = BuildAdminListQuery(entity.LandSpec, url.Values{"isAvailable": {"false"}})
	require.NoError(t, err)
	require.NotNil(t, query.Available)
	assert.False(t, *query.Available)

	_, err = BuildAdminListQuery(entity.LandSpec, url.Values{"isAvailable": {"maybe"}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(0), TotalPages(0, 10))
	assert.Equal(t, int64(1), TotalPages(1, 10))
	assert.Equal(t, int64(1), TotalPages(10, 10))
	assert.Equal(t, int64(2), TotalPages(11, 10))
	assert.Equal(t, int64(3), TotalPages(25, 10))
	assert.Equal(t, int64(0), TotalPages(25, 0))
}
