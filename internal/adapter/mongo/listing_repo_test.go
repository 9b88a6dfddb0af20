package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/agrolease/agrolease-backend/internal/entity"
	"github.com/agrolease/agrolease-backend/internal/port/repository"
)

func floatPtr(v float64) *float64 { return &v }

func TestBuildListingFilterEmpty(t *testing.T) {
	assert.Equal(t, bson.M{}, buildListingFilter(repository.ListQuery{}))
}

func TestBuildListingFilterAvailability(t *testing.T) {
	available := true
	filter := buildListingFilter(repository.ListQuery{Available: &available})
	assert.Equal(t, bson.M{"is_available": true}, filter)

	unavailable := false
	filter = buildListingFilter(repository.ListQuery{Available: &unavailable})
	assert.Equal(t, bson.M{"is_available": false}, filter)
}

func TestBuildListingFilterLGARegex(t *testing.T) {
	filter := buildListingFilter(repository.ListQuery{LGA: "bau"})
	assert.Equal(t, bson.M{"location.lga": bson.M{"$regex": "bau", "$options": "i"}}, filter)
}

func TestBuildListingFilterPriceRange(t *testing.T) {
	filter := buildListingFilter(repository.ListQuery{MinPrice: floatPtr(1000), MaxPrice: floatPtr(5000)})
	assert.Equal(t, bson.M{"price": bson.M{"$gte": 1000.0, "$lte": 5000.0}}, filter)

	filter = buildListingFilter(repository.ListQuery{MinPrice: floatPtr(1000)})
	assert.Equal(t, bson.M{"price": bson.M{"$gte": 1000.0}}, filter)
}

func TestBuildListingFilterSizeRange(t *testing.T) {
	filter := buildListingFilter(repository.ListQuery{MinSize: floatPtr(2), MaxSize: floatPtr(10)})
	assert.Equal(t, bson.M{"size": bson.M{"$gte": 2.0, "$lte": 10.0}}, filter)
}

func TestBuildListingFilterEquipmentFields(t *testing.T) {
	filter := buildListingFilter(repository.ListQuery{
		Category:  entity.CategoryTractor,
		Condition: entity.ConditionGood,
	})
	assert.Equal(t, bson.M{"category": "tractor", "condition": "good"}, filter)
}

func TestBuildListingFilterOwner(t *testing.T) {
	filter := buildListingFilter(repository.ListQuery{OwnerID: "owner-1"})
	assert.Equal(t, bson.M{"owner_id": "owner-1"}, filter)
}

func TestBuildListingUpdateScopesFieldsToKind(t *testing.T) {
	doc := &listingDocument{
		Title:         "Fertile farmland near Bauchi town",
		Price:         150000,
		SizeAcres:     5,
		LeaseDuration: "short_term",
		Amenities:     []string{"water"},
		Category:      "tractor",
		Brand:         "John Deere",
		Year:          2020,
	}

	landSet := buildListingUpdate(entity.LandSpec, doc)["$set"].(bson.M)
	for _, key := range []string{"title", "price", "images", "is_available", "updated_at", "size", "lease_duration", "amenities"} {
		assert.Contains(t, landSet, key)
	}
	for _, key := range []string{"category", "condition", "rental_period", "brand", "model", "year"} {
		assert.NotContains(t, landSet, key)
	}

	equipmentSet := buildListingUpdate(entity.EquipmentSpec, doc)["$set"].(bson.M)
	for _, key := range []string{"category", "condition", "rental_period", "brand", "model", "year"} {
		assert.Contains(t, equipmentSet, key)
	}
	for _, key := range []string{"size", "lease_duration", "amenities"} {
		assert.NotContains(t, equipmentSet, key)
	}
}

func TestListingDocumentRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Millisecond)
	l := &entity.Listing{
		Kind:        entity.KindEquipment,
		Title:       "John Deere tractor for rent",
		Description: "Well maintained 75hp tractor",
		Location: entity.Location{
			LGA:         "Katagum",
			Area:        "Azare",
			Coordinates: &entity.Coordinates{Lat: 11.67, Lng: 10.19},
		},
		Price: 25000,
		Images: []entity.Image{
			{ID: "img-1", URL: "http://cdn/1.jpg", ObjectKey: "listings/1.jpg", UploadedAt: now},
		},
		OwnerID:      "owner-1",
		IsAvailable:  true,
		Category:     entity.CategoryTractor,
		Condition:    entity.ConditionGood,
		RentalPeriod: entity.RentalDaily,
		Brand:        "John Deere",
		Model:        "5075E",
		Year:         2020,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	doc, err := toListingDocument(l)
	require.NoError(t, err)
	got := toListingEntity(doc)

	// The document has no hex ID yet; the round trip assigns the zero hex.
	got.ID = ""
	assert.Equal(t, l, got)
}

func TestToListingDocumentRejectsBadID(t *testing.T) {
	l := &entity.Listing{ID: "not-a-hex-id"}
	_, err := toListingDocument(l)
	assert.Error(t, err)
}
