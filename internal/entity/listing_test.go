package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLand() *Listing {
	return &Listing{
		Kind:        KindLand,
		Title:       "Fertile farmland near Bauchi town",
		Description: "5 acres of irrigated farmland",
		Location:    Location{LGA: "Bauchi", Area: "Yelwa"},
		Price:       150000,
		OwnerID:     "owner-1",
		SizeAcres:   5,
	}
}

func validEquipment() *Listing {
	return &Listing{
		Kind:         KindEquipment,
		Title:        "John Deere tractor for rent",
		Description:  "Well maintained 75hp tractor",
		Location:     Location{LGA: "Katagum", Area: "Azare"},
		Price:        25000,
		OwnerID:      "owner-2",
		Category:     CategoryTractor,
		Condition:    ConditionGood,
		RentalPeriod: RentalDaily,
		Brand:        "John Deere",
		Model:        "5075E",
		Year:         2020,
	}
}

func TestSpecFor(t *testing.T) {
	spec, ok := SpecFor(KindLand)
	require.True(t, ok)
	assert.Equal(t, "lands", spec.Collection)
	assert.True(t, spec.HasSizeFilter)
	assert.False(t, spec.HasCategoryFilter)

	spec, ok = SpecFor(KindEquipment)
	require.True(t, ok)
	assert.Equal(t, "equipment", spec.Collection)
	assert.False(t, spec.HasSizeFilter)
	assert.True(t, spec.HasCategoryFilter)

	_, ok = SpecFor(ListingKind("vehicle"))
	assert.False(t, ok)
}

func TestLandValidate(t *testing.T) {
	l := validLand()
	LandSpec.ApplyDefaults(l)
	require.NoError(t, l.Validate(LandSpec))
	assert.Equal(t, LeaseShortTerm, l.LeaseDuration)

	tests := []struct {
		name   string
		mutate func(*Listing)
	}{
		{"missing title", func(l *Listing) { l.Title = "" }},
		{"missing description", func(l *Listing) { l.Description = "" }},
		{"negative price", func(l *Listing) { l.Price = -1 }},
		{"missing owner", func(l *Listing) { l.OwnerID = "" }},
		{"unknown lga", func(l *Listing) { l.Location.LGA = "Kano" }},
		{"missing area", func(l *Listing) { l.Location.Area = "" }},
		{"zero size", func(l *Listing) { l.SizeAcres = 0 }},
		{"bad lease duration", func(l *Listing) { l.LeaseDuration = "forever" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validLand()
			LandSpec.ApplyDefaults(l)
			tt.mutate(l)
			assert.Error(t, l.Validate(LandSpec))
		})
	}
}

func TestEquipmentValidate(t *testing.T) {
	e := validEquipment()
	require.NoError(t, e.Validate(EquipmentSpec))

	tests := []struct {
		name   string
		mutate func(*Listing)
	}{
		{"bad category", func(l *Listing) { l.Category = "drone" }},
		{"bad condition", func(l *Listing) { l.Condition = "broken" }},
		{"bad rental period", func(l *Listing) { l.RentalPeriod = "yearly" }},
		{"missing brand", func(l *Listing) { l.Brand = "" }},
		{"missing model", func(l *Listing) { l.Model = "" }},
		{"missing year", func(l *Listing) { l.Year = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEquipment()
			tt.mutate(e)
			assert.Error(t, e.Validate(EquipmentSpec))
		})
	}
}

func TestEquipmentDefaults(t *testing.T) {
	e := validEquipment()
	e.Condition = ""
	e.RentalPeriod = ""
	EquipmentSpec.ApplyDefaults(e)
	assert.Equal(t, ConditionGood, e.Condition)
	assert.Equal(t, RentalDaily, e.RentalPeriod)
}

func TestRemoveImagePreservesOrder(t *testing.T) {
	l := validLand()
	l.Images = []Image{
		{ID: "a", ObjectKey: "k-a"},
		{ID: "b", ObjectKey: "k-b"},
		{ID: "c", ObjectKey: "k-c"},
	}

	require.True(t, l.RemoveImage("b"))
	require.Len(t, l.Images, 2)
	assert.Equal(t, "a", l.Images[0].ID)
	assert.Equal(t, "c", l.Images[1].ID)

	assert.False(t, l.RemoveImage("b"))
	assert.Len(t, l.Images, 2)
}

func TestImageByID(t *testing.T) {
	l := validLand()
	l.Images = []Image{{ID: "a"}, {ID: "b"}}

	img := l.ImageByID("b")
	require.NotNil(t, img)
	assert.Equal(t, "b", img.ID)
	assert.Nil(t, l.ImageByID("missing"))
}

func TestObjectKeys(t *testing.T) {
	l := validLand()
	l.Images = []Image{{ID: "a", ObjectKey: "k-a"}, {ID: "b", ObjectKey: "k-b"}}
	assert.Equal(t, []string{"k-a", "k-b"}, l.ObjectKeys())
}

func TestIsValidLGA(t *testing.T) {
	assert.True(t, IsValidLGA("Bauchi"))
	assert.True(t, IsValidLGA("Itas/Gadau"))
	assert.False(t, IsValidLGA("bauchi"))
	assert.False(t, IsValidLGA("Kano"))
}
