package entity

import (
	"errors"
	"fmt"
	"time"
)

// ListingKind selects which marketplace resource a Listing represents.
// Both kinds share one shape; kind-specific fields are validated through
// the KindSpec descriptor.
type ListingKind string

const (
	KindLand      ListingKind = "land"
	KindEquipment ListingKind = "equipment"
)

type LeaseDuration string

const (
	LeaseShortTerm LeaseDuration = "short_term"
	LeaseLongTerm  LeaseDuration = "long_term"
)

type EquipmentCategory string

const (
	CategoryTractor    EquipmentCategory = "tractor"
	CategoryPlow       EquipmentCategory = "plow"
	CategoryHarvester  EquipmentCategory = "harvester"
	CategoryIrrigation EquipmentCategory = "irrigation"
	CategoryTools      EquipmentCategory = "tools"
	CategoryOther      EquipmentCategory = "other"
)

type EquipmentCondition string

const (
	ConditionExcellent EquipmentCondition = "excellent"
	ConditionGood      EquipmentCondition = "good"
	ConditionFair      EquipmentCondition = "fair"
	ConditionPoor      EquipmentCondition = "poor"
)

type RentalPeriod string

const (
	RentalHourly  RentalPeriod = "hourly"
	RentalDaily   RentalPeriod = "daily"
	RentalWeekly  RentalPeriod = "weekly"
	RentalMonthly RentalPeriod = "monthly"
)

// LGAs are the 20 local government areas of Bauchi State. location.lga on
// every listing and user address must be one of these.
var LGAs = []string{
	"Bauchi", "Tafawa Balewa", "Dass", "Torro", "Bogoro", "Ningi", "Warji",
	"Ganjuwa", "Kirfi", "Alkaleri", "Darazo", "Misau", "Giade", "Shira",
	"Jamaare", "Katagum", "Itas/Gadau", "Zaki", "Dambam", "Gamawa",
}

func IsValidLGA(lga string) bool {
	for _, v := range LGAs {
		if v == lga {
			return true
		}
	}
	return false
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Location struct {
	LGA         string       `json:"lga"`
	Area        string       `json:"area"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Image is one uploaded media asset attached to a listing. ObjectKey is the
// opaque handle needed to delete the asset from the media store.
type Image struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	ObjectKey  string    `json:"-"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type Listing struct {
	ID          string      `json:"id"`
	Kind        ListingKind `json:"kind"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Location    Location    `json:"location"`
	Price       float64     `json:"price"`
	Images      []Image     `json:"images"`
	OwnerID     string      `json:"ownerId"`
	IsAvailable bool        `json:"isAvailable"`

	// Land only.
	SizeAcres     float64       `json:"size,omitempty"`
	LeaseDuration LeaseDuration `json:"leaseDuration,omitempty"`
	Amenities     []string      `json:"amenities,omitempty"`

	// Equipment only.
	Category     EquipmentCategory  `json:"category,omitempty"`
	Condition    EquipmentCondition `json:"condition,omitempty"`
	RentalPeriod RentalPeriod       `json:"rentalPeriod,omitempty"`
	Brand        string             `json:"brand,omitempty"`
	Model        string             `json:"model,omitempty"`
	Year         int                `json:"year,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// KindSpec describes what one listing kind requires beyond the shared shape.
// The generic listing usecase and the filter builder are parameterized by it
// instead of being duplicated per kind.
type KindSpec struct {
	Kind ListingKind
	// Collection is the mongo collection backing the kind.
	Collection string
	// HasSizeFilter enables the minSize/maxSize range filter (land).
	HasSizeFilter bool
	// HasCategoryFilter enables category/condition exact filters (equipment).
	HasCategoryFilter bool

	ApplyDefaults func(*Listing)
	ValidateExtra func(*Listing) error
}

var LandSpec = KindSpec{
	Kind:          KindLand,
	Collection:    "lands",
	HasSizeFilter: true,
	ApplyDefaults: func(l *Listing) {
		if l.LeaseDuration == "" {
			l.LeaseDuration = LeaseShortTerm
		}
	},
	ValidateExtra: func(l *Listing) error {
		if l.SizeAcres <= 0 {
			return errors.New("size is required and must be positive")
		}
		switch l.LeaseDuration {
		case LeaseShortTerm, LeaseLongTerm:
		default:
			return fmt.Errorf("invalid lease duration %q", l.LeaseDuration)
		}
		return nil
	},
}

var EquipmentSpec = KindSpec{
	Kind:              KindEquipment,
	Collection:        "equipment",
	HasCategoryFilter: true,
	ApplyDefaults: func(l *Listing) {
		if l.Condition == "" {
			l.Condition = ConditionGood
		}
		if l.RentalPeriod == "" {
			l.RentalPeriod = RentalDaily
		}
	},
	ValidateExtra: func(l *Listing) error {
		switch l.Category {
		case CategoryTractor, CategoryPlow, CategoryHarvester, CategoryIrrigation, CategoryTools, CategoryOther:
		default:
			return fmt.Errorf("invalid category %q", l.Category)
		}
		switch l.Condition {
		case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		default:
			return fmt.Errorf("invalid condition %q", l.Condition)
		}
		switch l.RentalPeriod {
		case RentalHourly, RentalDaily, RentalWeekly, RentalMonthly:
		default:
			return fmt.Errorf("invalid rental period %q", l.RentalPeriod)
		}
		if l.Brand == "" {
			return errors.New("brand is required")
		}
		if l.Model == "" {
			return errors.New("model is required")
		}
		if l.Year <= 0 {
			return errors.New("year is required")
		}
		return nil
	},
}

// SpecFor returns the descriptor for a kind. ok is false for unknown kinds.
func SpecFor(kind ListingKind) (KindSpec, bool) {
	switch kind {
	case KindLand:
		return LandSpec, true
	case KindEquipment:
		return EquipmentSpec, true
	default:
		return KindSpec{}, false
	}
}

// Validate checks the shared shape plus the kind-specific rules. The zero
// time and ID fields are repository concerns and are not validated here.
func (l *Listing) Validate(spec KindSpec) error {
	if l.Title == "" {
		return errors.New("title is required")
	}
	if l.Description == "" {
		return errors.New("description is required")
	}
	if l.Price < 0 {
		return errors.New("price cannot be negative")
	}
	if l.OwnerID == "" {
		return errors.New("owner is required")
	}
	if !IsValidLGA(l.Location.LGA) {
		return fmt.Errorf("invalid lga %q", l.Location.LGA)
	}
	if l.Location.Area == "" {
		return errors.New("location area is required")
	}
	return spec.ValidateExtra(l)
}

// ImageByID returns the image entry with the given id, or nil.
func (l *Listing) ImageByID(imageID string) *Image {
	for i := range l.Images {
		if l.Images[i].ID == imageID {
			return &l.Images[i]
		}
	}
	return nil
}

// RemoveImage drops the entry with the given id, preserving order of the
// rest. It reports whether an entry was removed.
func (l *Listing) RemoveImage(imageID string) bool {
	for i := range l.Images {
		if l.Images[i].ID == imageID {
			l.Images = append(l.Images[:i], l.Images[i+1:]...)
			return true
		}
	}
	return false
}

// ObjectKeys collects the media handles of every attached image.
func (l *Listing) ObjectKeys() []string {
	keys := make([]string, 0, len(l.Images))
	for _, img := range l.Images {
		keys = append(keys, img.ObjectKey)
	}
	return keys
}
