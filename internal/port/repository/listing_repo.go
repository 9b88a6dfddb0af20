package repository

import (
	"context"
	"errors"

	"github.com/agrolease/agrolease-backend/internal/entity"
)

var ErrNotFound = errors.New("not found")

// ListQuery is the structured predicate produced by the filter builder.
// Nil range bounds mean "unbounded on that side"; nil Available means no
// availability restriction (admin queries only).
type ListQuery struct {
	LGA       string
	MinPrice  *float64
	MaxPrice  *float64
	MinSize   *float64
	MaxSize   *float64
	Category  entity.EquipmentCategory
	Condition entity.EquipmentCondition
	OwnerID   string
	Available *bool

	Page  int
	Limit int
}

// Offset is the number of rows skipped before the first returned row.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

type ListingRepository interface {
	Insert(ctx context.Context, spec entity.KindSpec, listing *entity.Listing) (string, error)
	FindByID(ctx context.Context, spec entity.KindSpec, id string) (*entity.Listing, error)
	// Find returns one page of matching listings, newest first, plus the
	// total match count before pagination.
	Find(ctx context.Context, spec entity.KindSpec, query ListQuery) ([]*entity.Listing, int64, error)
	Update(ctx context.Context, spec entity.KindSpec, listing *entity.Listing) error
	Delete(ctx context.Context, spec entity.KindSpec, id string) error
	Count(ctx context.Context, spec entity.KindSpec) (int64, error)
}
