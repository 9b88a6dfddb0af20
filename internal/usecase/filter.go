package usecase

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/agrolease/agrolease-backend/internal/entity"
	"github.com/agrolease/agrolease-backend/internal/port/repository"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// BuildListQuery translates raw query parameters into a structured listing
// predicate plus pagination for the public browse endpoints. Availability is
// always forced to true. Malformed numeric parameters are rejected with
// ErrValidation rather than coerced; the same policy applies to every
// numeric parameter.
func BuildListQuery(spec entity.KindSpec, params url.Values) (repository.ListQuery, error) {
	query, err := buildBaseQuery(spec, params)
	if err != nil {
		return repository.ListQuery{}, err
	}
	available := true
	query.Available = &available
	return query, nil
}

// BuildAdminListQuery is the admin variant: no forced availability, with an
// optional explicit isAvailable override.
func BuildAdminListQuery(spec entity.KindSpec, params url.Values) (repository.ListQuery, error) {
	query, err := buildBaseQuery(spec, params)
	if err != nil {
		return repository.ListQuery{}, err
	}
	if raw := params.Get("isAvailable"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return repository.ListQuery{}, fmt.Errorf("%w: invalid isAvailable %q", ErrValidation, raw)
		}
		query.Available = &available
	}
	return query, nil
}

func buildBaseQuery(spec entity.KindSpec, params url.Values) (repository.ListQuery, error) {
	query := repository.ListQuery{
		LGA:   params.Get("lga"),
		Page:  defaultPage,
		Limit: defaultLimit,
	}

	var err error
	if query.MinPrice, err = floatParam(params, "minPrice"); err != nil {
		return repository.ListQuery{}, err
	}
	if query.MaxPrice, err = floatParam(params, "maxPrice"); err != nil {
		return repository.ListQuery{}, err
	}

	if spec.HasSizeFilter {
		if query.MinSize, err = floatParam(params, "minSize"); err != nil {
			return repository.ListQuery{}, err
		}
		if query.MaxSize, err = floatParam(params, "maxSize"); err != nil {
			return repository.ListQuery{}, err
		}
	}
	if spec.HasCategoryFilter {
		query.Category = entity.EquipmentCategory(params.Get("category"))
		query.Condition = entity.EquipmentCondition(params.Get("condition"))
	}

	if raw := params.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return repository.ListQuery{}, fmt.Errorf("%w: invalid page %q", ErrValidation, raw)
		}
		query.Page = page
	}
	if raw := params.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return repository.ListQuery{}, fmt.Errorf("%w: invalid limit %q", ErrValidation, raw)
		}
		query.Limit = limit
	}

	return query, nil
}

func floatParam(params url.Values, name string) (*float64, error) {
	raw := params.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s %q", ErrValidation, name, raw)
	}
	return &v, nil
}

// TotalPages reports how many pages a result set of total rows spans at the
// given page size.
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
