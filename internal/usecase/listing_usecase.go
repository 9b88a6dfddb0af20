package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrolease/agrolease-backend/internal/entity"
	"github.com/agrolease/agrolease-backend/internal/port/cache"
	"github.com/agrolease/agrolease-backend/internal/port/repository"
	"github.com/agrolease/agrolease-backend/internal/port/storage"
)

type EventPublisher interface {
	PublishListingCreated(ctx context.Context, listing *entity.Listing) error
	PublishListingUpdated(ctx context.Context, listing *entity.Listing) error
	PublishListingDeleted(ctx context.Context, kind entity.ListingKind, listingID string) error
}

type ListingUseCase struct {
	repo      repository.ListingRepository
	media     storage.MediaStorage
	events    EventPublisher
	cacheRepo cache.CacheRepository
	logger    *zap.Logger
}

func NewListingUseCase(
	repo repository.ListingRepository,
	media storage.MediaStorage,
	events EventPublisher,
	cacheRepo cache.CacheRepository,
	logger *zap.Logger,
) *ListingUseCase {
	return &ListingUseCase{
		repo:      repo,
		media:     media,
		events:    events,
		cacheRepo: cacheRepo,
		logger:    logger,
	}
}

func listingCacheKey(kind entity.ListingKind, id string) string {
	return fmt.Sprintf("listing:%s:%s", kind, id)
}

const listingCacheTTL = 5 * time.Minute

// listingCacheEntry is the cached form of a listing. The API JSON shape
// drops the per-image media handles, so they are carried alongside, indexed
// to Images, and reattached on read.
type listingCacheEntry struct {
	Listing    *entity.Listing `json:"listing"`
	ObjectKeys []string        `json:"objectKeys"`
}

func (e *listingCacheEntry) restore() *entity.Listing {
	if e.Listing == nil || len(e.ObjectKeys) != len(e.Listing.Images) {
		return nil
	}
	for i := range e.Listing.Images {
		e.Listing.Images[i].ObjectKey = e.ObjectKeys[i]
	}
	return e.Listing
}

type ListOutput struct {
	Items       []*entity.Listing `json:"items"`
	Total       int64             `json:"total"`
	TotalPages  int64             `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
}

// List runs a browse query built by the filter builder and wraps the result
// with the pagination metadata the API reports.
func (uc *ListingUseCase) List(ctx context.Context, spec entity.KindSpec, query repository.ListQuery) (*ListOutput, error) {
	items, total, err := uc.repo.Find(ctx, spec, query)
	if err != nil {
		uc.logger.Error("Failed to list listings", zap.String("kind", string(spec.Kind)), zap.Error(err))
		return nil, fmt.Errorf("ListingUseCase.List: %w", err)
	}
	return &ListOutput{
		Items:       items,
		Total:       total,
		TotalPages:  TotalPages(total, query.Limit),
		CurrentPage: query.Page,
	}, nil
}

// ListMine returns every listing owned by the actor, newest first, including
// unavailable ones.
func (uc *ListingUseCase) ListMine(ctx context.Context, spec entity.KindSpec, actor Actor) ([]*entity.Listing, error) {
	items, _, err := uc.repo.Find(ctx, spec, repository.ListQuery{OwnerID: actor.ID, Page: 1})
	if err != nil {
		uc.logger.Error("Failed to list own listings",
			zap.String("kind", string(spec.Kind)), zap.String("owner_id", actor.ID), zap.Error(err))
		return nil, fmt.Errorf("ListingUseCase.ListMine: %w", err)
	}
	return items, nil
}

func (uc *ListingUseCase) Get(ctx context.Context, spec entity.KindSpec, id string) (*entity.Listing, error) {
	if uc.cacheRepo != nil {
		key := listingCacheKey(spec.Kind, id)
		cachedBytes, err := uc.cacheRepo.Get(ctx, key)
		if err == nil {
			var entry listingCacheEntry
			if unmarshalErr := json.Unmarshal(cachedBytes, &entry); unmarshalErr == nil {
				if cached := entry.restore(); cached != nil {
					uc.logger.Debug("Listing fetched from cache", zap.String("key", key))
					return cached, nil
				}
			}
			if delErr := uc.cacheRepo.Delete(ctx, key); delErr != nil {
				uc.logger.Warn("Failed to delete corrupted cache entry", zap.String("key", key), zap.Error(delErr))
			}
		} else if !errors.Is(err, cache.ErrNotFound) {
			uc.logger.Warn("Cache lookup failed", zap.String("key", key), zap.Error(err))
		}
	}

	listing, err := uc.repo.FindByID(ctx, spec, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, spec.Kind)
		}
		uc.logger.Error("Failed to get listing", zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("ListingUseCase.Get: %w", err)
	}
	uc.cacheListing(ctx, spec, listing)
	return listing, nil
}

// Create persists a new listing owned by the actor. uploads are media assets
// already stored by the media host for this request; if persistence fails,
// every one of them is deleted again (best-effort) before the original error
// is returned.
func (uc *ListingUseCase) Create(ctx context.Context, spec entity.KindSpec, actor Actor, listing *entity.Listing, uploads []storage.UploadResult) (*entity.Listing, error) {
	if !CanCreate(actor) {
		uc.cleanupUploads(ctx, uploads)
		return nil, fmt.Errorf("%w: role %s cannot create listings", ErrForbidden, actor.Role)
	}

	now := time.Now()
	listing.Kind = spec.Kind
	listing.OwnerID = actor.ID
	listing.IsAvailable = true
	listing.Images = attachImages(nil, uploads, now)
	listing.CreatedAt = now
	listing.UpdatedAt = now
	spec.ApplyDefaults(listing)

	if err := listing.Validate(spec); err != nil {
		uc.cleanupUploads(ctx, uploads)
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	id, err := uc.repo.Insert(ctx, spec, listing)
	if err != nil {
		uc.logger.Error("Failed to insert listing",
			zap.String("kind", string(spec.Kind)), zap.String("owner_id", actor.ID), zap.Error(err))
		uc.cleanupUploads(ctx, uploads)
		return nil, fmt.Errorf("ListingUseCase.Create: %w", err)
	}
	listing.ID = id

	uc.cacheListing(ctx, spec, listing)
	if uc.events != nil {
		if pubErr := uc.events.PublishListingCreated(ctx, listing); pubErr != nil {
			uc.logger.Warn("Failed to publish listing created event",
				zap.String("listing_id", listing.ID), zap.Error(pubErr))
		}
	}
	return listing, nil
}

// UpdateListingInput carries the client-supplied field changes for an
// update. Nil fields are left untouched.
type UpdateListingInput struct {
	Title       *string
	Description *string
	Price       *float64
	LGA         *string
	Area        *string
	Coordinates *entity.Coordinates
	IsAvailable *bool
	Amenities   []string

	SizeAcres     *float64
	LeaseDuration *entity.LeaseDuration

	Category     *entity.EquipmentCategory
	Condition    *entity.EquipmentCondition
	RentalPeriod *entity.RentalPeriod
	Brand        *string
	Model        *string
	Year         *int
}

func (in UpdateListingInput) apply(l *entity.Listing) {
	if in.Title != nil {
		l.Title = *in.Title
	}
	if in.Description != nil {
		l.Description = *in.Description
	}
	if in.Price != nil {
		l.Price = *in.Price
	}
	if in.LGA != nil {
		l.Location.LGA = *in.LGA
	}
	if in.Area != nil {
		l.Location.Area = *in.Area
	}
	if in.Coordinates != nil {
		l.Location.Coordinates = in.Coordinates
	}
	if in.IsAvailable != nil {
		l.IsAvailable = *in.IsAvailable
	}
	if in.Amenities != nil {
		l.Amenities = in.Amenities
	}
	if in.SizeAcres != nil {
		l.SizeAcres = *in.SizeAcres
	}
	if in.LeaseDuration != nil {
		l.LeaseDuration = *in.LeaseDuration
	}
	if in.Category != nil {
		l.Category = *in.Category
	}
	if in.Condition != nil {
		l.Condition = *in.Condition
	}
	if in.RentalPeriod != nil {
		l.RentalPeriod = *in.RentalPeriod
	}
	if in.Brand != nil {
		l.Brand = *in.Brand
	}
	if in.Model != nil {
		l.Model = *in.Model
	}
	if in.Year != nil {
		l.Year = *in.Year
	}
}

// Update loads the listing, checks the access policy, appends newly uploaded
// media to the existing image sequence, applies the field changes and
// persists with validation re-run on the merged document. New uploads are
// compensated on any failure past the policy check.
func (uc *ListingUseCase) Update(ctx context.Context, spec entity.KindSpec, actor Actor, id string, input UpdateListingInput, uploads []storage.UploadResult) (*entity.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, spec, id)
	if err != nil {
		uc.cleanupUploads(ctx, uploads)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, spec.Kind)
		}
		uc.logger.Error("Failed to load listing for update", zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("ListingUseCase.Update: %w", err)
	}
	if !CanMutate(actor, listing) {
		uc.cleanupUploads(ctx, uploads)
		uc.logger.Warn("Forbidden listing update",
			zap.String("listing_id", id), zap.String("owner_id", listing.OwnerID), zap.String("actor_id", actor.ID))
		return nil, ErrForbidden
	}

	listing.Images = attachImages(listing.Images, uploads, time.Now())
	input.apply(listing)
	listing.UpdatedAt = time.Now()

	if err := listing.Validate(spec); err != nil {
		uc.cleanupUploads(ctx, uploads)
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := uc.repo.Update(ctx, spec, listing); err != nil {
		uc.logger.Error("Failed to update listing", zap.String("listing_id", id), zap.Error(err))
		uc.cleanupUploads(ctx, uploads)
		return nil, fmt.Errorf("ListingUseCase.Update: %w", err)
	}

	uc.invalidateCache(ctx, spec, id)
	if uc.events != nil {
		if pubErr := uc.events.PublishListingUpdated(ctx, listing); pubErr != nil {
			uc.logger.Warn("Failed to publish listing updated event",
				zap.String("listing_id", id), zap.Error(pubErr))
		}
	}
	return listing, nil
}

// Delete removes the listing record after attempting to delete all of its
// media assets. Media failures are logged only; the record is deleted
// regardless.
func (uc *ListingUseCase) Delete(ctx context.Context, spec entity.KindSpec, actor Actor, id string) error {
	listing, err := uc.repo.FindByID(ctx, spec, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, spec.Kind)
		}
		uc.logger.Error("Failed to load listing for delete", zap.String("listing_id", id), zap.Error(err))
		return fmt.Errorf("ListingUseCase.Delete: %w", err)
	}
	if !CanMutate(actor, listing) {
		uc.logger.Warn("Forbidden listing delete",
			zap.String("listing_id", id), zap.String("owner_id", listing.OwnerID), zap.String("actor_id", actor.ID))
		return ErrForbidden
	}

	if keys := listing.ObjectKeys(); len(keys) > 0 {
		if delErr := uc.media.DeleteMany(ctx, keys); delErr != nil {
			uc.logger.Warn("Failed to delete some media assets, deleting record anyway",
				zap.String("listing_id", id), zap.Int("asset_count", len(keys)), zap.Error(delErr))
		}
	}

	if err := uc.repo.Delete(ctx, spec, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, spec.Kind)
		}
		uc.logger.Error("Failed to delete listing", zap.String("listing_id", id), zap.Error(err))
		return fmt.Errorf("ListingUseCase.Delete: %w", err)
	}

	uc.invalidateCache(ctx, spec, id)
	if uc.events != nil {
		if pubErr := uc.events.PublishListingDeleted(ctx, spec.Kind, id); pubErr != nil {
			uc.logger.Warn("Failed to publish listing deleted event",
				zap.String("listing_id", id), zap.Error(pubErr))
		}
	}
	return nil
}

// DeleteImage removes a single image entry and its media asset. The asset
// delete is best-effort; the entry is removed from the record either way.
func (uc *ListingUseCase) DeleteImage(ctx context.Context, spec entity.KindSpec, actor Actor, listingID, imageID string) (*entity.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, spec, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, spec.Kind)
		}
		uc.logger.Error("Failed to load listing for image delete", zap.String("listing_id", listingID), zap.Error(err))
		return nil, fmt.Errorf("ListingUseCase.DeleteImage: %w", err)
	}
	if !CanMutate(actor, listing) {
		uc.logger.Warn("Forbidden image delete",
			zap.String("listing_id", listingID), zap.String("owner_id", listing.OwnerID), zap.String("actor_id", actor.ID))
		return nil, ErrForbidden
	}

	image := listing.ImageByID(imageID)
	if image == nil {
		return nil, fmt.Errorf("%w: image", ErrNotFound)
	}

	if delErr := uc.media.Delete(ctx, image.ObjectKey); delErr != nil {
		uc.logger.Warn("Failed to delete media asset, removing entry anyway",
			zap.String("listing_id", listingID), zap.String("object_key", image.ObjectKey), zap.Error(delErr))
	}

	listing.RemoveImage(imageID)
	listing.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, spec, listing); err != nil {
		uc.logger.Error("Failed to persist listing after image delete",
			zap.String("listing_id", listingID), zap.Error(err))
		return nil, fmt.Errorf("ListingUseCase.DeleteImage: %w", err)
	}

	uc.invalidateCache(ctx, spec, listingID)
	return listing, nil
}

// SetAvailability toggles the isAvailable flag under the usual mutation
// policy.
func (uc *ListingUseCase) SetAvailability(ctx context.Context, spec entity.KindSpec, actor Actor, id string, available bool) (*entity.Listing, error) {
	return uc.Update(ctx, spec, actor, id, UpdateListingInput{IsAvailable: &available}, nil)
}

// attachImages appends one image entry per upload, preserving the order of
// both the existing sequence and the uploads.
func attachImages(existing []entity.Image, uploads []storage.UploadResult, now time.Time) []entity.Image {
	images := existing
	for _, up := range uploads {
		images = append(images, entity.Image{
			ID:         uuid.New().String(),
			URL:        up.URL,
			ObjectKey:  up.ObjectKey,
			UploadedAt: now,
		})
	}
	return images
}

// cleanupUploads compensates a failed create/update by deleting the media
// assets uploaded for that call. Failures are logged, never surfaced; the
// caller returns its original error.
func (uc *ListingUseCase) cleanupUploads(ctx context.Context, uploads []storage.UploadResult) {
	if len(uploads) == 0 {
		return
	}
	keys := make([]string, 0, len(uploads))
	for _, up := range uploads {
		keys = append(keys, up.ObjectKey)
	}
	if err := uc.media.DeleteMany(ctx, keys); err != nil {
		uc.logger.Warn("Failed to clean up uploaded media after error",
			zap.Strings("object_keys", keys), zap.Error(err))
	}
}

func (uc *ListingUseCase) cacheListing(ctx context.Context, spec entity.KindSpec, listing *entity.Listing) {
	if uc.cacheRepo == nil || listing == nil {
		return
	}
	data, err := json.Marshal(listingCacheEntry{Listing: listing, ObjectKeys: listing.ObjectKeys()})
	if err != nil {
		uc.logger.Warn("Failed to marshal listing for caching", zap.String("listing_id", listing.ID), zap.Error(err))
		return
	}
	key := listingCacheKey(spec.Kind, listing.ID)
	if err := uc.cacheRepo.Set(ctx, key, data, listingCacheTTL); err != nil {
		uc.logger.Warn("Failed to set listing in cache", zap.String("key", key), zap.Error(err))
	}
}

func (uc *ListingUseCase) invalidateCache(ctx context.Context, spec entity.KindSpec, id string) {
	if uc.cacheRepo == nil {
		return
	}
	key := listingCacheKey(spec.Kind, id)
	if err := uc.cacheRepo.Delete(ctx, key); err != nil {
		uc.logger.Warn("Failed to invalidate listing cache", zap.String("key", key), zap.Error(err))
	}
}
