package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agrolease/agrolease-backend/internal/entity"
	"github.com/agrolease/agrolease-backend/internal/port/repository"
)

// ListingMongoRepository backs both listing kinds; the KindSpec passed to
// every call selects the collection.
type ListingMongoRepository struct {
	db *mongo.Database
}

func NewListingMongoRepository(client *mongo.Client, dbName string) *ListingMongoRepository {
	return &ListingMongoRepository{db: client.Database(dbName)}
}

type coordinatesDocument struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

type locationDocument struct {
	LGA         string               `bson:"lga"`
	Area        string               `bson:"area"`
	Coordinates *coordinatesDocument `bson:"coordinates,omitempty"`
}

type imageDocument struct {
	ID         string    `bson:"_id"`
	URL        string    `bson:"url"`
	ObjectKey  string    `bson:"object_key"`
	UploadedAt time.Time `bson:"uploaded_at"`
}

type listingDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Kind        string             `bson:"kind"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Location    locationDocument   `bson:"location"`
	Price       float64            `bson:"price"`
	Images      []imageDocument    `bson:"images"`
	OwnerID     string             `bson:"owner_id"`
	IsAvailable bool               `bson:"is_available"`

	SizeAcres     float64  `bson:"size,omitempty"`
	LeaseDuration string   `bson:"lease_duration,omitempty"`
	Amenities     []string `bson:"amenities,omitempty"`

	Category     string `bson:"category,omitempty"`
	Condition    string `bson:"condition,omitempty"`
	RentalPeriod string `bson:"rental_period,omitempty"`
	Brand        string `bson:"brand,omitempty"`
	Model        string `bson:"model,omitempty"`
	Year         int    `bson:"year,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toListingDocument(l *entity.Listing) (*listingDocument, error) {
	doc := &listingDocument{
		Kind:        string(l.Kind),
		Title:       l.Title,
		Description: l.Description,
		Location: locationDocument{
			LGA:  l.Location.LGA,
			Area: l.Location.Area,
		},
		Price:         l.Price,
		Images:        make([]imageDocument, 0, len(l.Images)),
		OwnerID:       l.OwnerID,
		IsAvailable:   l.IsAvailable,
		SizeAcres:     l.SizeAcres,
		LeaseDuration: string(l.LeaseDuration),
		Amenities:     l.Amenities,
		Category:      string(l.Category),
		Condition:     string(l.Condition),
		RentalPeriod:  string(l.RentalPeriod),
		Brand:         l.Brand,
		Model:         l.Model,
		Year:          l.Year,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
	if l.Location.Coordinates != nil {
		doc.Location.Coordinates = &coordinatesDocument{
			Lat: l.Location.Coordinates.Lat,
			Lng: l.Location.Coordinates.Lng,
		}
	}
	for _, img := range l.Images {
		doc.Images = append(doc.Images, imageDocument{
			ID:         img.ID,
			URL:        img.URL,
			ObjectKey:  img.ObjectKey,
			UploadedAt: img.UploadedAt,
		})
	}
	if l.ID != "" {
		objID, err := primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid listing ID format: %w", err)
		}
		doc.ID = objID
	}
	return doc, nil
}

func toListingEntity(doc *listingDocument) *entity.Listing {
	l := &entity.Listing{
		ID:          doc.ID.Hex(),
		Kind:        entity.ListingKind(doc.Kind),
		Title:       doc.Title,
		Description: doc.Description,
		Location: entity.Location{
			LGA:  doc.Location.LGA,
			Area: doc.Location.Area,
		},
		Price:         doc.Price,
		Images:        make([]entity.Image, 0, len(doc.Images)),
		OwnerID:       doc.OwnerID,
		IsAvailable:   doc.IsAvailable,
		SizeAcres:     doc.SizeAcres,
		LeaseDuration: entity.LeaseDuration(doc.LeaseDuration),
		Amenities:     doc.Amenities,
		Category:      entity.EquipmentCategory(doc.Category),
		Condition:     entity.EquipmentCondition(doc.Condition),
		RentalPeriod:  entity.RentalPeriod(doc.RentalPeriod),
		Brand:         doc.Brand,
		Model:         doc.Model,
		Year:          doc.Year,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
	if doc.Location.Coordinates != nil {
		l.Location.Coordinates = &entity.Coordinates{
			Lat: doc.Location.Coordinates.Lat,
			Lng: doc.Location.Coordinates.Lng,
		}
	}
	for _, img := range doc.Images {
		l.Images = append(l.Images, entity.Image{
			ID:         img.ID,
			URL:        img.URL,
			ObjectKey:  img.ObjectKey,
			UploadedAt: img.UploadedAt,
		})
	}
	return l
}

// buildListingFilter translates the structured predicate into a mongo
// filter document. The lga filter is a case-insensitive substring match;
// range bounds are inclusive.
func buildListingFilter(query repository.ListQuery) bson.M {
	filter := bson.M{}
	if query.Available != nil {
		filter["is_available"] = *query.Available
	}
	if query.LGA != "" {
		filter["location.lga"] = bson.M{"$regex": query.LGA, "$options": "i"}
	}
	if query.MinPrice != nil || query.MaxPrice != nil {
		price := bson.M{}
		if query.MinPrice != nil {
			price["$gte"] = *query.MinPrice
		}
		if query.MaxPrice != nil {
			price["$lte"] = *query.MaxPrice
		}
		filter["price"] = price
	}
	if query.MinSize != nil || query.MaxSize != nil {
		size := bson.M{}
		if query.MinSize != nil {
			size["$gte"] = *query.MinSize
		}
		if query.MaxSize != nil {
			size["$lte"] = *query.MaxSize
		}
		filter["size"] = size
	}
	if query.Category != "" {
		filter["category"] = string(query.Category)
	}
	if query.Condition != "" {
		filter["condition"] = string(query.Condition)
	}
	if query.OwnerID != "" {
		filter["owner_id"] = query.OwnerID
	}
	return filter
}

func (r *ListingMongoRepository) collection(spec entity.KindSpec) *mongo.Collection {
	return r.db.Collection(spec.Collection)
}

// buildListingUpdate sets the shared fields plus only the fields the kind
// owns, so a land update never materializes equipment fields on the document
// (or vice versa).
func buildListingUpdate(spec entity.KindSpec, doc *listingDocument) bson.M {
	set := bson.M{
		"title":        doc.Title,
		"description":  doc.Description,
		"location":     doc.Location,
		"price":        doc.Price,
		"images":       doc.Images,
		"is_available": doc.IsAvailable,
		"updated_at":   doc.UpdatedAt,
	}
	switch spec.Kind {
	case entity.KindLand:
		set["size"] = doc.SizeAcres
		set["lease_duration"] = doc.LeaseDuration
		set["amenities"] = doc.Amenities
	case entity.KindEquipment:
		set["category"] = doc.Category
		set["condition"] = doc.Condition
		set["rental_period"] = doc.RentalPeriod
		set["brand"] = doc.Brand
		set["model"] = doc.Model
		set["year"] = doc.Year
	}
	return bson.M{"$set": set}
}

func (r *ListingMongoRepository) Insert(ctx context.Context, spec entity.KindSpec, listing *entity.Listing) (string, error) {
	doc, err := toListingDocument(listing)
	if err != nil {
		return "", err
	}

	res, err := r.collection(spec).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to insert %s listing: %w", spec.Kind, err)
	}
	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted_id to ObjectID")
	}
	return insertedID.Hex(), nil
}

func (r *ListingMongoRepository) FindByID(ctx context.Context, spec entity.KindSpec, id string) (*entity.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var doc listingDocument
	err = r.collection(spec).FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s listing by id: %w", spec.Kind, err)
	}
	return toListingEntity(&doc), nil
}

func (r *ListingMongoRepository) Find(ctx context.Context, spec entity.KindSpec, query repository.ListQuery) ([]*entity.Listing, int64, error) {
	filter := buildListingFilter(query)

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if query.Limit > 0 {
		findOptions.SetSkip(int64(query.Offset()))
		findOptions.SetLimit(int64(query.Limit))
	}

	cursor, err := r.collection(spec).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find %s listings: %w", spec.Kind, err)
	}
	defer cursor.Close(ctx)

	var docs []listingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s listings: %w", spec.Kind, err)
	}

	listings := make([]*entity.Listing, len(docs))
	for i := range docs {
		listings[i] = toListingEntity(&docs[i])
	}

	total, err := r.collection(spec).CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count %s listings: %w", spec.Kind, err)
	}
	return listings, total, nil
}

func (r *ListingMongoRepository) Update(ctx context.Context, spec entity.KindSpec, listing *entity.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return fmt.Errorf("listing ID is required for update")
	}

	res, err := r.collection(spec).UpdateOne(ctx, bson.M{"_id": doc.ID}, buildListingUpdate(spec, doc))
	if err != nil {
		return fmt.Errorf("failed to update %s listing: %w", spec.Kind, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ListingMongoRepository) Delete(ctx context.Context, spec entity.KindSpec, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	res, err := r.collection(spec).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete %s listing: %w", spec.Kind, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ListingMongoRepository) Count(ctx context.Context, spec entity.KindSpec) (int64, error) {
	total, err := r.collection(spec).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s listings: %w", spec.Kind, err)
	}
	return total, nil
}
