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
	"go.uber.org/zap"

	"github.com/agrolease/agrolease-backend/internal/entity"
	"github.com/agrolease/agrolease-backend/internal/port/repository"
)

const userCollectionName = "users"

type UserMongoRepository struct {
	db     *mongo.Database
	logger *zap.Logger
}

// NewUserMongoRepository ensures the unique email index on construction;
// index creation is idempotent.
func NewUserMongoRepository(client *mongo.Client, dbName string, logger *zap.Logger) *UserMongoRepository {
	db := client.Database(dbName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := db.Collection(userCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Warn("Failed to create unique email index (may already exist)", zap.Error(err))
	}

	return &UserMongoRepository{db: db, logger: logger}
}

type addressDocument struct {
	Street string `bson:"street,omitempty"`
	LGA    string `bson:"lga,omitempty"`
	Area   string `bson:"area,omitempty"`
}

type userDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	Password   string             `bson:"password"`
	Role       string             `bson:"role"`
	Phone      string             `bson:"phone"`
	Address    *addressDocument   `bson:"address,omitempty"`
	IsVerified bool               `bson:"is_verified"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func toUserDocument(u *entity.User) (*userDocument, error) {
	doc := &userDocument{
		Name:       u.Name,
		Email:      u.Email,
		Password:   u.Password,
		Role:       string(u.Role),
		Phone:      u.Phone,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
	if u.Address != nil {
		doc.Address = &addressDocument{
			Street: u.Address.Street,
			LGA:    u.Address.LGA,
			Area:   u.Address.Area,
		}
	}
	if u.ID != "" {
		objID, err := primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID format: %w", err)
		}
		doc.ID = objID
	}
	return doc, nil
}

func toUserEntity(doc *userDocument) *entity.User {
	u := &entity.User{
		ID:         doc.ID.Hex(),
		Name:       doc.Name,
		Email:      doc.Email,
		Password:   doc.Password,
		Role:       entity.Role(doc.Role),
		Phone:      doc.Phone,
		IsVerified: doc.IsVerified,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
	if doc.Address != nil {
		u.Address = &entity.Address{
			Street: doc.Address.Street,
			LGA:    doc.Address.LGA,
			Area:   doc.Address.Area,
		}
	}
	return u
}

func (r *UserMongoRepository) Create(ctx context.Context, user *entity.User) (string, error) {
	doc, err := toUserDocument(user)
	if err != nil {
		return "", err
	}

	res, err := r.db.Collection(userCollectionName).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrDuplicateEmail
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted_id to ObjectID")
	}
	return insertedID.Hex(), nil
}

func (r *UserMongoRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var doc userDocument
	err = r.db.Collection(userCollectionName).FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return toUserEntity(&doc), nil
}

func (r *UserMongoRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var doc userDocument
	err := r.db.Collection(userCollectionName).FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return toUserEntity(&doc), nil
}

func (r *UserMongoRepository) Update(ctx context.Context, user *entity.User) error {
	doc, err := toUserDocument(user)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return fmt.Errorf("user ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"name":       doc.Name,
			"phone":      doc.Phone,
			"address":    doc.Address,
			"updated_at": doc.UpdatedAt,
		},
	}
	res, err := r.db.Collection(userCollectionName).UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserMongoRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	res, err := r.db.Collection(userCollectionName).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserMongoRepository) List(ctx context.Context, role entity.Role, page, limit int) ([]*entity.User, int64, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = string(role)
	}

	findOptions := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(userCollectionName).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]*entity.User, len(docs))
	for i := range docs {
		users[i] = toUserEntity(&docs[i])
	}

	total, err := r.db.Collection(userCollectionName).CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	return users, total, nil
}

func (r *UserMongoRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.db.Collection(userCollectionName).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}

func (r *UserMongoRepository) CountByRole(ctx context.Context, role entity.Role) (int64, error) {
	total, err := r.db.Collection(userCollectionName).CountDocuments(ctx, bson.M{"role": string(role)})
	if err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return total, nil
}
