package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ArchivedOrder is the raw vendor payload for one synced order, kept in its
// original shape for re-import and debugging. Normalized purchase rows live
// in PostgreSQL; this collection is write-mostly.
type ArchivedOrder struct {
	UserID        uint      `bson:"user_id" json:"user_id"`
	IntegrationID uint      `bson:"integration_id" json:"integration_id"`
	Platform      string    `bson:"platform" json:"platform"`
	OrderID       string    `bson:"order_id" json:"order_id"`
	Payload       string    `bson:"payload" json:"payload"` // vendor JSON, verbatim
	FetchedAt     time.Time `bson:"fetched_at" json:"fetched_at"`
}

// OrderArchiveRepository defines the interface for the raw order archive
type OrderArchiveRepository interface {
	Archive(ctx context.Context, order *ArchivedOrder) error
	GetByOrder(ctx context.Context, userID uint, platform, orderID string) (*ArchivedOrder, error)
	ListByIntegration(ctx context.Context, integrationID uint, limit int64) ([]ArchivedOrder, error)
}

// MongoOrderArchiveRepository implements OrderArchiveRepository for MongoDB
type MongoOrderArchiveRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderArchiveRepository(db *mongo.Database) *MongoOrderArchiveRepository {
	return &MongoOrderArchiveRepository{collection: db.Collection("order_archive")}
}

// Archive upserts by (user, platform, order) so repeated syncs keep one
// document per order with the latest payload.
func (r *MongoOrderArchiveRepository) Archive(ctx context.Context, order *ArchivedOrder) error {
	filter := bson.M{
		"user_id":  order.UserID,
		"platform": order.Platform,
		"order_id": order.OrderID,
	}
	update := bson.M{"$set": order}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *MongoOrderArchiveRepository) GetByOrder(ctx context.Context, userID uint, platform, orderID string) (*ArchivedOrder, error) {
	var order ArchivedOrder
	err := r.collection.FindOne(ctx, bson.M{
		"user_id":  userID,
		"platform": platform,
		"order_id": orderID,
	}).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MongoOrderArchiveRepository) ListByIntegration(ctx context.Context, integrationID uint, limit int64) ([]ArchivedOrder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fetched_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, bson.M{"integration_id": integrationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []ArchivedOrder
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
