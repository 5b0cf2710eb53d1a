package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"speaks/internal/domain"
)

// Connect opens a MongoDB client and verifies the connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	client, err := mongo.Connect(pingCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// auditLogDoc is the stored shape of an audit log entry. Details is kept as
// a raw document so moderation context stays free-form.
type auditLogDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	AdminID    string             `bson:"admin_id"`
	Action     string             `bson:"action"`
	TargetID   string             `bson:"target_id"`
	TargetType string             `bson:"target_type"`
	Details    bson.M             `bson:"details"`
	CreatedAt  time.Time          `bson:"created_at"`
}

type auditLogRepository struct {
	coll *mongo.Collection
}

func NewAuditLogRepository(client *mongo.Client, database string) domain.AuditLogRepository {
	return &auditLogRepository{
		coll: client.Database(database).Collection("admin_logs"),
	}
}

func (r *auditLogRepository) Insert(ctx context.Context, entry *domain.AuditLog) error {
	doc := auditLogDoc{
		AdminID:    entry.AdminID,
		Action:     entry.Action,
		TargetID:   entry.TargetID,
		TargetType: entry.TargetType,
		Details:    bson.M(entry.Details),
		CreatedAt:  entry.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid.Hex()
	}
	return nil
}

func (r *auditLogRepository) ListRecent(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find audit logs: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]*domain.AuditLog, 0)
	for cursor.Next(ctx) {
		var doc auditLogDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode audit log: %w", err)
		}
		entries = append(entries, &domain.AuditLog{
			ID:         doc.ID.Hex(),
			AdminID:    doc.AdminID,
			Action:     doc.Action,
			TargetID:   doc.TargetID,
			TargetType: doc.TargetType,
			Details:    map[string]any(doc.Details),
			CreatedAt:  doc.CreatedAt,
		})
	}
	return entries, cursor.Err()
}
