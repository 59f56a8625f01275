package auditRepo

import (
	"context"
	"fmt"
	"time"

	"servana/database"
	"servana/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuditRepository is a write-only sink for audit records.
type AuditRepository interface {
	Log(ctx context.Context, entry models.AuditEntry) error
}

// MongoAuditRepo implements AuditRepository on MongoDB.
type MongoAuditRepo struct {
	coll *mongo.Collection
}

func NewMongoAuditRepo() *MongoAuditRepo {
	return &MongoAuditRepo{coll: database.Collection("audit_logs")}
}

func (r *MongoAuditRepo) Log(ctx context.Context, entry models.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}
