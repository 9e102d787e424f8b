package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/modernmember/member-directory/internal/core/domain"
)

const auditCollection = "audit_events"

// AuditRepository persists the append-only security audit trail.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	ID         string `bson:"_id"`
	SubjectID  string `bson:"subject_id"`
	Actor      string `bson:"actor"`
	Action     string `bson:"action"`
	Detail     string `bson:"detail,omitempty"`
	OccurredAt int64  `bson:"occurred_at"`
}

// EnsureIndexes creates the subject lookup index.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "subject_id", Value: 1}, {Key: "occurred_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create audit indexes: %w", err)
	}
	return nil
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	doc := auditDoc{
		ID:         event.ID,
		SubjectID:  event.SubjectID,
		Actor:      event.Actor,
		Action:     string(event.Action),
		Detail:     event.Detail,
		OccurredAt: event.OccurredAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (r *AuditRepository) FindBySubject(ctx context.Context, subjectID string, limit int64) ([]domain.AuditEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := r.coll.Find(ctx, bson.M{"subject_id": subjectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find audit events: %w", err)
	}
	defer cur.Close(ctx)

	var events []domain.AuditEvent
	for cur.Next(ctx) {
		var doc auditDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode audit event: %w", err)
		}
		events = append(events, domain.AuditEvent{
			ID:         doc.ID,
			SubjectID:  doc.SubjectID,
			Actor:      doc.Actor,
			Action:     domain.AuditAction(doc.Action),
			Detail:     doc.Detail,
			OccurredAt: time.Unix(doc.OccurredAt, 0).UTC(),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
