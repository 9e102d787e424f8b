package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/modernmember/member-directory/internal/core/domain"
)

const memberCollection = "members"

// MemberRepository is the MongoDB-backed identity store.
type MemberRepository struct {
	coll *mongo.Collection
}

func NewMemberRepository(db *mongo.Database) *MemberRepository {
	return &MemberRepository{coll: db.Collection(memberCollection)}
}

type memberDoc struct {
	ID                string `bson:"_id"`
	Name              string `bson:"name"`
	Handle            string `bson:"handle"`
	Email             string `bson:"email"`
	Phone             string `bson:"phone"`
	PasswordHash      string `bson:"password_hash"`
	Role              string `bson:"role"`
	TokenVersion      int    `bson:"token_version"`
	PasswordTemporary bool   `bson:"password_temporary"`
	CreatedAt         int64  `bson:"created_at"`
	UpdatedAt         int64  `bson:"updated_at"`
	CreatedBy         string `bson:"created_by,omitempty"`
	UpdatedBy         string `bson:"updated_by,omitempty"`
}

// EnsureIndexes creates the unique indexes backing handle/email/phone
// uniqueness plus the role index used by listings and the admin count.
func (r *MemberRepository) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "handle", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create member indexes: %w", err)
	}
	return nil
}

func (r *MemberRepository) FindByID(ctx context.Context, id string) (*domain.Member, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MemberRepository) FindByHandle(ctx context.Context, handle string) (*domain.Member, error) {
	return r.findOne(ctx, bson.M{"handle": handle})
}

func (r *MemberRepository) findOne(ctx context.Context, filter bson.M) (*domain.Member, error) {
	var doc memberDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	return toDomain(&doc), nil
}

func (r *MemberRepository) FindAll(ctx context.Context) ([]domain.Member, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *MemberRepository) FindByRoleNot(ctx context.Context, role domain.Role) ([]domain.Member, error) {
	return r.findMany(ctx, bson.M{"role": bson.M{"$ne": string(role)}})
}

func (r *MemberRepository) findMany(ctx context.Context, filter bson.M) ([]domain.Member, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "handle", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer cur.Close(ctx)

	var members []domain.Member
	for cur.Next(ctx) {
		var doc memberDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode member: %w", err)
		}
		members = append(members, *toDomain(&doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

func (r *MemberRepository) ExistsByHandle(ctx context.Context, handle string) (bool, error) {
	return r.exists(ctx, bson.M{"handle": handle})
}

func (r *MemberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

func (r *MemberRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, bson.M{"phone": phone})
}

func (r *MemberRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count members: %w", err)
	}
	return n > 0, nil
}

func (r *MemberRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"role": string(role)})
	if err != nil {
		return 0, fmt.Errorf("count by role: %w", err)
	}
	return n, nil
}

func (r *MemberRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return n, nil
}

// Save upserts the member keyed on its id. Duplicate-key errors on the
// unique indexes are translated into the field-specific conflict sentinels
// as a backstop behind the explicit existence checks.
func (r *MemberRepository) Save(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	doc := toDoc(member)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKeyConflict(err)
		}
		return nil, fmt.Errorf("save member: %w", err)
	}
	return r.FindByID(ctx, doc.ID)
}

func (r *MemberRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

// duplicateKeyConflict inspects which unique index tripped so that the
// conflict is reported on the right field.
func duplicateKeyConflict(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "handle"):
		return domain.ErrHandleTaken
	case strings.Contains(msg, "email"):
		return domain.ErrEmailTaken
	case strings.Contains(msg, "phone"):
		return domain.ErrPhoneTaken
	default:
		return domain.ErrHandleTaken
	}
}

func toDoc(m *domain.Member) *memberDoc {
	return &memberDoc{
		ID:                m.ID,
		Name:              m.Name,
		Handle:            m.Handle,
		Email:             m.Email,
		Phone:             m.Phone,
		PasswordHash:      m.PasswordHash,
		Role:              string(m.Role),
		TokenVersion:      m.TokenVersion,
		PasswordTemporary: m.PasswordTemporary,
		CreatedAt:         m.CreatedAt.Unix(),
		UpdatedAt:         m.UpdatedAt.Unix(),
		CreatedBy:         m.CreatedBy,
		UpdatedBy:         m.UpdatedBy,
	}
}

func toDomain(doc *memberDoc) *domain.Member {
	return &domain.Member{
		ID:                doc.ID,
		Name:              doc.Name,
		Handle:            doc.Handle,
		Email:             doc.Email,
		Phone:             doc.Phone,
		PasswordHash:      doc.PasswordHash,
		Role:              domain.Role(doc.Role),
		TokenVersion:      doc.TokenVersion,
		PasswordTemporary: doc.PasswordTemporary,
		CreatedAt:         unixToTime(doc.CreatedAt),
		UpdatedAt:         unixToTime(doc.UpdatedAt),
		CreatedBy:         doc.CreatedBy,
		UpdatedBy:         doc.UpdatedBy,
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
