package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hackorsnooze/story-client/internal/core/domain"
	"github.com/hackorsnooze/story-client/internal/core/ports"
)

const sessionCollection = "sessions"

// CredentialStore keeps one document per session scope.
type CredentialStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

func NewCredentialStore(db *mongo.Database) *CredentialStore {
	return &CredentialStore{coll: db.Collection(sessionCollection), now: time.Now}
}

type mongoCredentials struct {
	Scope     string `bson:"_id"`
	Token     string `bson:"token"`
	Username  string `bson:"username"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (s *CredentialStore) Load(ctx context.Context, scope string) (domain.Credentials, error) {
	var doc mongoCredentials
	if err := s.coll.FindOne(ctx, bson.M{"_id": scope}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Credentials{}, domain.ErrNoCredentials
		}
		return domain.Credentials{}, fmt.Errorf("find credentials: %w", err)
	}

	creds := domain.Credentials{Token: doc.Token, Username: doc.Username}
	if !creds.Complete() {
		return domain.Credentials{}, domain.ErrNoCredentials
	}
	return creds, nil
}

func (s *CredentialStore) Save(ctx context.Context, scope string, creds domain.Credentials) error {
	update := bson.M{"$set": bson.M{
		"token":      creds.Token,
		"username":   creds.Username,
		"updated_at": s.now().Unix(),
	}}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": scope}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert credentials: %w", err)
	}
	return nil
}

func (s *CredentialStore) Clear(ctx context.Context, scope string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": scope}); err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}

// Ping reports whether the database answers.
func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.coll.Database().RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}
