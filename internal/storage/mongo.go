package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	dom "github.com/sumit2409/Zenflow/internal/domain"
)

// MongoStore implements Store against MongoDB, one collection per entity.
// Upserts ride on per-document atomicity, so no application-level locking.
type MongoStore struct {
	client   *mongo.Client
	accounts *mongo.Collection
	logs     *mongo.Collection
	meta     *mongo.Collection
}

type accountDoc struct {
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"password"`
	CreatedAt    time.Time `bson:"created"`
}

type logDoc struct {
	User  string  `bson:"user"`
	Date  string  `bson:"date"`
	Type  string  `bson:"type"`
	Value float64 `bson:"value"`
}

type metaDoc struct {
	User string `bson:"user"`
	Meta bson.M `bson:"meta"`
}

func openMongo(ctx context.Context, uri, dbName string, timeout time.Duration) (*MongoStore, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(dbName)
	s := &MongoStore{
		client:   client,
		accounts: db.Collection("accounts"),
		logs:     db.Collection("logs"),
		meta:     db.Collection("meta"),
	}

	// Username uniqueness is enforced here rather than by a check-then-insert,
	// so concurrent registrations cannot both slip through.
	_, err = s.accounts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo username index: %w", err)
	}
	return s, nil
}

func (s *MongoStore) CreateAccount(ctx context.Context, username, passwordHash string) (dom.Account, error) {
	doc := accountDoc{Username: username, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	_, err := s.accounts.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return dom.Account{}, ErrAccountExists
		}
		return dom.Account{}, fmt.Errorf("insert account: %w", err)
	}
	return dom.Account{Username: doc.Username, PasswordHash: doc.PasswordHash, CreatedAt: doc.CreatedAt}, nil
}

func (s *MongoStore) GetAccount(ctx context.Context, username string) (dom.Account, error) {
	var doc accountDoc
	err := s.accounts.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dom.Account{}, ErrAccountNotFound
		}
		return dom.Account{}, fmt.Errorf("find account: %w", err)
	}
	return dom.Account{Username: doc.Username, PasswordHash: doc.PasswordHash, CreatedAt: doc.CreatedAt}, nil
}

func (s *MongoStore) ListLogs(ctx context.Context, username string) ([]dom.LogEntry, error) {
	cur, err := s.logs.Find(ctx, bson.M{"user": username})
	if err != nil {
		return nil, fmt.Errorf("find logs: %w", err)
	}
	var docs []logDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode logs: %w", err)
	}
	entries := make([]dom.LogEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, dom.LogEntry{Username: d.User, Date: d.Date, Type: d.Type, Value: d.Value})
	}
	return entries, nil
}

func (s *MongoStore) UpsertLog(ctx context.Context, entry dom.LogEntry) error {
	filter := bson.M{"user": entry.Username, "date": entry.Date, "type": entry.Type}
	update := bson.M{"$set": bson.M{"value": entry.Value}}
	_, err := s.logs.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert log: %w", err)
	}
	return nil
}

func (s *MongoStore) GetMeta(ctx context.Context, username string) (map[string]any, error) {
	var doc metaDoc
	err := s.meta.FindOne(ctx, bson.M{"user": username}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("find meta: %w", err)
	}
	if doc.Meta == nil {
		return map[string]any{}, nil
	}
	return doc.Meta, nil
}

func (s *MongoStore) SetMeta(ctx context.Context, username string, meta map[string]any) error {
	if meta == nil {
		meta = map[string]any{}
	}
	filter := bson.M{"user": username}
	update := bson.M{"$set": bson.M{"meta": meta}}
	_, err := s.meta.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert meta: %w", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
