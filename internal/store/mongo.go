package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"newswatch/internal/types"
)

// MongoMirror copies newly merged articles into a MongoDB collection after
// each successful persist. The JSON archive remains the source of truth;
// mirror failures are reported to the caller for logging but never abort a
// run.
type MongoMirror struct {
	client     *mongo.Client
	collection *mongo.Collection
	count      int
	logger     *slog.Logger
}

// NewMongoMirror connects to MongoDB and verifies the connection.
func NewMongoMirror(uri, database, collection string, logger *slog.Logger) (*MongoMirror, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoMirror{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger.With("component", "mongo_mirror"),
	}, nil
}

// Insert writes one document per article, tagged with the source name and
// date label.
func (m *MongoMirror) Insert(ctx context.Context, source, dateLabel string, articles []types.Article) error {
	if len(articles) == 0 {
		return nil
	}

	docs := make([]any, len(articles))
	for i, a := range articles {
		docs[i] = struct {
			Source  string        `bson:"source"`
			Date    string        `bson:"date"`
			Article types.Article `bson:",inline"`
		}{Source: source, Date: dateLabel, Article: a}
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := m.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("mongodb insert: %w", err)
	}

	m.count += len(articles)
	m.logger.Debug("articles mirrored", "count", len(articles), "total", m.count)
	return nil
}

// Close disconnects from MongoDB.
func (m *MongoMirror) Close() error {
	m.logger.Info("mongo mirror closing", "total_articles", m.count)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
