package publish

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"pagecraft/internal/domain"
)

// mongoTarget implements Target for MongoDB. Each page is one document
// keyed by page id; republish replaces the whole document.
type mongoTarget struct {
	client     *mongo.Client
	dbName     string
	collection string
}

func newMongoTarget(conn *Connection, password string) (*mongoTarget, error) {
	var uri string
	// Atlas-style hosts arrive as full connection strings; plain hosts
	// get assembled from parts.
	if strings.HasPrefix(conn.Host, "mongodb+srv://") || strings.HasPrefix(conn.Host, "mongodb://") {
		uri = conn.Host
		if password != "" {
			uri = strings.ReplaceAll(uri, "<password>", password)
		}
	} else {
		port := conn.Port
		if port == 0 {
			port = 27017
		}
		if conn.Username != "" {
			uri = fmt.Sprintf("mongodb://%s:%s@%s:%d", conn.Username, password, conn.Host, port)
		} else {
			uri = fmt.Sprintf("mongodb://%s:%d", conn.Host, port)
		}
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	return &mongoTarget{
		client:     client,
		dbName:     conn.Database,
		collection: conn.table(),
	}, nil
}

func (t *mongoTarget) col() *mongo.Collection {
	return t.client.Database(t.dbName).Collection(t.collection)
}

func (t *mongoTarget) Test(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := t.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("ping mongodb: %w", err)
	}
	return nil
}

func (t *mongoTarget) Publish(ctx context.Context, p *domain.PublishPayload) error {
	doc := bson.M{
		"_id":          p.PageID,
		"title":        p.Title,
		"layout_json":  p.LayoutJSON,
		"widgets_json": p.WidgetsJSON,
		"css":          p.CSS,
		"version":      p.Version,
		"published_at": time.Now(),
	}
	_, err := t.col().ReplaceOne(ctx,
		bson.M{"_id": p.PageID}, doc, options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("publish page %s: %w", p.PageID, err)
	}
	return nil
}

func (t *mongoTarget) Unpublish(ctx context.Context, pageID string) error {
	if _, err := t.col().DeleteOne(ctx, bson.M{"_id": pageID}); err != nil {
		return fmt.Errorf("unpublish page %s: %w", pageID, err)
	}
	return nil
}

func (t *mongoTarget) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return t.client.Disconnect(ctx)
}
