// mongo — хранилище комментариев поверх MongoDB.
package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"news-backend/internal/storage"
)

const (
	commentsCollection = "comments"
	defaultDBName      = "comments"
)

// Mongo - тонкий адаптер для подключения и коллекций MongoDB.
type Mongo struct {
	client   *mongodriver.Client
	db       *mongodriver.Database
	comments *mongodriver.Collection
}

// New подключается к MongoDB, проверяет соединение и готовит индексы.
func New(ctx context.Context, mongoURL string) (*Mongo, error) {
	if mongoURL == "" {
		return nil, fmt.Errorf("mongo: empty url")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(mongoURL))

	m := &Mongo{
		client:   cli,
		db:       db,
		comments: db.Collection(commentsCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	return m, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes создает индексы для выборки комментариев по новости.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	models := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "news_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("news_created_desc"),
		},
	}

	_, err := m.comments.Indexes().CreateMany(ctx, models)
	if err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}

	return nil
}

// databaseFromURI извлекает имя базы данных из URI-пути mongodb.
// Если оно отсутствует, возвращает значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}

	return defaultDBName
}

var _ storage.CommentStorage = (*Mongo)(nil)
