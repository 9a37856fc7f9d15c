package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"news-backend/internal/models"
	"news-backend/internal/storage"
)

// commentDoc — представление комментария в коллекции.
// UUID хранятся строками, _id — ObjectID.
type commentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	NewsID    string             `bson:"news_id"`
	UserID    string             `bson:"user_id"`
	Content   string             `bson:"content"`
	IsDeleted bool               `bson:"is_deleted"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d commentDoc) toModel() models.Comment {
	newsID, _ := uuid.Parse(d.NewsID)
	userID, _ := uuid.Parse(d.UserID)

	return models.Comment{
		ID:        d.ID.Hex(),
		NewsID:    newsID,
		UserID:    userID,
		Content:   d.Content,
		IsDeleted: d.IsDeleted,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// SaveComment создает новый комментарий и возвращает его идентификатор.
func (m *Mongo) SaveComment(ctx context.Context, comment *models.Comment) (string, error) {
	const op = "storage/mongo/SaveComment"

	// MongoDB DateTime хранит миллисекунды.
	now := time.Now().UTC().Truncate(time.Millisecond)

	doc := commentDoc{
		NewsID:    comment.NewsID.String(),
		UserID:    comment.UserID.String(),
		Content:   comment.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := m.comments.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("%s: inserted id type", op)
	}

	comment.ID = oid.Hex()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	return comment.ID, nil
}

// CommentByID возвращает комментарий по идентификатору.
// Некорректный формат id трактуется как «нет такой записи».
func (m *Mongo) CommentByID(ctx context.Context, id string) (*models.Comment, error) {
	const op = "storage/mongo/CommentByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var doc commentDoc
	if err := m.comments.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.toModel()

	return &out, nil
}

// CommentsByNews возвращает комментарии новости по убыванию created_at.
func (m *Mongo) CommentsByNews(ctx context.Context, newsID uuid.UUID, limit, offset int32) ([]models.Comment, error) {
	const op = "storage/mongo/CommentsByNews"

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cur, err := m.comments.Find(ctx, bson.D{{Key: "news_id", Value: newsID.String()}}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var items []models.Comment
	for cur.Next(ctx) {
		var doc commentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		items = append(items, doc.toModel())
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// SoftDeleteComment помечает комментарий как удалённый (мягкое удаление).
// При отсутствии записи — storage.ErrNotFound.
func (m *Mongo) SoftDeleteComment(ctx context.Context, id string) error {
	const op = "storage/mongo/SoftDeleteComment"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	res, err := m.comments.UpdateByID(ctx, oid, bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "is_deleted", Value: true},
			{Key: "content", Value: ""},
			{Key: "updated_at", Value: time.Now().UTC()},
		}},
	})

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
