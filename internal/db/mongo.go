package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"news_gateway/internal/logger"
	"news_gateway/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const articlesCounter = "articles"

// MongoStore хранит статьи в MongoDB. Числовые id выдаются счётчиком
// в коллекции counters.
type MongoStore struct {
	client   *mongo.Client
	articles *mongo.Collection
	counters *mongo.Collection
}

// NewMongo подключается к MongoDB и проверяет соединение.
func NewMongo(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("can't ping MongoDB: %w", err)
	}

	db := client.Database(database)
	return &MongoStore{
		client:   client,
		articles: db.Collection(collection),
		counters: db.Collection("counters"),
	}, nil
}

// Close отключает клиента.
func (m *MongoStore) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.client.Disconnect(ctx); err != nil {
		logger.Component("db").Warnf("Failed to disconnect from MongoDB: %v", err)
	}
}

// Ping проверяет соединение.
func (m *MongoStore) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

// Migrate создаёт индексы по source_link и дате публикации.
func (m *MongoStore) Migrate(ctx context.Context) error {
	_, err := m.articles.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "source_link", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"source_link": bson.M{"$exists": true}}),
		},
		{
			Keys: bson.D{{Key: "publication_date", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// FetchAll возвращает все статьи в порядке id.
func (m *MongoStore) FetchAll(ctx context.Context) ([]models.Article, error) {
	return m.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

// FetchByID возвращает статью по id или models.ErrNotFound.
func (m *MongoStore) FetchByID(ctx context.Context, id int64) (models.Article, error) {
	var article models.Article
	err := m.articles.FindOne(ctx, bson.M{"_id": id}).Decode(&article)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Article{}, models.ErrNotFound
	}
	if err != nil {
		return models.Article{}, fmt.Errorf("fetch article %d: %w", id, err)
	}
	return article, nil
}

// SaveArticle вставляет статью или заменяет документ с тем же source_link.
func (m *MongoStore) SaveArticle(ctx context.Context, article *models.Article) error {
	if article.Link != "" {
		var existing models.Article
		err := m.articles.FindOne(ctx, bson.M{"source_link": article.Link}).Decode(&existing)
		switch {
		case err == nil:
			article.ID = existing.ID
			article.CreatedAt = existing.CreatedAt
		case !errors.Is(err, mongo.ErrNoDocuments):
			return fmt.Errorf("lookup article %q: %w", article.Link, err)
		}
	}

	if article.ID == 0 {
		id, err := m.nextID(ctx)
		if err != nil {
			return err
		}
		article.ID = id
	}

	stamp(article, time.Now().UTC())

	opts := options.Replace().SetUpsert(true)
	if _, err := m.articles.ReplaceOne(ctx, bson.M{"_id": article.ID}, article, opts); err != nil {
		return fmt.Errorf("save article %q: %w", article.Title, err)
	}
	return nil
}

// FindByTitle ищет статьи по подстроке заголовка без учёта регистра.
func (m *MongoStore) FindByTitle(ctx context.Context, text string) ([]models.Article, error) {
	filter := bson.M{"title": bson.M{"$regex": regexp.QuoteMeta(text), "$options": "i"}}
	return m.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

// FindPublishedAfter возвращает статьи, опубликованные позже after.
func (m *MongoStore) FindPublishedAfter(ctx context.Context, after time.Time) ([]models.Article, error) {
	filter := bson.M{"publication_date": bson.M{"$gt": after}}
	return m.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

// FindPublishedBetween возвращает статьи из интервала [from, to], свежие первыми.
func (m *MongoStore) FindPublishedBetween(ctx context.Context, from, to time.Time) ([]models.Article, error) {
	filter := bson.M{"publication_date": bson.M{"$gte": from, "$lte": to}}
	return m.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "publication_date", Value: -1}}))
}

// FindBySection возвращает статьи с рубрикой section.
func (m *MongoStore) FindBySection(ctx context.Context, section string) ([]models.Article, error) {
	return m.find(ctx, bson.M{"sections": section}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

// FindLatest возвращает limit последних опубликованных статей.
func (m *MongoStore) FindLatest(ctx context.Context, limit int) ([]models.Article, error) {
	if limit <= 0 {
		return []models.Article{}, nil
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "publication_date", Value: -1}}).
		SetLimit(int64(limit))
	return m.find(ctx, bson.M{}, opts)
}

func (m *MongoStore) find(ctx context.Context, filter any, opts ...*options.FindOptions) ([]models.Article, error) {
	cursor, err := m.articles.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find articles: %w", err)
	}
	defer cursor.Close(ctx)

	var articles []models.Article
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}
	if articles == nil {
		articles = []models.Article{}
	}
	return articles, nil
}

func (m *MongoStore) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := m.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": articlesCounter},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next article id: %w", err)
	}
	return counter.Seq, nil
}
