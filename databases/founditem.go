package databases

// go generate: mockery --name FoundItemDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusfind/lost-and-found-api/models"
)

const foundItemName = "foundItems"

// FoundItemDatabase contains the methods to use with the found items database
type FoundItemDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.FoundItem, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.FoundItem, error)
	CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, foundItem models.FoundItem, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (UpdateResultHelper, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (CursorHelper, error)
}

type foundItemDatabase struct {
	db DatabaseHelper
}

// NewFoundItemDatabase initializes a new instance of found item database with the provided db connection
func NewFoundItemDatabase(db DatabaseHelper) FoundItemDatabase {
	return &foundItemDatabase{
		db: db,
	}
}

func (c *foundItemDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.FoundItem, error) {
	foundItem := &models.FoundItem{}
	err := c.db.Collection(foundItemName).FindOne(ctx, filter, opts...).Decode(&foundItem)
	if err != nil {
		return nil, err
	}
	return foundItem, nil
}

func (c *foundItemDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.FoundItem, error) {
	var foundItems []models.FoundItem
	cr, err := c.db.Collection(foundItemName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&foundItems)
	if err != nil {
		return nil, err
	}
	return foundItems, nil
}

func (c *foundItemDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	count, err := c.db.Collection(foundItemName).CountDocuments(ctx, filter, opts...)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (c *foundItemDatabase) InsertOne(ctx context.Context, foundItem models.FoundItem, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := c.db.Collection(foundItemName).InsertOne(ctx, foundItem, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *foundItemDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (UpdateResultHelper, error) {
	return c.db.Collection(foundItemName).UpdateOne(ctx, filter, update, opts...)
}

func (c *foundItemDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	_, err := c.db.Collection(foundItemName).DeleteOne(ctx, filter, opts...)
	return err
}

func (c *foundItemDatabase) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (CursorHelper, error) {
	return c.db.Collection(foundItemName).Aggregate(ctx, pipeline, opts...)
}
