package databases

// go generate: mockery --name LostItemDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusfind/lost-and-found-api/models"
)

const lostItemName = "lostItems"

// LostItemDatabase contains the methods to use with the lost items database
type LostItemDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.LostItem, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.LostItem, error)
	CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, lostItem models.LostItem, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (UpdateResultHelper, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (CursorHelper, error)
}

type lostItemDatabase struct {
	db DatabaseHelper
}

// NewLostItemDatabase initializes a new instance of lost item database with the provided db connection
func NewLostItemDatabase(db DatabaseHelper) LostItemDatabase {
	return &lostItemDatabase{
		db: db,
	}
}

func (c *lostItemDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.LostItem, error) {
	lostItem := &models.LostItem{}
	err := c.db.Collection(lostItemName).FindOne(ctx, filter, opts...).Decode(&lostItem)
	if err != nil {
		return nil, err
	}
	return lostItem, nil
}

func (c *lostItemDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.LostItem, error) {
	var lostItems []models.LostItem
	cr, err := c.db.Collection(lostItemName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&lostItems)
	if err != nil {
		return nil, err
	}
	return lostItems, nil
}

func (c *lostItemDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	count, err := c.db.Collection(lostItemName).CountDocuments(ctx, filter, opts...)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (c *lostItemDatabase) InsertOne(ctx context.Context, lostItem models.LostItem, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := c.db.Collection(lostItemName).InsertOne(ctx, lostItem, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *lostItemDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (UpdateResultHelper, error) {
	return c.db.Collection(lostItemName).UpdateOne(ctx, filter, update, opts...)
}

func (c *lostItemDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	_, err := c.db.Collection(lostItemName).DeleteOne(ctx, filter, opts...)
	return err
}

func (c *lostItemDatabase) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (CursorHelper, error) {
	return c.db.Collection(lostItemName).Aggregate(ctx, pipeline, opts...)
}
