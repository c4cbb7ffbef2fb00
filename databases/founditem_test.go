package databases_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campusfind/lost-and-found-api/config"
	"github.com/campusfind/lost-and-found-api/databases"
	"github.com/campusfind/lost-and-found-api/databases/mocks"
	"github.com/campusfind/lost-and-found-api/models"
)

func TestNewFoundItemDatabase(t *testing.T) {
	_ = os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	_ = os.Setenv("DB_NAME", "test")
	conf := config.New()

	dbClient, err := databases.NewClient(conf)
	assert.NoError(t, err)

	db := databases.NewDatabase(conf, dbClient)

	foundItemDB := databases.NewFoundItemDatabase(db)

	assert.NotEmpty(t, foundItemDB)
}

func TestFoundItemDatabase_FindOne(t *testing.T) {

	// define variables for interfaces
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var srHelperErr databases.SingleResultHelper
	var srHelperCorrect databases.SingleResultHelper

	// set interfaces implementation to mocked structures
	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	srHelperErr = &mocks.SingleResultHelper{}
	srHelperCorrect = &mocks.SingleResultHelper{}

	itemID := primitive.NewObjectID()

	srHelperErr.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(errors.New("mocked-error"))

	srHelperCorrect.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.FoundItem)
		(*arg).ID = itemID
	})

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": true}).
		Return(srHelperErr)

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": false}).
		Return(srHelperCorrect)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "foundItems").Return(collectionHelper)

	// Create new database with mocked Database interface
	foundItemDba := databases.NewFoundItemDatabase(dbHelper)

	// Call method with defined filter, that in our mocked function returns
	// mocked-error
	foundItem, err := foundItemDba.FindOne(context.Background(), bson.M{"error": true})

	assert.Empty(t, foundItem)
	assert.EqualError(t, err, "mocked-error")

	// Now call the same function with different filter for correct
	// result
	foundItem, err = foundItemDba.FindOne(context.Background(), bson.M{"error": false})

	assert.Equal(t, &models.FoundItem{ID: itemID}, foundItem)
	assert.NoError(t, err)
}

func TestFoundItemDatabase_Find(t *testing.T) {

	// define variables for interfaces
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var crHelperErr databases.CursorHelper
	var crHelperCorrect databases.CursorHelper

	// set interfaces implementation to mocked structures
	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	crHelperErr = &mocks.CursorHelper{}
	crHelperCorrect = &mocks.CursorHelper{}

	crHelperErr.(*mocks.CursorHelper).
		On("Decode", mock.Anything).
		Return(errors.New("mocked-error"))

	crHelperCorrect.(*mocks.CursorHelper).
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.FoundItem)
		*arg = []models.FoundItem{{Details: models.FoundItemDetails{ItemName: "mocked-item"}}}
	})

	collectionHelper.(*mocks.CollectionHelper).
		On("Find", context.Background(), bson.M{"error": true}).
		Return(crHelperErr, nil)

	collectionHelper.(*mocks.CollectionHelper).
		On("Find", context.Background(), bson.M{"error": false}).
		Return(crHelperCorrect, nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "foundItems").Return(collectionHelper)

	foundItemDba := databases.NewFoundItemDatabase(dbHelper)

	foundItems, err := foundItemDba.Find(context.Background(), bson.M{"error": true})

	assert.Empty(t, foundItems)
	assert.EqualError(t, err, "mocked-error")

	foundItems, err = foundItemDba.Find(context.Background(), bson.M{"error": false})

	assert.Equal(t, "mocked-item", foundItems[0].Details.ItemName)
	assert.NoError(t, err)
}

func TestFoundItemDatabase_UpdateOne(t *testing.T) {

	// define variables for interfaces
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var urHelperCorrect databases.UpdateResultHelper

	// set interfaces implementation to mocked structures
	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	urHelperCorrect = &mocks.UpdateResultHelper{}

	urHelperCorrect.(*mocks.UpdateResultHelper).
		On("MatchedCount").Return(int64(1))

	collectionHelper.(*mocks.CollectionHelper).
		On("UpdateOne", context.Background(), bson.M{"error": true}, mock.Anything).
		Return(nil, errors.New("mocked-error"))

	collectionHelper.(*mocks.CollectionHelper).
		On("UpdateOne", context.Background(), bson.M{"error": false}, mock.Anything).
		Return(urHelperCorrect, nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "foundItems").Return(collectionHelper)

	foundItemDba := databases.NewFoundItemDatabase(dbHelper)

	res, err := foundItemDba.UpdateOne(context.Background(), bson.M{"error": true}, bson.M{"$set": bson.M{"foundItem.status": "claimed"}})

	assert.Nil(t, res)
	assert.EqualError(t, err, "mocked-error")

	res, err = foundItemDba.UpdateOne(context.Background(), bson.M{"error": false}, bson.M{"$set": bson.M{"foundItem.status": "claimed"}})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount())
}
