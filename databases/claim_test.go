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

func TestNewClaimDatabase(t *testing.T) {
	_ = os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	_ = os.Setenv("DB_NAME", "test")
	conf := config.New()

	dbClient, err := databases.NewClient(conf)
	assert.NoError(t, err)

	db := databases.NewDatabase(conf, dbClient)

	claimDB := databases.NewClaimDatabase(db)

	assert.NotEmpty(t, claimDB)
}

func TestClaimDatabase_FindOne(t *testing.T) {

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

	claimID := primitive.NewObjectID()

	srHelperErr.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(errors.New("mocked-error"))

	srHelperCorrect.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Claim)
		(*arg).ID = claimID
	})

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": true}).
		Return(srHelperErr)

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": false}).
		Return(srHelperCorrect)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "claims").Return(collectionHelper)

	claimDba := databases.NewClaimDatabase(dbHelper)

	claim, err := claimDba.FindOne(context.Background(), bson.M{"error": true})

	assert.Empty(t, claim)
	assert.EqualError(t, err, "mocked-error")

	claim, err = claimDba.FindOne(context.Background(), bson.M{"error": false})

	assert.Equal(t, &models.Claim{ID: claimID}, claim)
	assert.NoError(t, err)
}

func TestClaimDatabase_CountDocuments(t *testing.T) {

	// define variables for interfaces
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	// set interfaces implementation to mocked structures
	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	collectionHelper.(*mocks.CollectionHelper).
		On("CountDocuments", context.Background(), bson.M{"error": true}).
		Return(int64(0), errors.New("mocked-error"))

	collectionHelper.(*mocks.CollectionHelper).
		On("CountDocuments", context.Background(), bson.M{"error": false}).
		Return(int64(3), nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "claims").Return(collectionHelper)

	claimDba := databases.NewClaimDatabase(dbHelper)

	count, err := claimDba.CountDocuments(context.Background(), bson.M{"error": true})

	assert.Zero(t, count)
	assert.EqualError(t, err, "mocked-error")

	count, err = claimDba.CountDocuments(context.Background(), bson.M{"error": false})

	assert.Equal(t, int64(3), count)
	assert.NoError(t, err)
}

func TestClaimDatabase_InsertOne(t *testing.T) {

	// define variables for interfaces
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var iorHelperCorrect databases.InsertOneResultHelper

	// set interfaces implementation to mocked structures
	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	iorHelperCorrect = &mocks.InsertOneResultHelper{}

	claimID := primitive.NewObjectID()

	iorHelperCorrect.(*mocks.InsertOneResultHelper).
		On("Decode").Return(claimID)

	errClaim := models.Claim{Details: models.ClaimDetails{Status: "error"}}
	okClaim := models.Claim{ID: claimID, Details: models.ClaimDetails{Status: models.ClaimPending}}

	collectionHelper.(*mocks.CollectionHelper).
		On("InsertOne", context.Background(), errClaim).
		Return(nil, errors.New("mocked-error"))

	collectionHelper.(*mocks.CollectionHelper).
		On("InsertOne", context.Background(), okClaim).
		Return(iorHelperCorrect, nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "claims").Return(collectionHelper)

	claimDba := databases.NewClaimDatabase(dbHelper)

	res, err := claimDba.InsertOne(context.Background(), errClaim)

	assert.Nil(t, res)
	assert.EqualError(t, err, "mocked-error")

	res, err = claimDba.InsertOne(context.Background(), okClaim)

	assert.NoError(t, err)
	assert.Equal(t, claimID, res.Decode())
}
