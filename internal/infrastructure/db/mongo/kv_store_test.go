package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestKVStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get found", func(mt *mtest.T) {
		store := NewKVStore(mt.DB, mt.Coll.Name())
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "usuarios"},
			{Key: "value", Value: "[]"},
		}))

		v, found, err := store.Get(context.Background(), "usuarios")
		require.NoError(mt, err)
		assert.True(mt, found)
		assert.Equal(mt, "[]", v)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		store := NewKVStore(mt.DB, mt.Coll.Name())
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, found, err := store.Get(context.Background(), "usuarioActual")
		require.NoError(mt, err)
		assert.False(mt, found)
	})

	mt.Run("set upserts", func(mt *mtest.T) {
		store := NewKVStore(mt.DB, mt.Coll.Name())
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		require.NoError(mt, store.Set(context.Background(), "usuarios", "[]"))
		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
	})

	mt.Run("set error", func(mt *mtest.T) {
		store := NewKVStore(mt.DB, mt.Coll.Name())
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
			Name:    "BadValue",
		}))

		assert.Error(mt, store.Set(context.Background(), "usuarios", "[]"))
	})

	mt.Run("remove", func(mt *mtest.T) {
		store := NewKVStore(mt.DB, mt.Coll.Name())
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(mt, store.Remove(context.Background(), "usuarioActual"))
	})
}
