package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestIndexes(t *testing.T) {
	models := Indexes()
	require.Len(t, models, 2)

	assert.Equal(t, bson.D{{Key: "slug", Value: 1}}, models[0].Keys)
	require.NotNil(t, models[0].Options.Unique)
	assert.True(t, *models[0].Options.Unique)

	assert.Equal(t, bson.D{{Key: "type", Value: 1}, {Key: "status", Value: 1}, {Key: "published_at", Value: -1}}, models[1].Keys)
	assert.Nil(t, models[1].Options.Unique)
}
