package store_test

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"users-api/internal/store"
)

func TestCreateTableInput(t *testing.T) {
	input := store.CreateTableInput("users")

	assert.Equal(t, "users", aws.ToString(input.TableName))
	assert.Equal(t, types.BillingModePayPerRequest, input.BillingMode)

	require.Len(t, input.KeySchema, 1)
	assert.Equal(t, "id", aws.ToString(input.KeySchema[0].AttributeName))
	assert.Equal(t, types.KeyTypeHash, input.KeySchema[0].KeyType)

	require.Len(t, input.GlobalSecondaryIndexes, 1)
	gsi := input.GlobalSecondaryIndexes[0]
	assert.Equal(t, store.EmailIndex, aws.ToString(gsi.IndexName))
	require.Len(t, gsi.KeySchema, 1)
	assert.Equal(t, "email", aws.ToString(gsi.KeySchema[0].AttributeName))
	assert.Equal(t, types.ProjectionTypeAll, gsi.Projection.ProjectionType)
}
