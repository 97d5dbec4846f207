package db

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type priced struct {
	Cost decimal.Decimal `bson:"cost"`
}

func TestDecimalCodec_StoresDecimal128(t *testing.T) {
	reg := NewRegistry()

	raw, err := bson.MarshalWithRegistry(reg, priced{Cost: decimal.RequireFromString("149.50")})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	_, ok := doc["cost"].(primitive.Decimal128)
	assert.True(t, ok, "cost should be stored as Decimal128, got %T", doc["cost"])

	var out priced
	require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &out))
	assert.True(t, decimal.RequireFromString("149.5").Equal(out.Cost))
}

func TestDecimalCodec_DecodesLegacyNumbers(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name string
		doc  bson.M
		want string
	}{
		{name: "double", doc: bson.M{"cost": 99.25}, want: "99.25"},
		{name: "int32", doc: bson.M{"cost": int32(120)}, want: "120"},
		{name: "int64", doc: bson.M{"cost": int64(75)}, want: "75"},
		{name: "string", doc: bson.M{"cost": "12.10"}, want: "12.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := bson.Marshal(tt.doc)
			require.NoError(t, err)

			var out priced
			require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &out))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(out.Cost), "got %s", out.Cost)
		})
	}
}
