package sqlcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxCommonTypeEqual(t *testing.T) {
	for _, ty := range []LogicalType{Boolean, Integer, Varchar, Double} {
		got, err := MaxCommonType(ty, ty)
		require.NoError(t, err)
		assert.Equal(t, ty, got)
	}
}

func TestMaxCommonTypeNullIsIdentity(t *testing.T) {
	got, err := MaxCommonType(Null, Integer)
	require.NoError(t, err)
	assert.Equal(t, Integer, got)

	got, err = MaxCommonType(Bigint, Null)
	require.NoError(t, err)
	assert.Equal(t, Bigint, got)
}

func TestMaxCommonTypeCommutative(t *testing.T) {
	pairs := [][2]LogicalType{
		{Integer, Bigint},
		{Float, Double},
		{Tinyint, Smallint},
		{Integer, UInteger},
		{Bigint, UBigint},
	}
	for _, p := range pairs {
		a, err := MaxCommonType(p[0], p[1])
		require.NoError(t, err)
		b, err := MaxCommonType(p[1], p[0])
		require.NoError(t, err)
		assert.Equal(t, a, b, "max_common_type must be commutative for %v/%v", p[0], p[1])
	}
}

func TestMaxCommonTypeWidening(t *testing.T) {
	got, err := MaxCommonType(Integer, Bigint)
	require.NoError(t, err)
	assert.Equal(t, Bigint, got)

	got, err = MaxCommonType(Float, Double)
	require.NoError(t, err)
	assert.Equal(t, Double, got)

	got, err = MaxCommonType(Integer, Double)
	require.NoError(t, err)
	assert.Equal(t, Double, got)
}

func TestMaxCommonTypeMixedSignedness(t *testing.T) {
	// Integer x UInteger -> Bigint
	got, err := MaxCommonType(Integer, UInteger)
	require.NoError(t, err)
	assert.Equal(t, Bigint, got)

	// Bigint x UBigint -> Double
	got, err = MaxCommonType(Bigint, UBigint)
	require.NoError(t, err)
	assert.Equal(t, Double, got)
}

func TestMaxCommonTypeMismatch(t *testing.T) {
	_, err := MaxCommonType(Boolean, Varchar)
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrorKindBind))
}

func TestLogicalTypeFromSQLName(t *testing.T) {
	cases := map[string]LogicalType{
		"INTEGER":  Integer,
		"int":      Integer,
		"BIGINT":   Bigint,
		"VARCHAR":  Varchar,
		"text":     Varchar,
		"BOOLEAN":  Boolean,
		"DOUBLE":   Double,
		"FLOAT":    Float,
		"SMALLINT": Smallint,
	}
	for name, want := range cases {
		got, err := LogicalTypeFromSQLName(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := LogicalTypeFromSQLName("NOT_A_TYPE")
	require.Error(t, err)
}

func TestIsNumericPredicates(t *testing.T) {
	assert.True(t, Integer.IsNumeric())
	assert.True(t, Integer.IsSignedNumeric())
	assert.False(t, Integer.IsUnsignedNumeric())

	assert.True(t, UInteger.IsNumeric())
	assert.True(t, UInteger.IsUnsignedNumeric())
	assert.False(t, UInteger.IsSignedNumeric())

	assert.False(t, Varchar.IsNumeric())
	assert.False(t, Boolean.IsNumeric())
}
