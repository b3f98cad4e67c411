package function

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/sqlcore"
)

func TestBindExactMatch(t *testing.T) {
	catalog := BuiltinCatalog()
	binder := NewBinder()

	left := sqlcore.NewConstant("", sqlcore.NewIntegerScalar(1))
	right := sqlcore.NewConstant("", sqlcore.NewIntegerScalar(2))

	bound, err := binder.Bind(catalog["add"], []sqlcore.Expression{left, right}, "")
	require.NoError(t, err)
	assert.Equal(t, sqlcore.Integer, bound.ReturnType())
	assert.Equal(t, left, bound.Args[0])
	assert.Equal(t, right, bound.Args[1])
}

func TestBindImplicitCastInsertsCast(t *testing.T) {
	catalog := BuiltinCatalog()
	binder := NewBinder()

	left := sqlcore.NewConstant("", sqlcore.NewIntegerScalar(1))
	right := sqlcore.NewConstant("", sqlcore.NewDoubleScalar(2.5))

	bound, err := binder.Bind(catalog["add"], []sqlcore.Expression{left, right}, "")
	require.NoError(t, err)
	assert.Equal(t, sqlcore.Double, bound.ReturnType())
	cast, ok := bound.Args[0].(*sqlcore.Cast)
	require.True(t, ok)
	assert.Equal(t, sqlcore.Double, cast.TargetType)
}

func TestBindNoMatch(t *testing.T) {
	catalog := BuiltinCatalog()
	binder := NewBinder()

	left := sqlcore.NewConstant("", sqlcore.NewVarcharScalar("x"))
	right := sqlcore.NewConstant("", sqlcore.NewIntegerScalar(1))

	_, err := binder.Bind(catalog["add"], []sqlcore.Expression{left, right}, "")
	require.Error(t, err)
	assert.True(t, sqlcore.IsKind(err, sqlcore.ErrorKindFunction))
}

func TestBindWrongArity(t *testing.T) {
	catalog := BuiltinCatalog()
	binder := NewBinder()

	only := sqlcore.NewConstant("", sqlcore.NewIntegerScalar(1))
	_, err := binder.Bind(catalog["add"], []sqlcore.Expression{only}, "")
	require.Error(t, err)
}
