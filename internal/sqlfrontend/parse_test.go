package sqlfrontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/sqlcore"
)

func TestParseCommaFromListProducesCrossJoinRef(t *testing.T) {
	stmt, err := Parse("SELECT t1.a FROM t1, t2")
	require.NoError(t, err)
	sel, ok := stmt.(*Select)
	require.True(t, ok)

	require.Equal(t, TableRefCrossJoin, sel.From.Kind)
	require.Len(t, sel.From.Refs, 2)
	assert.Equal(t, TableRefBase, sel.From.Refs[0].Kind)
	assert.Equal(t, "t1", sel.From.Refs[0].Table)
	assert.Equal(t, TableRefBase, sel.From.Refs[1].Kind)
	assert.Equal(t, "t2", sel.From.Refs[1].Table)
}

func TestParseSingleFromTableIsUnchanged(t *testing.T) {
	stmt, err := Parse("SELECT a FROM t1")
	require.NoError(t, err)
	sel, ok := stmt.(*Select)
	require.True(t, ok)
	assert.Equal(t, TableRefBase, sel.From.Kind)
	assert.Nil(t, sel.From.Refs)
}

func TestParseRejectsJoinKeyword(t *testing.T) {
	_, err := Parse("SELECT a FROM t1 JOIN t2 ON t1.a = t2.a")
	require.Error(t, err)
	sqlErr, ok := err.(*sqlcore.Error)
	require.True(t, ok)
	assert.Equal(t, sqlcore.ErrorKindParse, sqlErr.Kind)
}
