package volcano

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/catalog"
	"github.com/lychee-technology/sqlcore/internal/logical"
	"github.com/lychee-technology/sqlcore/internal/physical"
	"github.com/lychee-technology/sqlcore/internal/storage"
)

// TestInsertSurvivesConcurrentAppendContention drives many insertExecs at
// the same table storage concurrently, so LocalTableStorage.Append's
// TryLock genuinely contends (§5: contention surfaces as StorageLocked
// rather than blocking). insertExec must keep draining its child and
// aggregate every failed Append with multierr rather than aborting the
// statement on the first contended row — every row either lands in
// storage or shows up in the aggregated error, none silently vanish.
func TestInsertSurvivesConcurrentAppendContention(t *testing.T) {
	ec := &Context{Catalog: catalog.NewRootCatalog(), DefaultSchema: "main"}
	ctx := context.Background()

	createInfo := &logical.CreateTableInfo{
		SchemaName: "main",
		TableName:  "t",
		Columns:    []catalog.ColumnDefinition{{Name: "a", Type: sqlcore.Integer, Nullable: true}},
	}
	createPlan, ok := physical.Generate(logical.NewCreateTable(createInfo)).(*physical.CreateTable)
	require.True(t, ok)
	createExec, err := Build(createPlan, ec)
	require.NoError(t, err)
	_, err = createExec.Next(ctx)
	require.NoError(t, err)

	table, err := ec.Catalog.GetTable("main", "t")
	require.NoError(t, err)
	storageHandle, ok := table.Table.Handle.(*storage.LocalTableStorage)
	require.True(t, ok)

	const writers = 16
	const rowsPerWriter = 10

	insertPlans := make([]*physical.Insert, writers)
	for w := 0; w < writers; w++ {
		rows := make([][]sqlcore.Expression, rowsPerWriter)
		for r := range rows {
			rows[r] = []sqlcore.Expression{sqlcore.NewConstant("", sqlcore.NewIntegerScalar(int32(w*rowsPerWriter+r)))}
		}
		source := logical.NewExpressionGet(1, []sqlcore.LogicalType{sqlcore.Integer}, rows)
		logicalInsert := logical.NewInsert(table, []int{0}, []sqlcore.LogicalType{sqlcore.Integer}, source)
		plan, ok := physical.Generate(logicalInsert).(*physical.Insert)
		require.True(t, ok)
		insertPlans[w] = plan
	}

	var wg sync.WaitGroup
	errs := make([]error, writers)
	buildErrs := make([]error, writers)
	var start sync.WaitGroup
	start.Add(1)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			execI, buildErr := Build(insertPlans[i], ec)
			if buildErr != nil {
				buildErrs[i] = buildErr
				return
			}
			start.Wait()
			_, errs[i] = execI.Next(ctx)
		}(w)
	}
	start.Done()
	wg.Wait()
	for _, e := range buildErrs {
		require.NoError(t, e)
	}

	appendedRows := 0
	for b := 0; b < storageHandle.NumBatches(); b++ {
		batch, ok, err := storageHandle.Batch(b)
		require.NoError(t, err)
		require.True(t, ok)
		appendedRows += int(batch.NumRows())
	}

	erroredRows := 0
	for _, e := range errs {
		if e == nil || e == io.EOF {
			continue
		}
		erroredRows += len(multierr.Errors(e))
	}

	assert.Equal(t, writers*rowsPerWriter, appendedRows+erroredRows,
		"every attempted row either lands in storage or is accounted for in an aggregated error")
}
