package projection_test

import (
	"testing"

	"github.com/jhoicas/inventory-projections/internal/application/projection"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(id, op, receipt string) entity.PendingMessage {
	return entity.PendingMessage{
		Change:        entity.DataChange{ID: id, Operation: op, Label: entity.LabelItem},
		ReceiptHandle: receipt,
	}
}

func TestByOperation_UnoPorIdentidadYOperacion(t *testing.T) {
	batch := []entity.PendingMessage{
		msg("A", entity.OperationAdd, "r1"),
		msg("A", entity.OperationAdd, "r2"),
		msg("A", entity.OperationRemove, "r3"),
	}

	got := projection.ByOperation(batch)
	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].ReceiptHandle, "conserva el primero visto")
	assert.Equal(t, entity.OperationRemove, got[1].Change.Operation)
}

func TestByIdentity_UnoPorIdentidad(t *testing.T) {
	batch := []entity.PendingMessage{
		msg("B", entity.OperationAdd, "r1"),
		msg("A", entity.OperationAdd, "r2"),
		msg("A", entity.OperationRemove, "r3"),
		msg("B", entity.OperationRemove, "r4"),
	}

	got := projection.ByIdentity(batch)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Identity())
	assert.Equal(t, "A", got[1].Identity())
}

func TestGroupByIdentity_ConservaTodosLosReceipts(t *testing.T) {
	batch := []entity.PendingMessage{
		msg("A", entity.OperationAdd, "r1"),
		msg("B", entity.OperationAdd, "r2"),
		msg("A", entity.OperationAdd, "r3"),
	}

	groups := projection.GroupByIdentity(batch)
	require.Len(t, groups, 2)
	require.Len(t, groups[0], 2)
	assert.Equal(t, "r1", groups[0][0].ReceiptHandle)
	assert.Equal(t, "r3", groups[0][1].ReceiptHandle)
	assert.Equal(t, "r2", groups[1][0].ReceiptHandle)
}

func TestDedupe_LoteVacio(t *testing.T) {
	assert.Empty(t, projection.ByOperation(nil))
	assert.Empty(t, projection.ByIdentity(nil))
	assert.Empty(t, projection.GroupByIdentity(nil))
}
