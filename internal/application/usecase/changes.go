package usecase

import (
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const (
	keyAmount       = "amount"
	keyName         = "name"
	keyEntryDate    = "entryDate"
	keyTransferPlan = "transferPlanId"

	dataTypeString  = "string"
	dataTypeDecimal = "decimal"
)

func itemChange(op, itemID, key string, value entity.ChangeValue) entity.DataChange {
	return entity.DataChange{ID: itemID, Operation: op, Key: key, Label: entity.LabelItem, Value: value}
}

func amountValue(d decimal.Decimal) entity.ChangeValue {
	return entity.ChangeValue{Value: d.String(), DataType: dataTypeDecimal}
}

func stringValue(s string) entity.ChangeValue {
	return entity.ChangeValue{Value: s, DataType: dataTypeString}
}

// inventoryPlanChange lleva el itemId en el valor: el motor lo resuelve sin consultar el plan,
// que tras un REMOVE ya no existe.
func inventoryPlanChange(op string, plan *entity.InventoryPlan) entity.DataChange {
	return entity.DataChange{
		ID:        plan.ID,
		Operation: op,
		Key:       entity.KeyItemID,
		Label:     entity.LabelInventoryPlan,
		Value:     stringValue(plan.ItemID),
	}
}

// transferPlanChanges avisa a ambos extremos del traslado. El origen va con la identidad del
// plan; el destino con la suya propia (etiqueta item), porque dos cambios con la misma
// identidad y operación se deduplican antes de resolverse.
func transferPlanChanges(op string, plan *entity.TransferPlan) []entity.DataChange {
	return []entity.DataChange{
		{ID: plan.ID, Operation: op, Key: entity.KeyFromItemID, Label: entity.LabelTransferPlan, Value: stringValue(plan.FromItemID)},
		itemChange(entity.OperationAdd, plan.ToItemID, keyTransferPlan, stringValue(plan.ID)),
	}
}
