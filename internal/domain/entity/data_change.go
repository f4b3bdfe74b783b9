package entity

import "time"

// Etiquetas (label) de vértices/aristas que el motor reconoce. Cualquier otra se ignora.
const (
	LabelItem          = "item"
	LabelInventoryPlan = "inventory-plan"
	LabelTransferPlan  = "transfer-plan"
	LabelNewlyProjects = "newly-projects"
)

// Operaciones del flujo de cambios.
const (
	OperationAdd    = "ADD"
	OperationRemove = "REMOVE"
)

// Claves (key) que traen el id del ítem directamente en el valor del cambio.
const (
	KeyItemID     = "itemId"
	KeyFromItemID = "fromItemId"
	KeyToItemID   = "toItemId"
)

// ChangeValue valor tipado de la propiedad modificada.
type ChangeValue struct {
	Value    string `json:"value"`
	DataType string `json:"dataType"`
}

// DataChange contrato de cable con el productor de cambios (CDC):
// {id, operation, key, label, value:{value, dataType}}.
type DataChange struct {
	ID        string      `json:"id"`
	Operation string      `json:"operation"`
	Key       string      `json:"key"`
	Label     string      `json:"label"`
	Value     ChangeValue `json:"value"`
}

// PendingMessage un DataChange recibido de la cola con su metadata de transporte.
type PendingMessage struct {
	Change        DataChange
	MessageID     string
	ReceiptHandle string
	ReceiveCount  int
	FailureCount  int
	SentAt        time.Time
	LastError     string
}

// Identity identidad semántica del cambio (id del vértice/arista).
func (m PendingMessage) Identity() string {
	return m.Change.ID
}

// OperationKey clave (identidad, operación) usada por la deduplicación previa a la resolución.
func (m PendingMessage) OperationKey() string {
	return m.Change.ID + "|" + m.Change.Operation
}
