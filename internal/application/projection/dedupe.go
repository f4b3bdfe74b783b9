package projection

import "github.com/jhoicas/inventory-projections/internal/domain/entity"

// ByOperation deja un mensaje por par (identidad, operación), en el orden en que llegaron.
// Se usa antes de resolver los ítems afectados.
func ByOperation(batch []entity.PendingMessage) []entity.PendingMessage {
	return dedupe(batch, entity.PendingMessage.OperationKey)
}

// ByIdentity deja un mensaje por identidad. El transporte confirma por identidad, no por operación.
func ByIdentity(batch []entity.PendingMessage) []entity.PendingMessage {
	return dedupe(batch, entity.PendingMessage.Identity)
}

// GroupByIdentity agrupa todos los mensajes (con sus receipt handles) bajo su identidad,
// conservando el orden de primera aparición.
func GroupByIdentity(batch []entity.PendingMessage) [][]entity.PendingMessage {
	index := make(map[string]int, len(batch))
	var groups [][]entity.PendingMessage
	for _, m := range batch {
		i, ok := index[m.Identity()]
		if !ok {
			i = len(groups)
			index[m.Identity()] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], m)
	}
	return groups
}

func dedupe(batch []entity.PendingMessage, key func(entity.PendingMessage) string) []entity.PendingMessage {
	seen := make(map[string]struct{}, len(batch))
	out := make([]entity.PendingMessage, 0, len(batch))
	for _, m := range batch {
		k := key(m)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, m)
	}
	return out
}
