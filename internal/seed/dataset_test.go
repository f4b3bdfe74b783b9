package seed_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/inventory-projections/internal/seed"
)

const sample = `
items:
  - key: a
    name: Válvula
    amount: 12.5
    inventory_plans:
      - type: SALES
        start_in_days: 0
        days: 3
        daily_rate: 2
  - key: b
    name: Niple
    amount: 0
transfers:
  - from: a
    to: b
    ship_in_days: 1
    arrival_in_days: 4
    amount: 5
`

func TestDecode(t *testing.T) {
	ds, err := seed.Decode(strings.NewReader(sample), "")
	require.NoError(t, err)
	require.Len(t, ds.Items, 2)
	assert.Equal(t, "Válvula", ds.Items[0].Name)
	assert.Equal(t, "12.5", ds.Items[0].Amount.String())
	require.Len(t, ds.Items[0].InventoryPlans, 1)
	assert.Equal(t, 3, ds.Items[0].InventoryPlans[0].Days)
	require.Len(t, ds.Transfers, 1)
	assert.Equal(t, "5", ds.Transfers[0].Amount.String())
	assert.Nil(t, ds.Rule)
}

func TestDecode_Latin1(t *testing.T) {
	encoded, err := charmap.ISO8859_1.NewEncoder().String(sample)
	require.NoError(t, err)

	ds, err := seed.Decode(bytes.NewReader([]byte(encoded)), "latin1")
	require.NoError(t, err)
	assert.Equal(t, "Válvula", ds.Items[0].Name)
}

func TestDecode_Rejects(t *testing.T) {
	cases := []struct {
		name     string
		doc      string
		encoding string
	}{
		{"campo desconocido", "items:\n  - key: a\n    name: x\n    color: rojo\n", ""},
		{"traslado a ítem desconocido", "items:\n  - key: a\n    name: x\ntransfers:\n  - from: a\n    to: z\n", ""},
		{"key repetida", "items:\n  - key: a\n    name: x\n  - key: a\n    name: y\n", ""},
		{"ítem sin nombre", "items:\n  - key: a\n", ""},
		{"encoding desconocido", sample, "ebcdic"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := seed.Decode(strings.NewReader(tc.doc), tc.encoding)
			assert.Error(t, err)
		})
	}
}

func TestDemo(t *testing.T) {
	ds, err := seed.Demo()
	require.NoError(t, err)
	require.NotNil(t, ds.Rule)
	assert.True(t, ds.Rule.MinAllowed.IsZero())
	assert.NotEmpty(t, ds.Users)
	assert.NotEmpty(t, ds.Items)
	assert.NotEmpty(t, ds.Transfers)
}
