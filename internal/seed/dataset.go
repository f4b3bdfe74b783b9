// Package seed carga conjuntos de datos (usuarios, ítems, planes, traslados y regla) a través
// de los mismos casos de uso que la API, de modo que el motor recibe sus cambios.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoYAML []byte

// Dataset conjunto de datos a cargar. Las fechas son relativas a hoy (en días).
type Dataset struct {
	Rule      *RuleSeed      `yaml:"rule"`
	Users     []UserSeed     `yaml:"users"`
	Items     []ItemSeed     `yaml:"items"`
	Transfers []TransferSeed `yaml:"transfers"`
}

// RuleSeed regla de inventario mínimo.
type RuleSeed struct {
	Name       string          `yaml:"name"`
	MinAllowed decimal.Decimal `yaml:"min_allowed"`
}

// UserSeed usuario de la API.
type UserSeed struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
}

// ItemSeed ítem con sus planes. Key lo identifica dentro del archivo (traslados).
type ItemSeed struct {
	Key            string          `yaml:"key"`
	Name           string          `yaml:"name"`
	Amount         decimal.Decimal `yaml:"amount"`
	InventoryPlans []PlanSeed      `yaml:"inventory_plans"`
}

// PlanSeed plan de inventario: Days días a partir de hoy+StartInDays.
type PlanSeed struct {
	Type        string          `yaml:"type"`
	StartInDays int             `yaml:"start_in_days"`
	Days        int             `yaml:"days"`
	DailyRate   decimal.Decimal `yaml:"daily_rate"`
}

// TransferSeed traslado entre dos ítems del archivo.
type TransferSeed struct {
	From          string          `yaml:"from"`
	To            string          `yaml:"to"`
	ShipInDays    int             `yaml:"ship_in_days"`
	ArrivalInDays int             `yaml:"arrival_in_days"`
	Amount        decimal.Decimal `yaml:"amount"`
}

// Demo devuelve el conjunto de demostración embebido.
func Demo() (*Dataset, error) {
	return Decode(bytes.NewReader(demoYAML), "")
}

// Decode lee un Dataset YAML. encoding "latin1" (o "iso-8859-1") transcodifica archivos
// exportados desde hojas de cálculo; vacío o "utf-8" los lee tal cual.
func Decode(r io.Reader, encoding string) (*Dataset, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
	case "latin1", "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("encoding no soportado: %q", encoding)
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var ds Dataset
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if err := ds.validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (ds *Dataset) validate() error {
	keys := make(map[string]struct{}, len(ds.Items))
	for _, it := range ds.Items {
		if it.Key == "" || it.Name == "" {
			return fmt.Errorf("ítem sin key o name")
		}
		if _, dup := keys[it.Key]; dup {
			return fmt.Errorf("key de ítem repetida: %s", it.Key)
		}
		keys[it.Key] = struct{}{}
	}
	for _, tr := range ds.Transfers {
		for _, k := range []string{tr.From, tr.To} {
			if _, ok := keys[k]; !ok {
				return fmt.Errorf("traslado hacia ítem desconocido: %s", k)
			}
		}
	}
	return nil
}
