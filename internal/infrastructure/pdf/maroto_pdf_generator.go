// Package pdf genera el reporte de proyección de inventario de un ítem.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del ítem + ID  │  Generado + Regla activa   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Existencia actual / Mínimo / Días en violación    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Día | Inicial | Entradas | Salidas | ...    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el ID del ítem + leyenda                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-projections/internal/application/usecase"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 20, Blue: 20}
)

const dateLayout = "02/01/2006"

// ── Generator ─────────────────────────────────────────────────────────────────

var _ usecase.ReportGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa usecase.ReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateProjectionReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateProjectionReport(r usecase.ProjectionReport) ([]byte, error) {
	if r.Item == nil {
		return nil, fmt.Errorf("pdf: reporte sin ítem")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Proyección de inventario", true).
		WithAuthor("inventory-projections", true).
		Build()

	m := maroto.New(cfg)
	breaching := violationDates(r.Violations)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(r, len(breaching)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, p := range r.Projections {
		_, alert := breaching[p.Date.Format(dateLayout)]
		m.AddRows(projectionRow(p, alert))
	}
	if len(r.Projections) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("El motor aún no ha calculado la proyección de este ítem.", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(r.Item))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre + ID del ítem (izq) y fecha de cálculo + regla (der).
func headerRow(r usecase.ProjectionReport) core.Row {
	generated := "sin calcular"
	if len(r.Projections) > 0 {
		generated = r.Projections[0].GeneratedAt.Format("02/01/2006 15:04")
	}
	rule := "sin regla activa"
	if r.Rule != nil {
		rule = r.Rule.Name
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(r.Item.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("ID: "+r.Item.ID, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PROYECCIÓN DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Calculada: "+generated, props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
			text.New("Regla: "+rule, props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

// summaryRow: existencia actual, mínimo permitido y días en violación.
func summaryRow(r usecase.ProjectionReport, breachingDays int) core.Row {
	minAllowed := "—"
	if r.Rule != nil {
		minAllowed = formatQuantity(r.Rule.MinAllowed)
	}
	cell := func(label, value string, c *props.Color) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6, Color: c}),
		)
	}
	daysColor := colorGray
	if breachingDays > 0 {
		daysColor = colorAlert
	}
	return row.New(14).Add(
		cell("EXISTENCIA ACTUAL", formatQuantity(r.Item.Amount), colorGray),
		cell("MÍNIMO PERMITIDO", minAllowed, colorGray),
		cell("DÍAS BAJO EL MÍNIMO", fmt.Sprintf("%d", breachingDays), daysColor),
	)
}

// tableHeaderRow: cabecera de la tabla de proyección.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Día", 1, align.Center),
		h("Inicial", 2, align.Right),
		h("Entradas", 2, align.Right),
		h("Salidas", 2, align.Right),
		h("En tránsito", 1, align.Right),
		h("Final", 2, align.Right),
	)
}

// projectionRow: una fila por día del horizonte. Los días en violación van en rojo.
func projectionRow(p entity.Projection, alert bool) core.Row {
	color := colorGray
	style := fontstyle.Normal
	if alert {
		color = colorAlert
		style = fontstyle.Bold
	}
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: color, Style: style,
		}))
	}
	return row.New(6).Add(
		cell(p.Date.Format(dateLayout), 2, align.Left),
		cell(fmt.Sprintf("%d", p.DaysOut), 1, align.Center),
		cell(formatQuantity(p.BeginningOnHand), 2, align.Right),
		cell(formatQuantity(p.SupplyPlanned), 2, align.Right),
		cell(formatQuantity(p.DemandPlanned), 2, align.Right),
		cell(formatQuantity(p.SupplyInTransit), 1, align.Right),
		cell(formatQuantity(p.EndingOnHand), 2, align.Right),
	)
}

// footerRow: QR con el ID del ítem para escaneo en bodega + leyenda.
func footerRow(item *entity.Item) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(item.ID, props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("Escanea el código QR para abrir el ítem en la aplicación.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Las cifras son proyecciones a partir de los planes vigentes; "+
				"cambian con cada modificación de planes, traslados o existencia.", props.Text{
				Size: 7, Top: 14, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func violationDates(violations []entity.Violation) map[string]struct{} {
	out := make(map[string]struct{}, len(violations))
	for _, v := range violations {
		out[v.Date.Format(dateLayout)] = struct{}{}
	}
	return out
}

// formatQuantity inserta puntos de miles y conserva hasta dos decimales con coma.
// Ej: "25000" → "25.000", "-1234.5" → "-1.234,50"
func formatQuantity(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	n := len(whole)
	buf := make([]byte, 0, n+n/3+4)
	if d.IsNegative() {
		buf = append(buf, '-')
	}
	for i, c := range []byte(whole) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if frac != "00" {
		buf = append(buf, ',')
		buf = append(buf, frac...)
	}
	return string(buf)
}
