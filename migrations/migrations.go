// Package migrations expone los scripts SQL del esquema para aplicarlos al arrancar.
package migrations

import "embed"

// FS scripts NNN_nombre.sql, aplicados en orden lexicográfico.
//
//go:embed *.sql
var FS embed.FS
