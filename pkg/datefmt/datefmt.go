// Package datefmt traduce entre el formato de fecha de la API (DD/MM/YYYY) y time.Time.
// Internamente las fechas se guardan como DATE y se comparan como fechas;
// hacia afuera se siguen aceptando y devolviendo como texto.
package datefmt

import (
	"fmt"
	"strings"
	"time"
)

const (
	// Layout formato de fecha expuesto por la API.
	Layout = "02/01/2006"
	// ISOLayout formato alternativo aceptado en filtros (YYYY-MM-DD).
	ISOLayout = "2006-01-02"

	lenientLayout = "2/1/2006"
)

// Parse interpreta una fecha DD/MM/YYYY; acepta día y mes sin cero a la izquierda (5/8/2025).
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(lenientLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha %q: se espera DD/MM/YYYY", s)
	}
	return t, nil
}

// ParseBound interpreta un límite de filtro en DD/MM/YYYY o YYYY-MM-DD. Vacío devuelve nil.
func ParseBound(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(ISOLayout, s); err == nil {
		return &t, nil
	}
	t, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Format devuelve la fecha como DD/MM/YYYY.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// FormatPtr igual que Format; nil devuelve cadena vacía.
func FormatPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return Format(*t)
}
