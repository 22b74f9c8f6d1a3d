package inventory

// Estados de alerta de stock.
const (
	AlertCritical = "critico"
	AlertLow      = "bajo"
	AlertNormal   = "normal"
)

// AlertPolicy umbrales de clasificación de alertas.
type AlertPolicy struct {
	DefaultMinimum    int // se usa cuando el producto no tiene stock mínimo
	CriticalThreshold int // stock bajo el mínimo y <= a este valor es crítico
}

// DefaultAlertPolicy mínimo 10, crítico con 3 o menos.
func DefaultAlertPolicy() AlertPolicy {
	return AlertPolicy{DefaultMinimum: 10, CriticalThreshold: 3}
}

// Minimum stock mínimo efectivo de un producto.
func (p AlertPolicy) Minimum(stockMinimo int) int {
	if stockMinimo <= 0 {
		return p.DefaultMinimum
	}
	return stockMinimo
}

// Classify clasifica un saldo frente a su mínimo.
func (p AlertPolicy) Classify(stock, stockMinimo int) string {
	minimum := p.Minimum(stockMinimo)
	switch {
	case stock == 0:
		return AlertCritical
	case stock < minimum && stock <= p.CriticalThreshold:
		return AlertCritical
	case stock < minimum:
		return AlertLow
	default:
		return AlertNormal
	}
}
