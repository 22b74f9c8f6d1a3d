package entity

import "time"

// Estados de un equipo al salir o retornar.
const (
	EquipmentConditionGood    = "Bueno"
	EquipmentConditionFair    = "Regular"
	EquipmentConditionPoor    = "Malo"
	EquipmentConditionRepair  = "En Reparación"
	EquipmentConditionDamaged = "Dañado"
)

var equipmentConditions = map[string]struct{}{
	EquipmentConditionGood:    {},
	EquipmentConditionFair:    {},
	EquipmentConditionPoor:    {},
	EquipmentConditionRepair:  {},
	EquipmentConditionDamaged: {},
}

// ValidEquipmentCondition verifica que el estado pertenezca al catálogo.
func ValidEquipmentCondition(s string) bool {
	_, ok := equipmentConditions[s]
	return ok
}

// EquipmentReport registra la salida (y opcionalmente el retorno) de un equipo.
// Solo la creación descuenta stock; el retorno no reabastece y puede registrarse de nuevo
// para corregir sus datos.
type EquipmentReport struct {
	ID                string
	EquipmentName     string
	ProductCode       string // serie / código del producto
	Quantity          int
	Condition         string
	Responsible       string
	CheckoutDate      time.Time
	CheckoutTime      string // HH:MM
	AreaProject       string
	Signature         string
	ReturnDate        *time.Time
	ReturnTime        *string
	ReturnCondition   *string
	ReturnResponsible *string
	ReturnSignature   *string
	DeletedAt         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsReturned indica si ya se registró el retorno del equipo.
func (e *EquipmentReport) IsReturned() bool {
	return e.ReturnDate != nil
}

// EquipmentFilter filtros de listado de reportes de equipo.
type EquipmentFilter struct {
	Search string // equipo, código, responsable o área/proyecto
	Limit  int
	Offset int
}
