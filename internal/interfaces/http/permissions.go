package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/domain"
)

// Roles de usuario.
const (
	RoleGerente   = "GERENTE"
	RoleAyudante  = "AYUDANTE"
	RoleAsistente = "ASISTENTE"
)

// Permission permiso "recurso:acción".
type Permission string

// Permisos por familia de recursos.
const (
	InventoryRead   Permission = "inventory:read"
	InventoryCreate Permission = "inventory:create"
	InventoryUpdate Permission = "inventory:update"
	InventoryDelete Permission = "inventory:delete"

	MovementsRead   Permission = "movements:read"
	MovementsCreate Permission = "movements:create"
	MovementsUpdate Permission = "movements:update"
	MovementsDelete Permission = "movements:delete"

	EquipmentRead   Permission = "equipment:read"
	EquipmentCreate Permission = "equipment:create"
	EquipmentUpdate Permission = "equipment:update"
	EquipmentDelete Permission = "equipment:delete"

	ReportsRead Permission = "reports:read"
)

var allPermissions = []Permission{
	InventoryRead, InventoryCreate, InventoryUpdate, InventoryDelete,
	MovementsRead, MovementsCreate, MovementsUpdate, MovementsDelete,
	EquipmentRead, EquipmentCreate, EquipmentUpdate, EquipmentDelete,
	ReportsRead,
}

var rolePermissions = map[string]map[Permission]struct{}{
	RoleGerente: set(allPermissions...),
	RoleAyudante: set(
		InventoryRead, InventoryCreate, InventoryUpdate,
		MovementsRead, MovementsCreate, MovementsUpdate,
		EquipmentRead, EquipmentCreate, EquipmentUpdate,
		ReportsRead,
	),
	RoleAsistente: set(InventoryRead, MovementsRead, EquipmentRead, ReportsRead),
}

func set(perms ...Permission) map[Permission]struct{} {
	m := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		m[p] = struct{}{}
	}
	return m
}

// HasPermission indica si el rol tiene el permiso. Un rol desconocido no tiene ninguno.
func HasPermission(role string, p Permission) bool {
	_, ok := rolePermissions[role][p]
	return ok
}

// RequirePermission verifica que el rol del token tenga el permiso.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalRole).
func RequirePermission(p Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return writeError(c, fmt.Errorf("%w: rol no encontrado en el token", domain.ErrUnauthorized))
		}
		if !HasPermission(role, p) {
			return writeError(c, fmt.Errorf("%w: el rol '%s' no tiene el permiso %s", domain.ErrForbidden, role, p))
		}
		return c.Next()
	}
}
