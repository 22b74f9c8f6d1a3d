// token emite un JWT de desarrollo firmado con JWT_SECRET para probar la API.
//
// Uso: go run ./cmd/token -user <id> -role GERENTE|AYUDANTE|ASISTENTE
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/jwt"
)

func main() {
	userID := flag.String("user", "dev", "id de usuario (claim user_id)")
	role := flag.String("role", "ASISTENTE", "rol: GERENTE, AYUDANTE o ASISTENTE")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *userID, strings.ToUpper(*role), cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generar token:", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
