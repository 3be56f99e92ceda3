package main

import (
	"database/sql"
	"fmt"
	"os"

	"oabpe-web/internal/config"
	"oabpe-web/internal/router"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
)

// Prints the HTTP routes without connecting anywhere: sql.Open does not dial.
func main() {
	app := fiber.New()

	db, _ := sql.Open("mysql", "user:password@tcp(localhost:3306)/database")
	defer db.Close()

	if _, err := router.Setup(app, sqlx.NewDb(db, "mysql"), nil, &config.Config{AppName: "routes"}); err != nil {
		fmt.Fprintf(os.Stderr, "setup routes: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Registered Routes ===")
	for _, route := range app.GetRoutes(true) {
		if route.Method == fiber.MethodHead {
			continue
		}
		fmt.Printf("%-8s %s\n", route.Method, route.Path)
	}
}
