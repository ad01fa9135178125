// migrate applies the embedded database migrations: go run ./cmd/migrate [-direction up|down]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nikhil/teamtask/internal/config"
	"github.com/nikhil/teamtask/internal/database"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if err := database.Migrate(cfg.MigrateDSN(), *direction); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
	fmt.Println("migrations applied")
}
