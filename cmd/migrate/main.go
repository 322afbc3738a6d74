// Command migrate runs schema operations against the configured postgres database.
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"recordhub/internal/config"
	"recordhub/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: migrate <up|down|status> [steps]")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.MigrateUp(cfg); err != nil {
			return err
		}
		log.Println("sql migrations applied")
	case "down":
		steps := 1
		if flag.NArg() > 1 {
			steps, err = strconv.Atoi(flag.Arg(1))
			if err != nil {
				return fmt.Errorf("invalid steps %q: %w", flag.Arg(1), err)
			}
		}
		if err := database.RollbackMigrations(cfg, steps); err != nil {
			return err
		}
		log.Printf("rolled back %d migration(s)", steps)
	case "status":
		status, err := database.GetSchemaStatus(cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		log.Printf("version=%d dirty=%t available=%d", status.Version, status.Dirty, status.Available)
	default:
		return usage()
	}
	return nil
}
