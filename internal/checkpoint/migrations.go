package checkpoint

import (
	"embed"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

func initMigrations() {
	goose.SetBaseFS(migrationFS)
}
