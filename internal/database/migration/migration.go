package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id              SERIAL       PRIMARY KEY,
  user_name       TEXT         NOT NULL,
  email           TEXT         NOT NULL UNIQUE,
  password_hash   TEXT         NOT NULL,
  auth_type       TEXT         NOT NULL DEFAULT '',
  image_container TEXT,
  image_key       TEXT,
  state           INT          NOT NULL DEFAULT 1,
  created_at      TIMESTAMPTZ  NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_users_email",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_users_email ON users (email);`,
	},
	{
		Name: "create_index_users_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_users_created_at ON users (created_at);`,
	},
	{
		Name: "create_table_sales",
		SQL: `CREATE TABLE IF NOT EXISTS sales (
  id                  SERIAL       PRIMARY KEY,
  voucher_number      TEXT         NOT NULL,
  voucher_description TEXT         NOT NULL DEFAULT '',
  client              TEXT         NOT NULL DEFAULT '',
  warehouse           TEXT         NOT NULL DEFAULT '',
  observation         TEXT         NOT NULL DEFAULT '',
  sub_total           NUMERIC(12,2) NOT NULL DEFAULT 0,
  tax                 NUMERIC(12,2) NOT NULL DEFAULT 0,
  total_amount        NUMERIC(12,2) NOT NULL DEFAULT 0,
  state               INT          NOT NULL DEFAULT 1,
  created_at          TIMESTAMPTZ  NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_sales_voucher_number",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_sales_voucher_number ON sales (voucher_number);`,
	},
	{
		Name: "create_index_sales_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales (created_at);`,
	},
	{
		Name: "create_table_sale_details",
		SQL: `CREATE TABLE IF NOT EXISTS sale_details (
  id         SERIAL        PRIMARY KEY,
  sale_id    INT           NOT NULL REFERENCES sales (id) ON DELETE CASCADE,
  code       TEXT          NOT NULL,
  product    TEXT          NOT NULL,
  unit_price NUMERIC(12,2) NOT NULL DEFAULT 0,
  quantity   INT           NOT NULL CHECK (quantity > 0),
  total      NUMERIC(12,2) NOT NULL DEFAULT 0
);`,
	},
	{
		Name: "create_index_sale_details_sale_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_sale_details_sale_id ON sale_details (sale_id);`,
	},
}

// EnsureMigrated checks whether the 'users' sentinel table exists and runs
// the schema steps if it does not.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.users') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
