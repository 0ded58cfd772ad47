package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds query-path indexes that are not declared as model tags.
// Postgres only; the pg_indexes check makes it safe to run repeatedly.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"tasks", "idx_tasks_status", "status"},
		{"tasks", "idx_tasks_created_at", "created_at"},
		{"tasks", "idx_tasks_owner_id", "owner_id"},
		{"audit_logs", "idx_audit_logs_action", "action"},
		{"audit_logs", "idx_audit_logs_resource", "resource"},
		{"roles", "idx_roles_name", "name"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Scan(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}
		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
