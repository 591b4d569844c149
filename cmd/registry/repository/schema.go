package repository

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/asaase-aban/registry/common/db"
)

//go:embed schema.sql
var schemaSQL string

// InitSchema applies the registry schema. Statements are idempotent, so
// this runs on every boot via the bootstrap DB init hook.
func InitSchema(ctx context.Context, database *db.DB) error {
	if _, err := database.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
