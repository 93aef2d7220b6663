package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationFilesExist(t *testing.T) {
	migrationsDir := "../../migrations"

	// Check if migrations directory exists
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	// Expected migration files
	expectedMigrations := []string{
		"00001_create_users_table.sql",
		"00002_create_refresh_tokens_table.sql",
		"00003_create_products_table.sql",
		"00004_create_orders_table.sql",
		"00005_create_order_items_table.sql",
		"00006_create_addresses_table.sql",
	}

	for _, migration := range expectedMigrations {
		path := filepath.Join(migrationsDir, migration)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	migrationsDir := "../../migrations"

	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		content, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", file.Name(), err)
			continue
		}

		contentStr := string(content)

		// Check for goose Up directive
		if !strings.Contains(contentStr, "-- +goose Up") {
			t.Errorf("Migration file %s missing '-- +goose Up' directive", file.Name())
		}

		// Check for goose Down directive
		if !strings.Contains(contentStr, "-- +goose Down") {
			t.Errorf("Migration file %s missing '-- +goose Down' directive", file.Name())
		}

		// Check for StatementBegin/End
		if !strings.Contains(contentStr, "-- +goose StatementBegin") {
			t.Errorf("Migration file %s missing '-- +goose StatementBegin' directive", file.Name())
		}

		if !strings.Contains(contentStr, "-- +goose StatementEnd") {
			t.Errorf("Migration file %s missing '-- +goose StatementEnd' directive", file.Name())
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	migrationsDir := "../../migrations"

	expectedTables := map[string]string{
		"users":          "00001_create_users_table.sql",
		"refresh_tokens": "00002_create_refresh_tokens_table.sql",
		"products":       "00003_create_products_table.sql",
		"orders":         "00004_create_orders_table.sql",
		"order_items":    "00005_create_order_items_table.sql",
		"addresses":      "00006_create_addresses_table.sql",
	}

	for tableName, migrationFile := range expectedTables {
		path := filepath.Join(migrationsDir, migrationFile)
		content, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", migrationFile, err)
			continue
		}

		contentStr := string(content)

		// Check if migration creates the table
		createTableStmt := "CREATE TABLE IF NOT EXISTS " + tableName
		if !strings.Contains(contentStr, createTableStmt) {
			t.Errorf("Migration file %s does not create table %s", migrationFile, tableName)
		}

		// Check if migration has drop table in down section
		dropTableStmt := "DROP TABLE IF EXISTS " + tableName
		if !strings.Contains(contentStr, dropTableStmt) {
			t.Errorf("Migration file %s does not drop table %s in down section", migrationFile, tableName)
		}
	}
}

func TestOrdersTableHasStatusConstraint(t *testing.T) {
	migrationsDir := "../../migrations"
	path := filepath.Join(migrationsDir, "00004_create_orders_table.sql")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read orders migration: %v", err)
	}

	contentStr := string(content)

	// Check for status constraint with valid values
	requiredStatuses := []string{"pending", "confirmed", "shipped", "delivered", "cancelled", "failed", "paid"}
	for _, status := range requiredStatuses {
		if !strings.Contains(contentStr, status) {
			t.Errorf("Orders table status constraint missing value: %s", status)
		}
	}

	// Gateway order ids are reconciliation keys and must be unique
	if !strings.Contains(contentStr, "UNIQUE INDEX IF NOT EXISTS idx_orders_razorpay_order_id") {
		t.Error("Orders table missing unique index on razorpay_order_id")
	}
}

func TestOrderItemsTableHasQuantityAndFKConstraints(t *testing.T) {
	migrationsDir := "../../migrations"
	path := filepath.Join(migrationsDir, "00005_create_order_items_table.sql")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read order_items migration: %v", err)
	}

	contentStr := string(content)

	if !strings.Contains(contentStr, "CHECK (quantity >= 1)") {
		t.Error("Order items table missing quantity check constraint")
	}
	if !strings.Contains(contentStr, "REFERENCES orders(id) ON DELETE CASCADE") {
		t.Error("Order items table missing cascading order foreign key")
	}
	if !strings.Contains(contentStr, "REFERENCES products(id) ON DELETE RESTRICT") {
		t.Error("Order items table missing restricting product foreign key")
	}
}

func TestProductsTableHasSlugConstraint(t *testing.T) {
	migrationsDir := "../../migrations"
	path := filepath.Join(migrationsDir, "00003_create_products_table.sql")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read products migration: %v", err)
	}

	contentStr := string(content)

	if !strings.Contains(contentStr, "CONSTRAINT products_slug_key UNIQUE (slug)") {
		t.Error("Products table missing unique slug constraint")
	}
	if !strings.Contains(contentStr, "is_deleted BOOLEAN") {
		t.Error("Products table missing is_deleted column")
	}
}
