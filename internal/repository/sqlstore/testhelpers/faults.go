package testhelpers

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// FailWritesFor installs a trigger that aborts any insert or update of id,
// so a write fails inside the transaction after validation passed. The
// trigger is dropped on test cleanup.
func FailWritesFor(t testing.TB, tdb *TestDB, id string) {
	t.Helper()

	ctx := context.Background()
	literal := "'" + strings.ReplaceAll(id, "'", "''") + "'"

	var install, drop []string
	if tdb.DB.DriverName() == "sqlite" {
		install = []string{
			fmt.Sprintf(`CREATE TRIGGER fail_resource_insert BEFORE INSERT ON resources
				WHEN NEW.id = %s BEGIN SELECT RAISE(ABORT, 'boom'); END`, literal),
			fmt.Sprintf(`CREATE TRIGGER fail_resource_update BEFORE UPDATE ON resources
				WHEN NEW.id = %s BEGIN SELECT RAISE(ABORT, 'boom'); END`, literal),
		}
		drop = []string{
			`DROP TRIGGER IF EXISTS fail_resource_insert`,
			`DROP TRIGGER IF EXISTS fail_resource_update`,
		}
	} else {
		install = []string{
			fmt.Sprintf(`CREATE OR REPLACE FUNCTION fail_resource_write() RETURNS trigger AS $$
				BEGIN
					IF NEW.id = %s THEN
						RAISE EXCEPTION 'boom';
					END IF;
					RETURN NEW;
				END;
				$$ LANGUAGE plpgsql`, literal),
			`CREATE TRIGGER fail_resource_write BEFORE INSERT OR UPDATE ON resources
				FOR EACH ROW EXECUTE FUNCTION fail_resource_write()`,
		}
		drop = []string{
			`DROP TRIGGER IF EXISTS fail_resource_write ON resources`,
			`DROP FUNCTION IF EXISTS fail_resource_write()`,
		}
	}

	for _, stmt := range install {
		if _, err := tdb.DB.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("Failed to install write fault: %v", err)
		}
	}

	t.Cleanup(func() {
		for _, stmt := range drop {
			if _, err := tdb.DB.ExecContext(ctx, stmt); err != nil {
				t.Logf("Failed to drop write fault: %v", err)
			}
		}
	})
}
