package checks

import (
	"fmt"
	"reflect"
	"strings"

	"gorm.io/gorm"
)

// SchemaReport strictly types the result of a schema integrity check.
type SchemaReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	Exists         bool     `json:"exists"`
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckSchema verifies the database schema using the given gorm models as
// the source of truth.
func CheckSchema(db *gorm.DB, models ...any) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Driver:  db.Dialector.Name(),
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
		Matched: true,
	}

	migrator := db.Migrator()
	for _, model := range models {
		tabler, ok := model.(interface{ TableName() string })
		if !ok {
			return nil, fmt.Errorf("model %T does not implement TableName", model)
		}
		tableName := tabler.TableName()

		tbl := TableReport{MissingColumns: []string{}, Status: "ok"}
		if !migrator.HasTable(model) {
			tbl.Status = "error"
			tbl.MissingColumns = expectedColumns(model)
			report.Tables[tableName] = tbl
			report.Matched = false
			continue
		}
		tbl.Exists = true

		cols, err := migrator.ColumnTypes(model)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", tableName, err))
			report.Matched = false
			continue
		}
		actual := make(map[string]bool, len(cols))
		for _, col := range cols {
			actual[strings.ToLower(col.Name())] = true
		}

		for _, name := range expectedColumns(model) {
			if !actual[name] {
				tbl.MissingColumns = append(tbl.MissingColumns, name)
				tbl.Status = "error"
				report.Matched = false
			}
		}
		report.Tables[tableName] = tbl
	}

	return report, nil
}

// FixSchema creates missing tables and columns.
func FixSchema(db *gorm.DB, models ...any) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.AutoMigrate(models...)
}

// expectedColumns lists the column: names declared in the model's gorm tags.
func expectedColumns(model any) []string {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		if name := parseGormColumn(t.Field(i).Tag.Get("gorm")); name != "" {
			cols = append(cols, name)
		}
	}
	return cols
}

func parseGormColumn(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "column:") {
			return strings.TrimPrefix(p, "column:")
		}
	}
	return ""
}
