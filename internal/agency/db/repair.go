package db

import (
	"context"
	"strings"

	"github.com/stafflink/stafflink/internal/agency/db/models"
	"go.uber.org/zap"
)

// dateColumns lists, per date-bearing table, the columns that must stay
// loosely typed text.
var dateColumns = map[string][]string{
	models.Job{}.TableName():         {"start_date", "end_date"},
	models.EditRequest{}.TableName(): {"start_date", "end_date"},
}

// RepairDateColumns probes the date columns of the jobs and edit-request
// tables and rewrites any that are a native date/datetime type, or that
// carry a zero-date default, into nullable varchar. The check is
// idempotent and runs on start and again before each date-bearing write;
// a failed repair only logs, it never fails the calling operation.
func (r *Repository) RepairDateColumns(ctx context.Context) {
	targets := []struct {
		model interface{}
		table string
	}{
		{&models.Job{}, models.Job{}.TableName()},
		{&models.EditRequest{}, models.EditRequest{}.TableName()},
	}

	for _, target := range targets {
		model, table := target.model, target.table

		columnTypes, err := r.db.WithContext(ctx).Migrator().ColumnTypes(model)
		if err != nil {
			r.logger.Warn("failed to probe column types",
				zap.String("table", table),
				zap.Error(err),
			)
			continue
		}

		for _, ct := range columnTypes {
			if !contains(dateColumns[table], ct.Name()) {
				continue
			}
			if !needsRepair(ct.DatabaseTypeName(), defaultValue(ct)) {
				continue
			}
			r.logger.Warn("repairing date column",
				zap.String("table", table),
				zap.String("column", ct.Name()),
				zap.String("type", ct.DatabaseTypeName()),
			)
			r.alterToText(ctx, table, ct.Name())
		}
	}
}

func (r *Repository) alterToText(ctx context.Context, table, column string) {
	var stmts []string
	switch r.db.Dialector.Name() {
	case "postgres":
		stmts = []string{
			"ALTER TABLE " + table + " ALTER COLUMN " + column + " TYPE varchar(20) USING " + column + "::varchar",
			"ALTER TABLE " + table + " ALTER COLUMN " + column + " DROP DEFAULT",
			"ALTER TABLE " + table + " ALTER COLUMN " + column + " DROP NOT NULL",
		}
	case "mysql":
		stmts = []string{
			"ALTER TABLE " + table + " MODIFY COLUMN " + column + " VARCHAR(20) NULL DEFAULT NULL",
		}
	default:
		// sqlite stores everything as text already; nothing to repair.
		return
	}

	for _, stmt := range stmts {
		if err := r.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			r.logger.Warn("date column repair failed",
				zap.String("table", table),
				zap.String("column", column),
				zap.Error(err),
			)
			return
		}
	}
	r.logger.Info("date column repaired",
		zap.String("table", table),
		zap.String("column", column),
	)
}

func needsRepair(dbType, defaultVal string) bool {
	lower := strings.ToLower(dbType)
	if strings.Contains(lower, "date") || strings.Contains(lower, "time") {
		return true
	}
	return strings.HasPrefix(defaultVal, "0000-00-00")
}

func defaultValue(ct interface{ DefaultValue() (string, bool) }) string {
	v, ok := ct.DefaultValue()
	if !ok {
		return ""
	}
	return v
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
