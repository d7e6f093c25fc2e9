package repository

import (
	"database/sql"

	log "github.com/sirupsen/logrus"

	"github.com/naevtamarkus/homeassistant-statistics-cli/config"
	"github.com/naevtamarkus/homeassistant-statistics-cli/models"
	"github.com/naevtamarkus/homeassistant-statistics-cli/sqls"
)

// Repository is the read side of the recorder database plus the transaction
// entry point used by the import run. The connection is exclusively owned by
// one run for its duration.
type Repository interface {
	Driver() string
	HasTable(name string) (bool, error)
	SchemaVersion() (int64, error)
	TableNames() ([]string, error)
	TableColumns(table string) ([]string, error)
	CountRows(table string) (int64, error)
	AllMetadata() ([]models.StatisticsMeta, error)
	MetadataIDByEntity(entity string) (int64, bool, error)
	ExistingMetadataIDs(ids []int64) (map[int64]bool, error)
	EntitySummaries(table string, after, before *float64) ([]models.EntityAggregate, error)
	ExportRows(table string, metadataID int64, filter models.ExportFilter) ([]models.StatisticRow, error)
	Begin() (*sql.Tx, error)
	Close()
}

type Impl struct {
	Db         *sql.DB
	DriverName string
}

var NewRepository = func(db *sql.DB, driver string) Repository {
	return &Impl{
		Db:         db,
		DriverName: driver,
	}
}

func (i *Impl) Driver() string {
	return i.DriverName
}

func (i *Impl) Close() {
	i.Db.Close()
}

func (i *Impl) Begin() (*sql.Tx, error) {
	return i.Db.Begin()
}

func (i *Impl) HasTable(name string) (bool, error) {
	var count int64
	err := i.Db.QueryRow(sqls.Rebind(i.DriverName, sqls.GetSQLHasTable(i.DriverName)), name).Scan(&count)
	if err != nil {
		log.Error(err)
		return false, err
	}
	return count > 0, nil
}

// SchemaVersion reads the latest recorder schema version. A database without
// a schema_changes table reports version 0, not an error.
func (i *Impl) SchemaVersion() (int64, error) {
	ok, err := i.HasTable(config.GetSchemaChangesTableName())
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	var version int64
	err = i.Db.QueryRow(sqls.GetSQLSelectSchemaVersion()).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		log.Error(err)
		return 0, err
	}
	return version, nil
}

func (i *Impl) TableNames() ([]string, error) {
	rows, err := i.Db.Query(sqls.GetSQLListTables(i.DriverName))
	if err != nil {
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			log.Error(err)
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// TableColumns discovers the column set of a table through a zero-row select,
// which works the same on every supported driver.
func (i *Impl) TableColumns(table string) ([]string, error) {
	rows, err := i.Db.Query(sqls.GetSQLSelectZeroRows(table))
	if err != nil {
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return rows.Columns()
}

func (i *Impl) CountRows(table string) (int64, error) {
	var count int64
	err := i.Db.QueryRow(sqls.GetSQLCountRows(table)).Scan(&count)
	if err != nil {
		log.Error(err)
		return 0, err
	}
	return count, nil
}

func (i *Impl) AllMetadata() ([]models.StatisticsMeta, error) {
	rows, err := i.Db.Query(sqls.GetSQLSelectAllMetadata())
	if err != nil {
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var metas []models.StatisticsMeta
	for rows.Next() {
		var m models.StatisticsMeta
		if err := rows.Scan(&m.ID, &m.StatisticID, &m.Source, &m.UnitOfMeasurement); err != nil {
			log.Error(err)
			return nil, err
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

func (i *Impl) MetadataIDByEntity(entity string) (int64, bool, error) {
	var id int64
	err := i.Db.QueryRow(sqls.Rebind(i.DriverName, sqls.GetSQLSelectMetadataIDByEntity()), entity).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		log.Error(err)
		return 0, false, err
	}
	return id, true, nil
}

// ExistingMetadataIDs runs the single batched existence check over the
// distinct metadata ids referenced by a run's insert intents.
func (i *Impl) ExistingMetadataIDs(ids []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := i.Db.Query(sqls.Rebind(i.DriverName, sqls.GetSQLSelectMetadataIDs(len(ids))), args...)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			log.Error(err)
			return nil, err
		}
		existing[id] = true
	}
	return existing, rows.Err()
}

func (i *Impl) EntitySummaries(table string, after, before *float64) ([]models.EntityAggregate, error) {
	query := sqls.GetSQLSelectEntitySummaries(table, after != nil, before != nil)
	var args []interface{}
	if after != nil {
		args = append(args, *after)
	}
	if before != nil {
		args = append(args, *before)
	}

	rows, err := i.Db.Query(sqls.Rebind(i.DriverName, query), args...)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var aggs []models.EntityAggregate
	for rows.Next() {
		var a models.EntityAggregate
		if err := rows.Scan(&a.MetadataID, &a.Count, &a.First, &a.Last); err != nil {
			log.Error(err)
			return nil, err
		}
		aggs = append(aggs, a)
	}
	return aggs, rows.Err()
}

func (i *Impl) ExportRows(table string, metadataID int64, filter models.ExportFilter) ([]models.StatisticRow, error) {
	query := sqls.GetSQLSelectExportRows(table, filter)
	args := []interface{}{metadataID}
	if filter.After != nil {
		args = append(args, *filter.After)
	}
	if filter.Before != nil {
		args = append(args, *filter.Before)
	}
	switch {
	case filter.Above != nil && filter.Below != nil:
		args = append(args, *filter.Above, *filter.Below, *filter.Above, *filter.Below, *filter.Above, *filter.Below)
	case filter.Above != nil:
		args = append(args, *filter.Above, *filter.Above, *filter.Above)
	case filter.Below != nil:
		args = append(args, *filter.Below, *filter.Below, *filter.Below)
	}

	rows, err := i.Db.Query(sqls.Rebind(i.DriverName, query), args...)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var result []models.StatisticRow
	for rows.Next() {
		var r models.StatisticRow
		err := rows.Scan(&r.ID, &r.CreatedTs, &r.MetadataID, &r.StartTs,
			&r.Mean, &r.Min, &r.Max, &r.LastReset, &r.LastResetTs, &r.State, &r.Sum)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
