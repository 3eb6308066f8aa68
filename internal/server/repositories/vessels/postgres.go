package vessels

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/shipagency/internal/common"
	"github.com/dmitrijs2005/shipagency/internal/dbx"
	"github.com/dmitrijs2005/shipagency/internal/models"
)

const selectColumns = `SELECT id, name, eta, etb, etd, berth, imo, cargo, fresh_water_quantity,
		 svc_fresh_water, svc_provisions, svc_waste_disposal,
		 req_pilotage, req_towage, req_linesmen,
		 status, created_by, created_at, updated_at
		 FROM vessels`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVessel(row rowScanner) (*models.Vessel, error) {
	v := &models.Vessel{}
	var (
		etb, etd  sql.NullTime
		fwq       sql.NullFloat64
		createdBy sql.NullString
		status    string
	)

	err := row.Scan(&v.ID, &v.Name, &v.ETA, &etb, &etd, &v.Berth, &v.IMO, &v.Cargo, &fwq,
		&v.Services.FreshWater, &v.Services.Provisions, &v.Services.WasteDisposal,
		&v.Requests.Pilotage, &v.Requests.Towage, &v.Requests.Linesmen,
		&status, &createdBy, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}

	v.ETA = v.ETA.UTC()
	if etb.Valid {
		t := etb.Time.UTC()
		v.ETB = &t
	}
	if etd.Valid {
		t := etd.Time.UTC()
		v.ETD = &t
	}
	if fwq.Valid {
		q := fwq.Float64
		v.FreshWaterQuantity = &q
	}
	v.Status = models.Status(status)
	v.CreatedBy = createdBy.String
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()
	return v, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Vessel, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+`
		 ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Vessel, 0)
	for rows.Next() {
		v, err := scanVessel(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Vessel, error) {
	return r.getOne(ctx, selectColumns+`
		 WHERE id = $1`, id)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Vessel, error) {
	return r.getOne(ctx, selectColumns+`
		 WHERE id = $1
		 FOR UPDATE`, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query, id string) (*models.Vessel, error) {
	v, err := scanVessel(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) Create(ctx context.Context, v *models.Vessel) error {
	query :=
		`INSERT INTO vessels (id, name, eta, etb, etd, berth, imo, cargo, fresh_water_quantity,
		 svc_fresh_water, svc_provisions, svc_waste_disposal,
		 req_pilotage, req_towage, req_linesmen,
		 status, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.Name, v.ETA, nullTime(v.ETB), nullTime(v.ETD), v.Berth, v.IMO, v.Cargo, nullFloat(v.FreshWaterQuantity),
		v.Services.FreshWater, v.Services.Provisions, v.Services.WasteDisposal,
		v.Requests.Pilotage, v.Requests.Towage, v.Requests.Linesmen,
		string(v.Status), nullString(v.CreatedBy), v.CreatedAt, v.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrConflict
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, v *models.Vessel) error {
	query :=
		`UPDATE vessels SET name = $2, eta = $3, etb = $4, etd = $5, berth = $6, imo = $7, cargo = $8,
		 fresh_water_quantity = $9,
		 svc_fresh_water = $10, svc_provisions = $11, svc_waste_disposal = $12,
		 req_pilotage = $13, req_towage = $14, req_linesmen = $15,
		 status = $16, updated_at = $17
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		v.ID, v.Name, v.ETA, nullTime(v.ETB), nullTime(v.ETD), v.Berth, v.IMO, v.Cargo, nullFloat(v.FreshWaterQuantity),
		v.Services.FreshWater, v.Services.Provisions, v.Services.WasteDisposal,
		v.Requests.Pilotage, v.Requests.Towage, v.Requests.Linesmen,
		string(v.Status), v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vessels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
