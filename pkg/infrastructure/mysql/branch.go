package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"salesrecords/pkg/domain/model"
)

type BranchRepository struct {
	db *sqlx.DB
}

func NewBranchRepository(db *sqlx.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

var _ model.BranchRepository = &BranchRepository{}

type branchRow struct {
	ID        uuid.UUID  `db:"id"`
	Name      string     `db:"name"`
	IsActive  bool       `db:"is_active"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

func (r branchRow) toModel() model.Branch {
	return model.Branch{
		ID:        r.ID,
		Name:      r.Name,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r *BranchRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *BranchRepository) Add(ctx context.Context, branch *model.Branch) error {
	_, err := ext(ctx, r.db).ExecContext(ctx, `
		INSERT INTO branches (id, name, is_active, created_at)
		VALUES (?, ?, ?, ?)`,
		branch.ID, branch.Name, branch.IsActive, branch.CreatedAt)
	return errors.Wrap(err, "insert branch")
}

func (r *BranchRepository) Find(ctx context.Context, id uuid.UUID) (*model.Branch, error) {
	var row branchRow
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, `
		SELECT id, name, is_active, created_at, updated_at
		FROM branches WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrBranchNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find branch")
	}
	branch := row.toModel()
	return &branch, nil
}

func (r *BranchRepository) FindAll(ctx context.Context) ([]model.Branch, error) {
	var rows []branchRow
	err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, `
		SELECT id, name, is_active, created_at, updated_at
		FROM branches ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "list branches")
	}
	branches := make([]model.Branch, 0, len(rows))
	for _, row := range rows {
		branches = append(branches, row.toModel())
	}
	return branches, nil
}

func (r *BranchRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Branch, error) {
	result := make(map[uuid.UUID]model.Branch, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, name, is_active, created_at, updated_at
		FROM branches WHERE id IN (?)`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "build branch batch query")
	}

	var rows []branchRow
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "batch find branches")
	}
	for _, row := range rows {
		result[row.ID] = row.toModel()
	}
	return result, nil
}

func (r *BranchRepository) Update(ctx context.Context, branch *model.Branch) error {
	now := time.Now().UTC()
	res, err := ext(ctx, r.db).ExecContext(ctx, `
		UPDATE branches SET name = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		branch.Name, branch.IsActive, now, branch.ID)
	if err != nil {
		return errors.Wrap(err, "update branch")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update branch")
	}
	if affected == 0 {
		return model.ErrBranchNotFound
	}
	branch.UpdatedAt = &now
	return nil
}
