package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Employee 人员参考记录
type Employee struct {
	IdentityCode string
	FullName     string
	WorkArea     string
}

// PostgresReferenceRepository 从 PostgreSQL 读取参考数据（只读）
// 表：employees(tn, full_name, work_area)，ble_tags(tag, description)
type PostgresReferenceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresReferenceRepository creates a new reference repository
func NewPostgresReferenceRepository(db *sql.DB, logger *zap.Logger) *PostgresReferenceRepository {
	return &PostgresReferenceRepository{
		db:     db,
		logger: logger,
	}
}

// LoadTagDescriptions 读取标签描述
func (r *PostgresReferenceRepository) LoadTagDescriptions(ctx context.Context) (map[string]string, error) {
	query := `
		SELECT tag::text, description
		FROM ble_tags
		WHERE description IS NOT NULL AND description <> ''
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ble_tags: %w", err)
	}
	defer rows.Close()

	tags := make(map[string]string)
	for rows.Next() {
		var tag, desc string
		if err := rows.Scan(&tag, &desc); err != nil {
			return nil, fmt.Errorf("failed to scan ble_tags row: %w", err)
		}
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags[tag] = strings.TrimSpace(desc)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ble_tags: %w", err)
	}
	return tags, nil
}

// LoadPeople 读取全部人员
func (r *PostgresReferenceRepository) LoadPeople(ctx context.Context) (map[string]string, map[string]string, error) {
	query := `
		SELECT tn, full_name, work_area
		FROM employees
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string)
	areas := make(map[string]string)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, nil, err
		}
		if emp.IdentityCode == "" {
			continue
		}
		if emp.FullName != "" {
			names[emp.IdentityCode] = emp.FullName
		}
		if emp.WorkArea != "" {
			areas[emp.IdentityCode] = emp.WorkArea
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return names, areas, nil
}

// GetEmployee 按工号查询，不存在返回 ErrReferenceNotFound
func (r *PostgresReferenceRepository) GetEmployee(ctx context.Context, identity string) (*Employee, error) {
	query := `
		SELECT tn, full_name, work_area
		FROM employees
		WHERE tn = $1
	`
	row := r.db.QueryRowContext(ctx, query, strings.TrimSpace(identity))
	emp, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: employee %s", ErrReferenceNotFound, identity)
		}
		return nil, err
	}
	return emp, nil
}

// FindEmployees 批量查询工号，返回存在的记录
func (r *PostgresReferenceRepository) FindEmployees(ctx context.Context, identities []string) ([]Employee, error) {
	if len(identities) == 0 {
		return []Employee{}, nil
	}
	query := `
		SELECT tn, full_name, work_area
		FROM employees
		WHERE tn = ANY($1)
		ORDER BY tn
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(identities))
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	r.logger.Debug("Found employees",
		zap.Int("requested", len(identities)),
		zap.Int("found", len(out)),
	)
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(s scanner) (*Employee, error) {
	var tn string
	var fullName, workArea sql.NullString
	if err := s.Scan(&tn, &fullName, &workArea); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan employee: %w", err)
	}
	return &Employee{
		IdentityCode: strings.TrimSpace(tn),
		FullName:     strings.TrimSpace(fullName.String),
		WorkArea:     strings.TrimSpace(workArea.String),
	}, nil
}
