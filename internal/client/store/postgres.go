package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"ngx/internal/client/models"
	"ngx/pkg/domain"
	"ngx/pkg/platform/sentinel"
)

// Postgres persists clients in PostgreSQL. This store is pure I/O: every
// business rule lives in the entity or the service layer. Ordering is
// created_at then id on all list queries so pages are stable.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const clientColumns = `id, name, email, phone, program_type, status, notes, metadata, created_at, updated_at`

// Save upserts by id. The email unique index is the backstop for the
// service-level uniqueness check.
func (s *Postgres) Save(ctx context.Context, client *models.Client) error {
	metadata, err := json.Marshal(client.Metadata)
	if err != nil {
		return fmt.Errorf("marshal client metadata: %w", err)
	}

	var phone sql.NullString
	if client.Phone != nil {
		phone = sql.NullString{String: client.Phone.String(), Valid: true}
	}

	query := `
		INSERT INTO clients (id, name, email, phone, program_type, status, notes, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			program_type = EXCLUDED.program_type,
			status = EXCLUDED.status,
			notes = EXCLUDED.notes,
			metadata = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		client.ID.String(),
		client.Name,
		client.Email.String(),
		phone,
		client.ProgramType.String(),
		client.Status.String(),
		client.Notes,
		metadata,
		client.CreatedAt,
		client.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("save client: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("save client: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id domain.ClientID) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	client, err := scanClient(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find client by id: %w", err)
	}
	return client, nil
}

func (s *Postgres) FindByEmail(ctx context.Context, email domain.Email) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE email = $1`
	client, err := scanClient(s.db.QueryRowContext(ctx, query, email.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find client by email: %w", err)
	}
	return client, nil
}

func (s *Postgres) FindAll(ctx context.Context, page models.Page) ([]*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY created_at, id LIMIT $1 OFFSET $2`
	return s.queryClients(ctx, query, pageLimit(page), page.Offset)
}

func (s *Postgres) FindByStatus(ctx context.Context, status models.ClientStatus, page models.Page) ([]*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE status = $1 ORDER BY created_at, id LIMIT $2 OFFSET $3`
	return s.queryClients(ctx, query, status.String(), pageLimit(page), page.Offset)
}

func (s *Postgres) FindByProgramType(ctx context.Context, programType models.ProgramType, page models.Page) ([]*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE program_type = $1 ORDER BY created_at, id LIMIT $2 OFFSET $3`
	return s.queryClients(ctx, query, programType.String(), pageLimit(page), page.Offset)
}

func (s *Postgres) Search(ctx context.Context, searchQuery string, page models.Page) ([]*models.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE name ILIKE $1 OR email ILIKE $1 OR notes ILIKE $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`
	return s.queryClients(ctx, query, likePattern(searchQuery), pageLimit(page), page.Offset)
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM clients`)
}

func (s *Postgres) CountByStatus(ctx context.Context, status models.ClientStatus) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM clients WHERE status = $1`, status.String())
}

func (s *Postgres) CountByProgramType(ctx context.Context, programType models.ProgramType) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM clients WHERE program_type = $1`, programType.String())
}

func (s *Postgres) CountBySearch(ctx context.Context, searchQuery string) (int, error) {
	query := `SELECT COUNT(*) FROM clients WHERE name ILIKE $1 OR email ILIKE $1 OR notes ILIKE $1`
	return s.count(ctx, query, likePattern(searchQuery))
}

func (s *Postgres) Exists(ctx context.Context, id domain.ClientID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM clients WHERE id = $1)`, id.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check client exists: %w", err)
	}
	return exists, nil
}

func (s *Postgres) ExistsByEmail(ctx context.Context, email domain.Email) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM clients WHERE email = $1)`, email.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check client email exists: %w", err)
	}
	return exists, nil
}

func (s *Postgres) Delete(ctx context.Context, id domain.ClientID) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id.String())
	if err != nil {
		return false, fmt.Errorf("delete client: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete client rows affected: %w", err)
	}
	return affected > 0, nil
}

// AnalyticsData aggregates in SQL; rates are derived the same way the
// in-memory store derives them, from the shared models helpers.
func (s *Postgres) AnalyticsData(ctx context.Context, filter models.AnalyticsFilter) (*models.AnalyticsData, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.StartDate != nil {
		conditions = append(conditions, "created_at >= "+arg(*filter.StartDate))
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "created_at <= "+arg(*filter.EndDate))
	}
	if filter.ProgramType != nil {
		conditions = append(conditions, "program_type = "+arg(filter.ProgramType.String()))
	}

	query := `SELECT status, program_type, COUNT(*) FROM clients`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " GROUP BY status, program_type"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query analytics: %w", err)
	}
	defer rows.Close()

	data := models.NewAnalyticsData()
	for rows.Next() {
		var (
			status      string
			programType string
			n           int
		)
		if err := rows.Scan(&status, &programType, &n); err != nil {
			return nil, fmt.Errorf("scan analytics row: %w", err)
		}
		data.Add(models.ClientStatus(status), models.ProgramType(programType), n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analytics rows: %w", err)
	}
	data.Finalize()
	return data, nil
}

func (s *Postgres) queryClients(ctx context.Context, query string, args ...any) ([]*models.Client, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", err)
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client row: %w", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate client rows: %w", err)
	}
	return clients, nil
}

func (s *Postgres) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*models.Client, error) {
	var (
		idRaw    string
		emailRaw string
		phoneRaw sql.NullString
		program  string
		status   string
		metadata []byte
		client   models.Client
	)
	err := row.Scan(
		&idRaw,
		&client.Name,
		&emailRaw,
		&phoneRaw,
		&program,
		&status,
		&client.Notes,
		&metadata,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	id, err := domain.ParseClientID(idRaw)
	if err != nil {
		return nil, fmt.Errorf("stored client id invalid: %w", err)
	}
	client.ID = id

	email, err := domain.NewEmail(emailRaw)
	if err != nil {
		return nil, fmt.Errorf("stored client email invalid: %w", err)
	}
	client.Email = email

	if phoneRaw.Valid && phoneRaw.String != "" {
		phone, err := domain.NewPhoneNumber(phoneRaw.String)
		if err != nil {
			return nil, fmt.Errorf("stored client phone invalid: %w", err)
		}
		client.Phone = &phone
	}

	client.ProgramType = models.ProgramType(program)
	client.Status = models.ClientStatus(status)

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &client.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal client metadata: %w", err)
		}
	}
	return &client, nil
}

func likePattern(query string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(query)
	return "%" + escaped + "%"
}

func pageLimit(page models.Page) int {
	if page.Limit <= 0 {
		return 50
	}
	return page.Limit
}
