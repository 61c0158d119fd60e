package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/lunaria-app/lunaria/internal/domain"

	_ "modernc.org/sqlite" // Register SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// SiteRepository implements domain.SiteRepository using SQLite.
//
// The UNIQUE constraint on the subdomain column is the system's single
// strong consistency guarantee: provisioning retries are layered on top
// of it, never a replacement for it.
type SiteRepository struct {
	db *sql.DB
}

// Compile-time check: SiteRepository implements domain.SiteRepository.
var _ domain.SiteRepository = (*SiteRepository)(nil)

// New opens a SQLite database, runs migrations, and returns a ready repository.
func New(dataSourceName string) (*SiteRepository, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Enable foreign keys (off by default in SQLite).
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return NewFromDB(db)
}

// NewFromDB wraps an existing database connection, runs migrations, and returns a ready repository.
// Use this when the *sql.DB has been pre-configured (e.g., with otelsql instrumentation).
func NewFromDB(db *sql.DB) (*SiteRepository, error) {
	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return &SiteRepository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *SiteRepository) Close() error {
	return r.db.Close()
}

// DB returns the underlying database connection for use by other adapters (e.g., river).
func (r *SiteRepository) DB() *sql.DB {
	return r.db
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

const timeFormat = "2006-01-02T15:04:05.000Z"

const siteColumns = `id, subdomain, primary_name, secondary_name, published,
	published_at, unpublished_at, features, created_at, updated_at`

func (r *SiteRepository) Create(ctx context.Context, s domain.Site) error {
	features, err := json.Marshal(s.Features)
	if err != nil {
		return fmt.Errorf("encoding features: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sites (`+siteColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Subdomain, s.PrimaryName, s.SecondaryName, boolToInt(s.Published),
		nullTime(s.PublishedAt), nullTime(s.UnpublishedAt), string(features),
		s.CreatedAt.Format(timeFormat),
		s.UpdatedAt.Format(timeFormat),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.SubdomainConflictError{Subdomain: s.Subdomain}
		}
		return fmt.Errorf("inserting site: %w", err)
	}
	return nil
}

func (r *SiteRepository) GetByID(ctx context.Context, id string) (domain.Site, error) {
	return r.scanSite(r.db.QueryRowContext(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE id = ?`, id,
	))
}

func (r *SiteRepository) GetBySubdomain(ctx context.Context, subdomain string) (domain.Site, error) {
	return r.scanSite(r.db.QueryRowContext(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE subdomain = ?`, subdomain,
	))
}

func (r *SiteRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites`
	var args []any

	if filter.Status != nil {
		query += ` WHERE published = ?`
		args = append(args, boolToInt(*filter.Status == domain.StatusPublished))
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sites: %w", err)
	}
	defer rows.Close()

	var sites []domain.Site
	for rows.Next() {
		s, err := r.scanSiteFromRows(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}

	return sites, rows.Err()
}

func (r *SiteRepository) Update(ctx context.Context, s domain.Site) error {
	features, err := json.Marshal(s.Features)
	if err != nil {
		return fmt.Errorf("encoding features: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE sites SET subdomain = ?, primary_name = ?, secondary_name = ?,
		 features = ?, updated_at = ?
		 WHERE id = ?`,
		s.Subdomain, s.PrimaryName, s.SecondaryName, string(features),
		time.Now().UTC().Format(timeFormat), s.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.SubdomainConflictError{Subdomain: s.Subdomain}
		}
		return fmt.Errorf("updating site: %w", err)
	}

	return checkAffected(result)
}

// SetPublication flips the publication flag and stamps the timestamp of
// the transition that ran: published_at on publish, unpublished_at on
// unpublish. The other timestamp is left untouched.
func (r *SiteRepository) SetPublication(ctx context.Context, id string, published bool, at time.Time) (domain.Site, error) {
	column := "unpublished_at"
	if published {
		column = "published_at"
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE sites SET published = ?, `+column+` = ?, updated_at = ?
		 WHERE id = ?`,
		boolToInt(published), at.Format(timeFormat),
		time.Now().UTC().Format(timeFormat), id,
	)
	if err != nil {
		return domain.Site{}, fmt.Errorf("updating publication state: %w", err)
	}

	if err := checkAffected(result); err != nil {
		return domain.Site{}, err
	}

	return r.GetByID(ctx, id)
}

func checkAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrSiteNotFound
	}
	return nil
}

// scanSite scans a single row from QueryRow into a domain.Site.
func (r *SiteRepository) scanSite(row *sql.Row) (domain.Site, error) {
	s, err := scanSiteFields(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Site{}, domain.ErrSiteNotFound
	}
	if err != nil {
		return domain.Site{}, fmt.Errorf("scanning site: %w", err)
	}
	return s, nil
}

// scanSiteFromRows scans a single row from Rows (used in List).
func (r *SiteRepository) scanSiteFromRows(rows *sql.Rows) (domain.Site, error) {
	s, err := scanSiteFields(rows.Scan)
	if err != nil {
		return domain.Site{}, fmt.Errorf("scanning site row: %w", err)
	}
	return s, nil
}

func scanSiteFields(scan func(dest ...any) error) (domain.Site, error) {
	var s domain.Site
	var published int
	var publishedAt, unpublishedAt sql.NullString
	var features, createdAt, updatedAt string

	err := scan(&s.ID, &s.Subdomain, &s.PrimaryName, &s.SecondaryName, &published,
		&publishedAt, &unpublishedAt, &features, &createdAt, &updatedAt)
	if err != nil {
		return domain.Site{}, err
	}

	s.Published = published != 0
	s.PublishedAt = parseNullTime(publishedAt)
	s.UnpublishedAt = parseNullTime(unpublishedAt)
	s.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	s.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)

	if err := json.Unmarshal([]byte(features), &s.Features); err != nil {
		return domain.Site{}, fmt.Errorf("decoding features: %w", err)
	}

	return s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(timeFormat)
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(timeFormat, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
