package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/resource-store/internal/domain"
	"github.com/resource-store/internal/domain/repository"
	apperrors "github.com/resource-store/internal/pkg/errors"
)

const resourceColumns = `
	id, name, description, type, latitude, longitude, address,
	phone, email, website, availability, place_id, rating, rating_count, tags,
	created_at, updated_at`

const upsertResourceQuery = `
	INSERT INTO resources (
		id, name, description, type, latitude, longitude, address,
		phone, email, website, availability, place_id, rating, rating_count, tags,
		search_text, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		name         = excluded.name,
		description  = excluded.description,
		type         = excluded.type,
		latitude     = excluded.latitude,
		longitude    = excluded.longitude,
		address      = excluded.address,
		phone        = excluded.phone,
		email        = excluded.email,
		website      = excluded.website,
		availability = excluded.availability,
		place_id     = excluded.place_id,
		rating       = excluded.rating,
		rating_count = excluded.rating_count,
		tags         = excluded.tags,
		search_text  = excluded.search_text,
		created_at   = excluded.created_at,
		updated_at   = excluded.updated_at`

// sqlite по умолчанию ограничивает число параметров запроса
const deleteChunkSize = 500

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type resourceRow struct {
	ID           string   `db:"id"`
	Name         string   `db:"name"`
	Description  string   `db:"description"`
	Type         string   `db:"type"`
	Latitude     float64  `db:"latitude"`
	Longitude    float64  `db:"longitude"`
	Address      string   `db:"address"`
	Phone        *string  `db:"phone"`
	Email        *string  `db:"email"`
	Website      *string  `db:"website"`
	Availability *string  `db:"availability"`
	PlaceID      *string  `db:"place_id"`
	Rating       *float64 `db:"rating"`
	RatingCount  *int64   `db:"rating_count"`
	Tags         *string  `db:"tags"`
	CreatedAt    int64    `db:"created_at"`
	UpdatedAt    int64    `db:"updated_at"`
}

func (row *resourceRow) toDomain(logger *zap.Logger) *domain.Resource {
	r := &domain.Resource{
		ID:           row.ID,
		Name:         row.Name,
		Description:  row.Description,
		Type:         domain.NormalizeResourceType(row.Type),
		Latitude:     row.Latitude,
		Longitude:    row.Longitude,
		Address:      row.Address,
		Phone:        row.Phone,
		Email:        row.Email,
		Website:      row.Website,
		Availability: row.Availability,
		PlaceID:      row.PlaceID,
		Rating:       row.Rating,
		CreatedAt:    time.UnixMicro(row.CreatedAt).UTC(),
		UpdatedAt:    time.UnixMicro(row.UpdatedAt).UTC(),
	}
	if row.RatingCount != nil {
		v := int(*row.RatingCount)
		r.RatingCount = &v
	}
	if row.Tags != nil && *row.Tags != "" {
		if err := json.Unmarshal([]byte(*row.Tags), &r.Tags); err != nil {
			logger.Warn("Failed to unmarshal tags", zap.String("id", row.ID), zap.Error(err))
		}
	}
	return r
}

func upsertArgs(r *domain.Resource) ([]interface{}, error) {
	var tags *string
	if len(r.Tags) > 0 {
		raw, err := json.Marshal(r.Tags)
		if err != nil {
			return nil, err
		}
		s := string(raw)
		tags = &s
	}

	var ratingCount *int64
	if r.RatingCount != nil {
		v := int64(*r.RatingCount)
		ratingCount = &v
	}

	return []interface{}{
		r.ID, r.Name, r.Description, string(r.Type), r.Latitude, r.Longitude, r.Address,
		r.Phone, r.Email, r.Website, r.Availability, r.PlaceID, r.Rating, ratingCount, tags,
		foldSearchText(r.Name, r.Description), r.CreatedAt.UnixMicro(), r.UpdatedAt.UnixMicro(),
	}, nil
}

// foldSearchText - lowercased name и description для поиска по подстроке.
// Folded in Go: SQLite LOWER() only knows ASCII.
func foldSearchText(name, description string) string {
	return strings.ToLower(name + "\n" + description)
}

type resourceRepository struct {
	db     *sqlx.DB
	logger *zap.Logger

	// один писатель на процесс
	writeMu sync.Mutex
	now     func() time.Time
}

func NewResourceRepository(db *DB) repository.ResourceRepository {
	return &resourceRepository{
		db:     db.DB,
		logger: db.logger,
		now:    time.Now,
	}
}

func (r *resourceRepository) GetAll(ctx context.Context) ([]*domain.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources ORDER BY name ASC, id ASC`
	return r.selectResources(ctx, "get all", query)
}

func (r *resourceRepository) Get(ctx context.Context, id string) (*domain.Resource, error) {
	query := r.db.Rebind(`SELECT ` + resourceColumns + ` FROM resources WHERE id = ?`)

	var row resourceRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get resource", zap.String("id", id), zap.Error(err))
		return nil, apperrors.ErrStorageRead.Wrap(err)
	}

	return row.toDomain(r.logger), nil
}

func (r *resourceRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM resources WHERE id = ?`)

	var n int
	if err := r.db.GetContext(ctx, &n, query, id); err != nil {
		r.logger.Error("Failed to check resource existence", zap.String("id", id), zap.Error(err))
		return false, apperrors.ErrStorageRead.Wrap(err)
	}
	return n > 0, nil
}

func (r *resourceRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM resources`); err != nil {
		r.logger.Error("Failed to count resources", zap.Error(err))
		return 0, apperrors.ErrStorageRead.Wrap(err)
	}
	return n, nil
}

func (r *resourceRepository) Search(ctx context.Context, query string) ([]*domain.Resource, error) {
	if query == "" {
		return r.GetAll(ctx)
	}

	clause, args := textClause(query)
	sqlQuery := r.db.Rebind(`SELECT ` + resourceColumns + ` FROM resources WHERE ` + clause + ` ORDER BY name ASC, id ASC`)
	return r.selectResources(ctx, "search", sqlQuery, args...)
}

func (r *resourceRepository) SearchByRegion(ctx context.Context, q domain.RegionQuery) ([]*domain.Resource, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	box := domain.NewBoundingBox(q.Center, q.RadiusMeters)

	conditions := []string{"latitude BETWEEN ? AND ?"}
	args := []interface{}{box.MinLat, box.MaxLat}

	if !box.UnboundedLon {
		conditions = append(conditions, "longitude BETWEEN ? AND ?")
		args = append(args, box.MinLon, box.MaxLon)
	}

	if q.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, string(q.Type.Normalize()))
	}

	if q.Query != "" {
		clause, textArgs := textClause(q.Query)
		conditions = append(conditions, clause)
		args = append(args, textArgs...)
	}

	sqlQuery := r.db.Rebind(`SELECT ` + resourceColumns + ` FROM resources WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY name ASC, id ASC`)

	return r.selectResources(ctx, "search by region", sqlQuery, args...)
}

func textClause(q string) (string, []interface{}) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
	return `search_text LIKE ? ESCAPE '\'`, []interface{}{pattern}
}

func (r *resourceRepository) selectResources(ctx context.Context, op, query string, args ...interface{}) ([]*domain.Resource, error) {
	var rows []resourceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.Error("Failed to read resources", zap.String("op", op), zap.Error(err))
		return nil, apperrors.ErrStorageRead.Wrap(err)
	}

	out := make([]*domain.Resource, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain(r.logger))
	}
	return out, nil
}

func (r *resourceRepository) Save(ctx context.Context, res *domain.Resource) error {
	return r.SaveAll(ctx, []*domain.Resource{res})
}

// SaveAll upserts the batch in one transaction. Validation runs on the whole
// batch before anything is written; the callers' structs receive the stored
// values only after commit.
func (r *resourceRepository) SaveAll(ctx context.Context, resources []*domain.Resource) error {
	if len(resources) == 0 {
		return nil
	}

	prepared := make([]*domain.Resource, len(resources))
	for i, res := range resources {
		if res == nil {
			return apperrors.ErrValidation.WithDetails(map[string]interface{}{"index": i, "resource": "required"})
		}
		cp := res.Clone()
		cp.Normalize()
		if cp.ID == "" {
			cp.ID = uuid.NewString()
		}
		if err := cp.Validate(); err != nil {
			return err
		}
		prepared[i] = cp
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	err := r.inTx(ctx, "save", func(tx *sqlx.Tx) error {
		now := r.now()
		for _, cp := range prepared {
			stored, err := storedCreatedAt(ctx, tx, cp.ID)
			if err != nil {
				return err
			}
			cp.StampTimes(stored, now)
			if err := upsert(ctx, tx, cp); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for i := range resources {
		*resources[i] = *prepared[i]
	}

	r.logger.Debug("Resources saved", zap.Int("count", len(prepared)))
	return nil
}

// Update performs read-modify-write under the write lock. The mutator sees a
// copy; ID and CreatedAt are restored after it runs.
func (r *resourceRepository) Update(
	ctx context.Context,
	id string,
	mutate func(*domain.Resource) error,
) (*domain.Resource, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	var (
		updated  *domain.Resource
		abortErr error
	)
	err := r.inTx(ctx, "update", func(tx *sqlx.Tx) error {
		var row resourceRow
		err := tx.GetContext(ctx, &row, tx.Rebind(`SELECT `+resourceColumns+` FROM resources WHERE id = ?`), id)
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.ErrResourceNotFound.WithDetails(map[string]interface{}{"id": id})
		}
		if err != nil {
			return err
		}

		current := row.toDomain(r.logger)
		working := current.Clone()
		if err := mutate(working); err != nil {
			abortErr = err
			return err
		}

		working.ID = current.ID
		working.CreatedAt = current.CreatedAt
		working.Normalize()
		if err := working.Validate(); err != nil {
			return err
		}

		working.StampTimes(current.CreatedAt, r.now())
		if err := upsert(ctx, tx, working); err != nil {
			return err
		}

		updated = working
		return nil
	})
	if abortErr != nil {
		// ошибка мутатора возвращается как есть
		return nil, abortErr
	}
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *resourceRepository) Delete(ctx context.Context, id string) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	return r.inTx(ctx, "delete", func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM resources WHERE id = ?`), id)
		return err
	})
}

func (r *resourceRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	return r.inTx(ctx, "delete by ids", func(tx *sqlx.Tx) error {
		for start := 0; start < len(ids); start += deleteChunkSize {
			end := start + deleteChunkSize
			if end > len(ids) {
				end = len(ids)
			}

			query, args, err := sqlx.In(`DELETE FROM resources WHERE id IN (?)`, ids[start:end])
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *resourceRepository) DeleteAll(ctx context.Context) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	return r.inTx(ctx, "delete all", func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM resources`)
		return err
	})
}

// inTx runs fn in a transaction. AppErrors from fn pass through untouched,
// anything else becomes ErrStorageWrite after rollback.
func (r *resourceRepository) inTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.String("op", op), zap.Error(err))
		return apperrors.ErrStorageWrite.Wrap(err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Warn("Rollback failed", zap.String("op", op), zap.Error(rbErr))
		}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		r.logger.Error("Write failed", zap.String("op", op), zap.Error(err))
		return apperrors.ErrStorageWrite.Wrap(err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit", zap.String("op", op), zap.Error(err))
		return apperrors.ErrStorageWrite.Wrap(err)
	}
	return nil
}

func storedCreatedAt(ctx context.Context, tx *sqlx.Tx, id string) (time.Time, error) {
	var micros int64
	err := tx.GetContext(ctx, &micros, tx.Rebind(`SELECT created_at FROM resources WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMicro(micros).UTC(), nil
}

func upsert(ctx context.Context, tx *sqlx.Tx, res *domain.Resource) error {
	args, err := upsertArgs(res)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(upsertResourceQuery), args...)
	return err
}
