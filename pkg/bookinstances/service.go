package bookinstances

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shishobooks/locallibrary/pkg/errcodes"
	"github.com/shishobooks/locallibrary/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveBookInstanceOptions struct {
	ID *string
}

type ListBookInstancesOptions struct {
	Status *string
}

type UpdateBookInstanceOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateBookInstance(ctx context.Context, instance *models.BookInstance) error {
	id, err := uuid.NewRandom()
	if err != nil {
		return errors.WithStack(err)
	}
	instance.ID = id.String()

	now := time.Now()
	if instance.CreatedAt.IsZero() {
		instance.CreatedAt = now
	}
	instance.UpdatedAt = instance.CreatedAt
	if instance.Status == "" {
		instance.Status = models.BookInstanceStatusMaintenance
	}
	if instance.DueBack.IsZero() {
		instance.DueBack = now
	}

	_, err = svc.db.
		NewInsert().
		Model(instance).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

// RetrieveBookInstance returns a copy with its book.
func (svc *Service) RetrieveBookInstance(ctx context.Context, opts RetrieveBookInstanceOptions) (*models.BookInstance, error) {
	instance := &models.BookInstance{}

	q := svc.db.
		NewSelect().
		Model(instance).
		Relation("Book")

	if opts.ID != nil {
		q = q.Where("bi.id = ?", *opts.ID)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book copy")
		}
		return nil, errors.WithStack(err)
	}

	return instance, nil
}

// ListBookInstances returns copies with their books.
func (svc *Service) ListBookInstances(ctx context.Context, opts ListBookInstancesOptions) ([]*models.BookInstance, error) {
	instances := []*models.BookInstance{}

	q := svc.db.
		NewSelect().
		Model(&instances).
		Relation("Book").
		Order("bi.created_at ASC")

	if opts.Status != nil {
		q = q.Where("bi.status = ?", *opts.Status)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return instances, nil
}

func (svc *Service) UpdateBookInstance(ctx context.Context, instance *models.BookInstance, opts UpdateBookInstanceOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	instance.UpdatedAt = time.Now()
	columns := append(append([]string{}, opts.Columns...), "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(instance).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Book copy")
	}
	return nil
}

// DeleteBookInstance removes a copy. Removing one that's already gone is not
// an error.
func (svc *Service) DeleteBookInstance(ctx context.Context, id string) error {
	_, err := svc.db.NewDelete().
		Model((*models.BookInstance)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return errors.WithStack(err)
}
