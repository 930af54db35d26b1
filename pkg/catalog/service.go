package catalog

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shishobooks/locallibrary/pkg/join"
	"github.com/shishobooks/locallibrary/pkg/models"
	"github.com/uptrace/bun"
)

type Counts struct {
	Books                  int
	BookInstances          int
	AvailableBookInstances int
	Authors                int
	Genres                 int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Counts tallies every entity concurrently. Any failed count fails the whole
// call.
func (svc *Service) Counts(ctx context.Context) (*Counts, error) {
	counts := &Counts{}
	err := join.All(ctx,
		svc.count(&counts.Books, (*models.Book)(nil), nil),
		svc.count(&counts.BookInstances, (*models.BookInstance)(nil), nil),
		svc.count(&counts.AvailableBookInstances, (*models.BookInstance)(nil), func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("bi.status = ?", models.BookInstanceStatusAvailable)
		}),
		svc.count(&counts.Authors, (*models.Author)(nil), nil),
		svc.count(&counts.Genres, (*models.Genre)(nil), nil),
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return counts, nil
}

func (svc *Service) count(dest *int, model any, filter func(*bun.SelectQuery) *bun.SelectQuery) join.Lookup {
	return func(ctx context.Context) error {
		q := svc.db.NewSelect().Model(model)
		if filter != nil {
			q = filter(q)
		}
		n, err := q.Count(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		*dest = n
		return nil
	}
}
