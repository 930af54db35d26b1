package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		// Case-sensitive, so "Fantasy" and "fantasy" can both exist.
		_, err := db.Exec(`CREATE UNIQUE INDEX ux_genres_name ON genres (name)`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`DROP INDEX IF EXISTS ux_genres_name`)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
