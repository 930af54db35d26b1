package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/locallibrary/pkg/config"
	"github.com/shishobooks/locallibrary/pkg/database"
	"github.com/shishobooks/locallibrary/pkg/migrations"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

type migratorAction func(c *cli.Context, migrator *migrate.Migrator) error

func main() {
	log := logger.New()

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	defer db.Close()

	migrator := migrate.NewMigrator(db, migrations.Migrations)
	with := func(action migratorAction) cli.ActionFunc {
		return func(c *cli.Context) error {
			return errors.WithStack(action(c, migrator))
		}
	}

	app := &cli.App{
		Name:  "migrations",
		Usage: "manage the catalog database schema",
		Commands: []*cli.Command{
			{Name: "init", Usage: "create migration tables", Action: with(initTables)},
			{Name: "migrate", Usage: "apply pending migrations", Action: with(migrateUp)},
			{Name: "rollback", Usage: "roll back the last migration group", Action: with(rollback)},
			{Name: "create", Usage: "create a Go migration", ArgsUsage: "<name words>", Action: with(create)},
			{Name: "status", Usage: "print migration status", Action: with(status)},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}

func initTables(c *cli.Context, migrator *migrate.Migrator) error {
	return migrator.Init(c.Context)
}

func migrateUp(c *cli.Context, migrator *migrate.Migrator) error {
	if err := migrator.Init(c.Context); err != nil {
		return err
	}
	group, err := migrator.Migrate(c.Context)
	if err != nil {
		return err
	}
	if group.ID == 0 {
		fmt.Println("There are no new migrations to run")
		return nil
	}
	fmt.Printf("Migrated to %s\n", group)
	return nil
}

func rollback(c *cli.Context, migrator *migrate.Migrator) error {
	group, err := migrator.Rollback(c.Context)
	if err != nil {
		return err
	}
	if group.ID == 0 {
		fmt.Println("There are no groups to roll back")
		return nil
	}
	fmt.Printf("Rolled back %s\n", group)
	return nil
}

func create(c *cli.Context, migrator *migrate.Migrator) error {
	if c.NArg() == 0 {
		return errors.New("a migration name is required")
	}
	name := strings.Join(c.Args().Slice(), "_")
	mf, err := migrator.CreateGoMigration(c.Context, name, migrate.WithGoTemplate(migrationTemplate))
	if err != nil {
		return err
	}
	fmt.Printf("Created migration %s (%s)\n", mf.Name, mf.Path)
	return nil
}

func status(c *cli.Context, migrator *migrate.Migrator) error {
	ms, err := migrator.MigrationsWithStatus(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("Migrations: %s\n", ms)
	fmt.Printf("Unapplied migrations: %s\n", ms.Unapplied())
	fmt.Printf("Last migration group: %s\n", ms.LastGroup())
	return nil
}

// The generated file lands in pkg/migrations and registers itself on
// Migrations.
const migrationTemplate = `package %s

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, "")
		return errors.WithStack(err)
	}

	down := func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, "")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
`
