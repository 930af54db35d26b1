package main

import (
	"context"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/locallibrary/pkg/config"
	"github.com/shishobooks/locallibrary/pkg/database"
	"github.com/shishobooks/locallibrary/pkg/migrations"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	var opts struct {
		Database string `short:"d" long:"database" description:"Path to the SQLite file (overrides DATABASE_FILE_PATH)"`
		Reset    bool   `short:"r" long:"reset" description:"Remove every catalog row before loading the sample data"`
		Authors  int    `short:"a" long:"random-authors" default:"0" description:"Number of extra authors with random names to add"`
	}

	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		log.Err(err).Fatal("flags parse error")
	}

	if opts.Database != "" {
		if err := os.Setenv("DATABASE_FILE_PATH", opts.Database); err != nil {
			log.Err(err).Fatal("setenv error")
		}
	}

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	defer db.Close()

	if _, err := migrations.BringUpToDate(ctx, db); err != nil {
		log.Err(err).Fatal("migrations error")
	}

	if opts.Reset {
		if err := reset(ctx, db); err != nil {
			log.Err(err).Fatal("reset error")
		}
		log.Info("catalog cleared")
	}

	s, err := seed(ctx, db)
	if err != nil {
		log.Err(err).Fatal("seed error")
	}
	if opts.Authors > 0 {
		extra, err := randomAuthors(ctx, db, opts.Authors)
		if err != nil {
			log.Err(err).Fatal("random authors error")
		}
		s.authors = append(s.authors, extra...)
	}

	log.Info("sample data loaded", logger.Data{
		"authors":        len(s.authors),
		"genres":         len(s.genres),
		"books":          len(s.books),
		"book_instances": len(s.instances),
	})
}
