// migrate-credentials backfills the hash and fingerprint columns of the
// users table from the legacy plaintext credential columns. It is run
// manually, once per environment:
//
//	migrate-credentials --dry-run   # report what would change
//	migrate-credentials             # write the changes
//
// The job is idempotent: migrated rows drop out of its scan filter, so
// re-running after a failure picks up exactly where the data was left.
// The plaintext columns are kept for manual verification and dropped in a
// separate step once logins have been confirmed against the hashes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/6Yass9/souli-studio-server/internal/config"
	"github.com/6Yass9/souli-studio-server/internal/database"
	"github.com/6Yass9/souli-studio-server/internal/migration"
	"github.com/6Yass9/souli-studio-server/internal/repository"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report intended changes without writing")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.DBReady(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if cfg.LoginCodeSalt == "" {
		fmt.Fprintln(os.Stderr, "config: LOGIN_CODE_SALT is required")
		os.Exit(1)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if *dryRun {
		log.Printf("starting migration (dry run)")
	} else {
		log.Printf("starting migration")
	}

	runner := &migration.Runner{
		Store:  repository.NewUserRepo(db),
		Salt:   cfg.LoginCodeSalt,
		DryRun: *dryRun,
	}
	sum, err := runner.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "migration aborted: %v\n", err)
		os.Exit(1)
	}

	log.Printf("pages=%d scanned=%d staged=%d updated=%d", sum.Pages, sum.Scanned, sum.Staged, sum.Updated)
	if !*dryRun {
		log.Printf("after verifying logins you can drop the plaintext columns: password, login_code")
	}
}
