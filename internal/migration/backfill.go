// Package migration implements the one-time credential backfill: it scans
// the users table for rows whose hash or fingerprint columns are still
// null, derives the missing values from the legacy plaintext columns, and
// writes them back. The job is idempotent — migrated rows drop out of the
// scan filter — so a failed run is recovered by simply running it again.
package migration

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/6Yass9/souli-studio-server/internal/auth"
	"github.com/6Yass9/souli-studio-server/internal/model"
	"github.com/6Yass9/souli-studio-server/internal/repository"
)

const (
	// PageSize rows are fetched per scan iteration. The offset always
	// advances by this amount, never by rows consumed: updated rows no
	// longer match the scan filter, so re-querying the same offset after a
	// write pass would skip or duplicate rows.
	PageSize = 200

	// SubBatchSize bounds how many per-row updates run between progress
	// reports.
	SubBatchSize = 50
)

// Store is the slice of the user repository the job needs.
type Store interface {
	ListMissingCredentials(ctx context.Context, offset, limit int) ([]model.User, error)
	UpdateCredentials(ctx context.Context, id string, patch repository.CredentialPatch) error
}

// Summary reports what a run did (or, under dry-run, would have done).
type Summary struct {
	Pages   int // scan pages fetched (excluding the final empty one)
	Scanned int // rows examined
	Staged  int // rows with at least one missing value to fill
	Updated int // rows actually written (always 0 under dry-run)
}

// Runner executes the backfill. Zero-value page sizes fall back to the
// package defaults; Logf defaults to log.Printf.
type Runner struct {
	Store    Store
	Salt     string // fingerprint salt, must match the login endpoint's
	DryRun   bool
	PageSize int
	SubBatch int
	Logf     func(format string, args ...any)
}

type stagedUpdate struct {
	id    string
	patch repository.CredentialPatch
}

// Run scans every page and applies staged updates. Any fetch or write
// error aborts immediately; partially applied pages are harmless because
// the filter excludes already-written rows on the next run.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	logf := r.Logf
	if logf == nil {
		logf = log.Printf
	}
	pageSize := r.PageSize
	if pageSize <= 0 {
		pageSize = PageSize
	}
	subBatch := r.SubBatch
	if subBatch <= 0 {
		subBatch = SubBatchSize
	}
	if r.Salt == "" {
		return Summary{}, fmt.Errorf("fingerprint salt is not configured")
	}

	var sum Summary
	for from := 0; ; from += pageSize {
		users, err := r.Store.ListMissingCredentials(ctx, from, pageSize)
		if err != nil {
			return sum, fmt.Errorf("fetch page at offset %d: %w", from, err)
		}
		if len(users) == 0 {
			break
		}
		sum.Pages++
		sum.Scanned += len(users)

		var updates []stagedUpdate
		for _, u := range users {
			patch, err := stageRow(u, r.Salt)
			if err != nil {
				return sum, fmt.Errorf("stage user %s: %w", u.ID, err)
			}
			if !patch.Empty() {
				updates = append(updates, stagedUpdate{id: u.ID, patch: patch})
			}
		}
		sum.Staged += len(updates)

		if len(updates) == 0 {
			continue
		}
		if r.DryRun {
			logf("would update %d users in range %d-%d", len(updates), from, from+pageSize-1)
			continue
		}
		for i := 0; i < len(updates); i += subBatch {
			end := i + subBatch
			if end > len(updates) {
				end = len(updates)
			}
			for _, up := range updates[i:end] {
				if err := r.Store.UpdateCredentials(ctx, up.id, up.patch); err != nil {
					return sum, fmt.Errorf("update user %s: %w", up.id, err)
				}
				sum.Updated++
			}
			logf("updated %d users so far", sum.Updated)
		}
	}

	if r.DryRun {
		logf("done (dry run): %d rows scanned, %d would be updated, no changes written", sum.Scanned, sum.Staged)
	} else {
		logf("done: %d rows scanned, %d updated", sum.Scanned, sum.Updated)
	}
	return sum, nil
}

// stageRow computes the missing credential values for one row. A hash is
// only ever derived from the current plaintext column, never regenerated
// from another hash, and an existing value is never overwritten.
func stageRow(u model.User, salt string) (repository.CredentialPatch, error) {
	var patch repository.CredentialPatch

	if model.IsStaffRole(u.Role) && u.PasswordHash == nil {
		if u.Password != nil && *u.Password != "" {
			h, err := auth.HashSecret(*u.Password)
			if err != nil {
				return patch, err
			}
			patch.PasswordHash = &h
		}
	}

	if u.Role == model.RoleClient {
		code := ""
		if u.LoginCode != nil {
			code = strings.TrimSpace(*u.LoginCode)
		}
		if auth.ValidCode(code) {
			if u.LoginCodeSHA == nil {
				sha := auth.FingerprintCode(code, salt)
				patch.LoginCodeSHA = &sha
			}
			if u.LoginCodeHash == nil {
				h, err := auth.HashSecret(code)
				if err != nil {
					return patch, err
				}
				patch.LoginCodeHash = &h
			}
		}
	}

	return patch, nil
}
