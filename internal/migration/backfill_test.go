package migration

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/6Yass9/souli-studio-server/internal/auth"
	"github.com/6Yass9/souli-studio-server/internal/model"
	"github.com/6Yass9/souli-studio-server/internal/repository"
)

const testSalt = "test-salt"

func strPtr(s string) *string { return &s }

// fakeStore pages over a stable scan of the rows that needed backfill when
// the store was opened, the way one job run sees the table. Updates mutate
// the row state, so a store re-opened on the same rows (a second run)
// starts from a fresh, smaller scan.
type fakeStore struct {
	rows      map[string]*model.User
	scan      []string // ids in scan order
	listCalls []int    // offsets requested
	updates   int
	failAt    int // fail the nth update (1-based), 0 disables
	listErr   error
}

func newFakeStore(users ...model.User) *fakeStore {
	f := &fakeStore{rows: make(map[string]*model.User)}
	for i := range users {
		u := users[i]
		f.rows[u.ID] = &u
		if u.PasswordHash == nil || u.LoginCodeSHA == nil || u.LoginCodeHash == nil {
			f.scan = append(f.scan, u.ID)
		}
	}
	return f
}

func (f *fakeStore) ListMissingCredentials(ctx context.Context, offset, limit int) ([]model.User, error) {
	f.listCalls = append(f.listCalls, offset)
	if f.listErr != nil {
		return nil, f.listErr
	}
	if offset >= len(f.scan) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.scan) {
		end = len(f.scan)
	}
	var out []model.User
	for _, id := range f.scan[offset:end] {
		out = append(out, *f.rows[id])
	}
	return out, nil
}

func (f *fakeStore) UpdateCredentials(ctx context.Context, id string, patch repository.CredentialPatch) error {
	f.updates++
	if f.failAt > 0 && f.updates >= f.failAt {
		return fmt.Errorf("injected write failure")
	}
	u := f.rows[id]
	if patch.PasswordHash != nil {
		u.PasswordHash = patch.PasswordHash
	}
	if patch.LoginCodeSHA != nil {
		u.LoginCodeSHA = patch.LoginCodeSHA
	}
	if patch.LoginCodeHash != nil {
		u.LoginCodeHash = patch.LoginCodeHash
	}
	return nil
}

func (f *fakeStore) currentRows() []model.User {
	var out []model.User
	for _, id := range f.scan {
		out = append(out, *f.rows[id])
	}
	return out
}

func discardLog(string, ...any) {}

func TestBackfillStaffPassword(t *testing.T) {
	store := newFakeStore(model.User{
		ID:       "u1",
		Role:     model.RoleAdmin,
		Password: strPtr("hunter2"),
	})
	r := &Runner{Store: store, Salt: testSalt, Logf: discardLog}

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Updated)

	u := store.rows["u1"]
	require.NotNil(t, u.PasswordHash)
	ok, err := auth.VerifySecret("hunter2", *u.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok, "backfilled hash must verify the legacy password")
	assert.Nil(t, u.LoginCodeSHA, "staff rows never get code credentials")
	assert.Nil(t, u.LoginCodeHash)
}

func TestBackfillClientCode(t *testing.T) {
	store := newFakeStore(model.User{
		ID:        "c1",
		Role:      model.RoleClient,
		LoginCode: strPtr(" 123456 "), // legacy rows may carry whitespace
	})
	r := &Runner{Store: store, Salt: testSalt, Logf: discardLog}

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Updated)

	u := store.rows["c1"]
	require.NotNil(t, u.LoginCodeSHA)
	require.NotNil(t, u.LoginCodeHash)
	assert.Equal(t, auth.FingerprintCode("123456", testSalt), *u.LoginCodeSHA)
	ok, err := auth.VerifySecret("123456", *u.LoginCodeHash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, u.PasswordHash)
}

func TestBackfillClientPartiallyMigrated(t *testing.T) {
	existingSHA := auth.FingerprintCode("123456", testSalt)
	store := newFakeStore(model.User{
		ID:           "c1",
		Role:         model.RoleClient,
		LoginCode:    strPtr("123456"),
		LoginCodeSHA: strPtr(existingSHA),
	})
	r := &Runner{Store: store, Salt: testSalt, Logf: discardLog}

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Updated)

	u := store.rows["c1"]
	assert.Equal(t, existingSHA, *u.LoginCodeSHA, "existing fingerprint is never regenerated")
	require.NotNil(t, u.LoginCodeHash)
}

func TestBackfillSkipsIneligibleRows(t *testing.T) {
	store := newFakeStore(
		// Staff with an empty legacy password: nothing to derive from.
		model.User{ID: "u1", Role: model.RoleStaff, Password: strPtr("")},
		// Client whose legacy code is malformed.
		model.User{ID: "c1", Role: model.RoleClient, LoginCode: strPtr("12ab56")},
		// Client with no legacy code at all.
		model.User{ID: "c2", Role: model.RoleClient},
		// Staff already migrated; still in the scan because the code
		// columns are null, but those never apply to staff.
		model.User{ID: "u2", Role: model.RoleAdmin, Password: strPtr("x"), PasswordHash: strPtr("$2a$10$existing")},
	)
	r := &Runner{Store: store, Salt: testSalt, Logf: discardLog}

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Scanned)
	assert.Equal(t, 0, sum.Staged)
	assert.Equal(t, 0, sum.Updated)
	assert.Equal(t, "$2a$10$existing", *store.rows["u2"].PasswordHash, "an existing hash is never overwritten")
}

func TestBackfillPagingAdvancesByPageSize(t *testing.T) {
	var users []model.User
	for i := 0; i < 5; i++ {
		users = append(users, model.User{
			ID:        fmt.Sprintf("c%d", i),
			Role:      model.RoleClient,
			LoginCode: strPtr(fmt.Sprintf("10000%d", i)),
		})
	}
	store := newFakeStore(users...)
	r := &Runner{Store: store, Salt: testSalt, PageSize: 2, SubBatch: 2, Logf: discardLog}

	sum, err := r.Run(context.Background())
	require.NoError(t, err)

	// 5 rows at page size 2: three data pages plus the terminating empty
	// fetch, offsets stepping by the page size, every row updated once.
	assert.Equal(t, []int{0, 2, 4, 6}, store.listCalls)
	assert.Equal(t, 3, sum.Pages)
	assert.Equal(t, 5, sum.Updated)
	for _, u := range store.currentRows() {
		assert.NotNil(t, u.LoginCodeSHA)
		assert.NotNil(t, u.LoginCodeHash)
	}
}

func TestBackfillDryRunWritesNothing(t *testing.T) {
	store := newFakeStore(
		model.User{ID: "u1", Role: model.RoleAdmin, Password: strPtr("hunter2")},
		model.User{ID: "c1", Role: model.RoleClient, LoginCode: strPtr("123456")},
	)
	var lines []string
	r := &Runner{Store: store, Salt: testSalt, DryRun: true,
		Logf: func(format string, args ...any) { lines = append(lines, fmt.Sprintf(format, args...)) }}

	for i := 0; i < 3; i++ { // repeated dry runs stay side-effect free
		sum, err := r.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, sum.Staged)
		assert.Equal(t, 0, sum.Updated)
	}
	assert.Equal(t, 0, store.updates)
	assert.Contains(t, lines[0], "would update 2 users")
}

func TestBackfillIdempotentAcrossRuns(t *testing.T) {
	store := newFakeStore(
		model.User{ID: "u1", Role: model.RoleStaff, Password: strPtr("pw")},
		model.User{ID: "c1", Role: model.RoleClient, LoginCode: strPtr("654321")},
	)
	r := &Runner{Store: store, Salt: testSalt, Logf: discardLog}
	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Updated)

	// Second run over the same data. The rows still match the scan filter
	// (a staff row keeps null code columns, a client row a null password
	// hash), but every applicable value is already present, so nothing is
	// staged and nothing is written.
	second := newFakeStore(store.currentRows()...)
	r2 := &Runner{Store: second, Salt: testSalt, Logf: discardLog}
	sum2, err := r2.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum2.Scanned)
	assert.Equal(t, 0, sum2.Staged)
	assert.Equal(t, 0, sum2.Updated)
	assert.Equal(t, 0, second.updates)
}

func TestBackfillWriteErrorAborts(t *testing.T) {
	store := newFakeStore(
		model.User{ID: "c1", Role: model.RoleClient, LoginCode: strPtr("111111")},
		model.User{ID: "c2", Role: model.RoleClient, LoginCode: strPtr("222222")},
		model.User{ID: "c3", Role: model.RoleClient, LoginCode: strPtr("333333")},
	)
	store.failAt = 2
	r := &Runner{Store: store, Salt: testSalt, Logf: discardLog}

	sum, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, sum.Updated, "the job stops at the first write failure")
	assert.Equal(t, 2, store.updates, "no update is attempted after the failure")
}

func TestBackfillFetchErrorAborts(t *testing.T) {
	store := newFakeStore(model.User{ID: "c1", Role: model.RoleClient, LoginCode: strPtr("111111")})
	store.listErr = fmt.Errorf("injected fetch failure")
	r := &Runner{Store: store, Salt: testSalt, Logf: discardLog}

	_, err := r.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, store.updates)
}

func TestBackfillRequiresSalt(t *testing.T) {
	r := &Runner{Store: newFakeStore(), Logf: discardLog}
	_, err := r.Run(context.Background())
	assert.Error(t, err)
}
