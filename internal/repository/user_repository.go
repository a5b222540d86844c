package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/6Yass9/souli-studio-server/internal/auth"
	"github.com/6Yass9/souli-studio-server/internal/model"
)

// userColumns is the select list shared by every user query. The legacy
// plaintext columns are read too: the backfill job needs them as input.
const userColumns = "id,name,role,status,email,phone,password,password_hash,login_code,login_code_sha,login_code_hash,created_at,updated_at"

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Role, &u.Status, &u.Email, &u.Phone,
		&u.Password, &u.PasswordHash, &u.LoginCode, &u.LoginCodeSHA, &u.LoginCodeHash,
		&u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetStaffByEmail fetches an admin or staff identity by normalized email.
// Client rows never match, even if one carries the same email.
func (r *UserRepo) GetStaffByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? AND role IN ('admin','staff') LIMIT 1",
		email))
}

// GetClientByCodeSHA fetches a client identity by its login-code
// fingerprint. The fingerprint is the lookup key; the bcrypt hash is
// verified separately by the caller.
func (r *UserRepo) GetClientByCodeSHA(ctx context.Context, codeSHA string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE role='client' AND login_code_sha=? LIMIT 1",
		codeSHA))
}

// ListMissingCredentials returns one page of identities where at least one
// hash/fingerprint column is still null. Ordered by id so pages are stable
// within a run.
func (r *UserRepo) ListMissingCredentials(ctx context.Context, offset, limit int) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE password_hash IS NULL OR login_code_sha IS NULL OR login_code_hash IS NULL ORDER BY id LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Role, &u.Status, &u.Email, &u.Phone,
			&u.Password, &u.PasswordHash, &u.LoginCode, &u.LoginCodeSHA, &u.LoginCodeHash,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CredentialPatch is the set of columns the backfill job may populate for
// one row. Nil fields are left untouched; an existing hash is never
// overwritten because the job only stages values for null columns.
type CredentialPatch struct {
	PasswordHash  *string
	LoginCodeSHA  *string
	LoginCodeHash *string
}

// Empty reports whether the patch would change nothing.
func (p CredentialPatch) Empty() bool {
	return p.PasswordHash == nil && p.LoginCodeSHA == nil && p.LoginCodeHash == nil
}

// UpdateCredentials applies a credential patch to a single row.
func (r *UserRepo) UpdateCredentials(ctx context.Context, id string, patch CredentialPatch) error {
	var sets []string
	var args []any
	if patch.PasswordHash != nil {
		sets = append(sets, "password_hash=?")
		args = append(args, *patch.PasswordHash)
	}
	if patch.LoginCodeSHA != nil {
		sets = append(sets, "login_code_sha=?")
		args = append(args, *patch.LoginCodeSHA)
	}
	if patch.LoginCodeHash != nil {
		sets = append(sets, "login_code_hash=?")
		args = append(args, *patch.LoginCodeHash)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ",")+" WHERE id=?", args...)
	return err
}

// CreateStaff inserts an admin or staff identity with the password hashed
// up front. New rows never go through the migration path.
func (r *UserRepo) CreateStaff(ctx context.Context, name, email, password, role string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := auth.HashSecret(password)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, name, role, status, email, password_hash) VALUES (?,?,?,'active',?,?)",
		id, name, role, email, hash)
	if err != nil {
		if isDuplicate(err) {
			return "", ErrEmailExists
		}
		return "", err
	}
	return id, nil
}

// CreateClient inserts a client identity with both the fingerprint and the
// bcrypt hash of the access code populated at creation time.
func (r *UserRepo) CreateClient(ctx context.Context, name, phone, code, salt string) (string, error) {
	hash, err := auth.HashSecret(code)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, name, role, status, phone, login_code_sha, login_code_hash) VALUES (?,?,'client','active',?,?,?)",
		id, name, phone, auth.FingerprintCode(code, salt), hash)
	if err != nil {
		if isDuplicate(err) {
			return "", ErrCodeTaken
		}
		return "", err
	}
	return id, nil
}

// isDuplicate detects MySQL error 1062 (duplicate entry).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
