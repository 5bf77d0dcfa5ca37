package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/harari-inventory/apiserver/internal/sheets"
	"github.com/harari-inventory/apiserver/types"
)

// lastLoginLayout matches JavaScript's Date.toISOString output.
const lastLoginLayout = "2006-01-02T15:04:05.000Z07:00"

// AuthRepository reads and updates credentials in the AUTH sheet.
type AuthRepository struct {
	client *sheets.Client
	sheet  string
}

func NewAuthRepository(client *sheets.Client, sheet string) *AuthRepository {
	return &AuthRepository{client: client, sheet: sheet}
}

// VerifyLogin returns the first credential whose name and password both
// match exactly. A miss is ErrNotFound.
func (r *AuthRepository) VerifyLogin(ctx context.Context, name, password string) (types.Credential, error) {
	if name == "" || password == "" {
		return types.Credential{}, ErrNotFound
	}
	rows, err := r.readAll(ctx)
	if err != nil {
		return types.Credential{}, err
	}

	for i := 1; i < len(rows); i++ {
		if cell(rows[i], authColName) == name && cell(rows[i], authColPassword) == password {
			return credentialFromRow(rows[i], i+1), nil
		}
	}
	return types.Credential{}, ErrNotFound
}

// FindByToken returns the credential holding token. Blank tokens never match.
func (r *AuthRepository) FindByToken(ctx context.Context, token string) (types.Credential, error) {
	if token == "" {
		return types.Credential{}, ErrNotFound
	}
	rows, err := r.readAll(ctx)
	if err != nil {
		return types.Credential{}, err
	}

	idx := findRow(rows, authColToken, func(v string) bool { return v == token })
	if idx < 0 {
		return types.Credential{}, ErrNotFound
	}
	return credentialFromRow(rows[idx], idx+1), nil
}

func (r *AuthRepository) UpdateToken(ctx context.Context, row int, token string) error {
	return r.writeCell(ctx, row, authColToken, token)
}

func (r *AuthRepository) UpdateLastLogin(ctx context.Context, row int, at time.Time) error {
	return r.writeCell(ctx, row, authColLastLogin, FormatLoginTime(at))
}

func (r *AuthRepository) UpdatePassword(ctx context.Context, row int, password string) error {
	return r.writeCell(ctx, row, authColPassword, password)
}

func (r *AuthRepository) UpdatePasswordChanged(ctx context.Context, row int, value string) error {
	return r.writeCell(ctx, row, authColPasswordChanged, value)
}

// IssueToken returns 64 hex characters from a cryptographic source.
func IssueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// FormatLoginTime renders a login instant the way the AUTH sheet stores it.
func FormatLoginTime(at time.Time) string {
	return at.UTC().Format(lastLoginLayout)
}

func (r *AuthRepository) readAll(ctx context.Context) ([][]string, error) {
	return r.client.Read(ctx, sheets.Columns(r.sheet, 1, authColumns))
}

func (r *AuthRepository) writeCell(ctx context.Context, row, col int, value string) error {
	return r.client.Write(ctx, sheets.Cell(r.sheet, col+1, row), [][]string{{value}})
}

func credentialFromRow(row []string, sheetRow int) types.Credential {
	changed := cell(row, authColPasswordChanged)
	if changed == "" {
		changed = types.PasswordNotChanged
	}
	return types.Credential{
		Name:            cell(row, authColName),
		Password:        cell(row, authColPassword),
		Token:           cell(row, authColToken),
		PasswordChanged: changed,
		LastLogin:       cell(row, authColLastLogin),
		Row:             sheetRow,
	}
}
