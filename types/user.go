package types

// Password rotation flag values stored in the AUTH sheet.
const (
	PasswordChanged    = "Y"
	PasswordNotChanged = "N"
)

// Credential is one row of the AUTH sheet.
// Row is the 1-based sheet row and serves as the record's address.
type Credential struct {
	// Name is the display name used to log in. It is expected, not
	// enforced, to be unique.
	Name string

	// Password is the 6-digit numeric password, stored in plaintext.
	Password string

	// Token is the current session token; empty when never issued.
	Token string

	// PasswordChanged is "Y" once the initial password was rotated.
	PasswordChanged string

	// LastLogin is the ISO-8601 timestamp of the latest login.
	LastLogin string

	Row int
}

// NeedsPasswordChange reports whether the user must rotate the password.
func (c Credential) NeedsPasswordChange() bool {
	return c.PasswordChanged != PasswordChanged
}

// View returns the client-facing representation of the credential.
func (c Credential) View() UserView {
	return UserView{
		Name:            c.Name,
		PasswordChanged: c.PasswordChanged,
		LastLogin:       c.LastLogin,
	}
}

// UserView is the user payload returned by the auth endpoints. The password
// is deliberately absent.
type UserView struct {
	Name            string `json:"이름"`
	PasswordChanged string `json:"비밀번호변경완료"`
	LastLogin       string `json:"최종로그인시간"`
}
