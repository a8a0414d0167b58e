package models

import (
	"fmt"
	"time"
)

// Role is an enumerated role tag granted to an account. Each role maps to a
// single authority string consumed by the authorization layer.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
)

const authorityPrefix = "ROLE_"

// Authority returns the authority string for the role (e.g. ROLE_ADMIN).
func (r Role) Authority() string {
	return authorityPrefix + string(r)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

// RoleFromAuthority resolves an authority string back to its Role.
func RoleFromAuthority(authority string) (Role, error) {
	role := Role(stripPrefix(authority))
	if !role.Valid() {
		return "", fmt.Errorf("unknown authority: %s", authority)
	}
	return role, nil
}

func stripPrefix(authority string) string {
	if len(authority) > len(authorityPrefix) && authority[:len(authorityPrefix)] == authorityPrefix {
		return authority[len(authorityPrefix):]
	}
	return authority
}

// Account is the persisted profile and credential record of a registered user.
// PasswordHash and SecurityQuestion are never serialised to API responses.
type Account struct {
	ID               string    `json:"id"`
	FullName         string    `json:"fullName"`
	UserName         string    `json:"userName"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	MobileNumber     string    `json:"mobileNumber"`
	Address          string    `json:"address"`
	SecurityQuestion string    `json:"-"`
	Roles            []Role    `json:"roles"`
	Enabled          bool      `json:"enabled"`
	CreatedAt        time.Time `json:"createdTimestamp"`
	UpdatedAt        time.Time `json:"updatedTimestamp"`
}

// Authorities returns the authority strings derived from the account's roles.
func (a *Account) Authorities() []string {
	authorities := make([]string, 0, len(a.Roles))
	for _, role := range a.Roles {
		authorities = append(authorities, role.Authority())
	}
	return authorities
}

// View projects the account onto its sanitized read model.
func (a *Account) View() *AccountView {
	return &AccountView{
		ID:           a.ID,
		FullName:     a.FullName,
		UserName:     a.UserName,
		Email:        a.Email,
		MobileNumber: a.MobileNumber,
		Address:      a.Address,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
