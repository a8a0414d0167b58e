package cqrs

import "github.com/Pravin1821/Secure-Online-Transaction-System/internal/models"

type RegisterAccountCommand struct {
	FullName         string
	UserName         string
	Email            string
	MobileNumber     string
	Password         string
	ConfirmPassword  string
	Address          string
	SecurityQuestion string
}

type UpdateAccountCommand struct {
	UserName         string
	FullName         string
	Email            string
	MobileNumber     string
	Address          string
	SecurityQuestion string
	// Password is optional: blank leaves the stored hash untouched.
	Password        string
	ConfirmPassword string
}

type DeleteAccountCommand struct {
	UserName string
}

type UpdateRolesCommand struct {
	UserName string
	Roles    []models.Role
}

type UpdateStatusCommand struct {
	UserName string
	Enabled  bool
}

type LoginCommand struct {
	UserName string
	Password string
}
