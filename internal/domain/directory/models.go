package directory

import (
	"errors"
	"regexp"
)

var (
	ErrUnavailable  = errors.New("directory is not configured")
	ErrUserNotFound = errors.New("directory user not found")
	ErrUserExists   = errors.New("directory user already exists")
	ErrInvalidUID   = errors.New("uid must be 1-64 characters of letters, digits, dot, dash or underscore")
	ErrInvalidUser  = errors.New("cn, sn and mail are required")
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)

var uidPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

func ValidUID(uid string) bool {
	return uidPattern.MatchString(uid)
}

// Entry is a person entry as exposed to the admin console and MCP tools.
type Entry struct {
	DN             string `json:"dn"`
	UID            string `json:"uid"`
	CN             string `json:"cn"`
	SN             string `json:"sn"`
	GivenName      string `json:"givenName,omitempty"`
	DisplayName    string `json:"displayName,omitempty"`
	Mail           string `json:"mail"`
	EmployeeNumber string `json:"employeeNumber,omitempty"`
	Department     string `json:"departmentNumber,omitempty"`
	Title          string `json:"title,omitempty"`
}

type NewUser struct {
	UID            string `json:"uid" validate:"required"`
	CN             string `json:"cn" validate:"required"`
	SN             string `json:"sn" validate:"required"`
	GivenName      string `json:"givenName"`
	DisplayName    string `json:"displayName"`
	Mail           string `json:"mail" validate:"required,email"`
	EmployeeNumber string `json:"employeeNumber"`
	Department     string `json:"departmentNumber"`
	Title          string `json:"title"`
	Password       string `json:"password"`
}

// UserChanges replaces the attributes that are non-nil.
type UserChanges struct {
	CN             *string `json:"cn"`
	SN             *string `json:"sn"`
	GivenName      *string `json:"givenName"`
	DisplayName    *string `json:"displayName"`
	Mail           *string `json:"mail"`
	EmployeeNumber *string `json:"employeeNumber"`
	Department     *string `json:"departmentNumber"`
	Title          *string `json:"title"`
}

var entryAttributes = []string{
	"uid", "cn", "sn", "givenName", "displayName", "mail", "employeeNumber", "departmentNumber", "title",
}
