package auth

import "slices"

// UserContext is the authenticated caller attached to a request, either a
// signed-in user or an access key.
type UserContext struct {
	UserID      string
	TenantID    string
	RoleID      string
	RoleName    string
	SessionID   string
	AccessKeyID string
	Modules     []string
}

func (u UserContext) IsAccessKey() bool {
	return u.AccessKeyID != ""
}

func (u UserContext) HasModule(module string) bool {
	return slices.Contains(u.Modules, module)
}

func (u UserContext) ActorID() string {
	if u.UserID != "" {
		return u.UserID
	}
	return u.AccessKeyID
}
