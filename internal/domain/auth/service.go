package auth

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"
)

const DefaultSessionTTL = 8 * time.Hour

type Service struct {
	store      StoreAPI
	secret     string
	sealer     SecretSealer
	sessionTTL time.Duration
	now        func() time.Time
}

func NewService(store StoreAPI, jwtSecret string, sealer SecretSealer) *Service {
	return &Service{
		store:      store,
		secret:     jwtSecret,
		sealer:     sealer,
		sessionTTL: DefaultSessionTTL,
		now:        time.Now,
	}
}

// Login verifies credentials and, when enabled, the TOTP code, then opens a
// server-side session bound to the returned token.
func (s *Service) Login(ctx context.Context, email, password, mfaCode string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.FindActiveUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if err := CheckPassword(user.Password, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	if user.MFAEnabled {
		if strings.TrimSpace(mfaCode) == "" {
			return LoginResult{}, ErrMFARequired
		}
		ok, err := validateTOTP(s.sealer, user.MFASecretEn, strings.TrimSpace(mfaCode))
		if err != nil {
			return LoginResult{}, err
		}
		if !ok {
			return LoginResult{}, ErrMFAInvalid
		}
	}

	sessionID, err := NewOpaqueToken()
	if err != nil {
		return LoginResult{}, err
	}
	expires := s.now().Add(s.sessionTTL)
	if err := s.store.CreateSession(ctx, user.ID, HashToken(sessionID), expires); err != nil {
		return LoginResult{}, err
	}
	token, err := GenerateToken(s.secret, Claims{
		UserID:    user.ID,
		TenantID:  user.TenantID,
		RoleID:    user.RoleID,
		RoleName:  user.RoleName,
		SessionID: sessionID,
	}, s.sessionTTL)
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		Token:     token,
		ExpiresAt: expires,
		UserID:    user.ID,
		TenantID:  user.TenantID,
		Role:      user.RoleName,
	}, nil
}

func (s *Service) Logout(ctx context.Context, user UserContext) error {
	if user.SessionID == "" {
		return nil
	}
	return s.store.RevokeSession(ctx, user.UserID, HashToken(user.SessionID))
}

// SessionActive reports whether the session behind a token is still open.
func (s *Service) SessionActive(ctx context.Context, userID, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	return s.store.SessionValid(ctx, userID, HashToken(sessionID))
}

// Refresh rotates the session id and issues a new token for it. The old
// token stops working immediately.
func (s *Service) Refresh(ctx context.Context, user UserContext) (LoginResult, error) {
	ok, err := s.SessionActive(ctx, user.UserID, user.SessionID)
	if err != nil {
		return LoginResult{}, err
	}
	if !ok {
		return LoginResult{}, ErrSessionExpired
	}
	newID, err := NewOpaqueToken()
	if err != nil {
		return LoginResult{}, err
	}
	expires := s.now().Add(s.sessionTTL)
	if err := s.store.RotateSession(ctx, user.UserID, HashToken(user.SessionID), HashToken(newID), expires); err != nil {
		return LoginResult{}, err
	}
	token, err := GenerateToken(s.secret, Claims{
		UserID:    user.UserID,
		TenantID:  user.TenantID,
		RoleID:    user.RoleID,
		RoleName:  user.RoleName,
		SessionID: newID,
	}, s.sessionTTL)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, ExpiresAt: expires, UserID: user.UserID, TenantID: user.TenantID, Role: user.RoleName}, nil
}

func (s *Service) SetupMFA(ctx context.Context, userID string) (MFASetup, error) {
	if s.sealer == nil || !s.sealer.Configured() {
		return MFASetup{}, ErrMFAUnavailable
	}
	user, err := s.store.GetAuthUser(ctx, userID)
	if err != nil {
		return MFASetup{}, err
	}
	secret, url, err := generateTOTP(user.Email)
	if err != nil {
		return MFASetup{}, err
	}
	sealed, err := s.sealer.EncryptString(secret)
	if err != nil {
		return MFASetup{}, err
	}
	if err := s.store.UpdateMFASecret(ctx, userID, sealed); err != nil {
		return MFASetup{}, err
	}
	return MFASetup{Secret: secret, URL: url}, nil
}

func (s *Service) EnableMFA(ctx context.Context, userID, code string) error {
	return s.confirmMFA(ctx, userID, code, true)
}

func (s *Service) DisableMFA(ctx context.Context, userID, code string) error {
	return s.confirmMFA(ctx, userID, code, false)
}

func (s *Service) confirmMFA(ctx context.Context, userID, code string, enabled bool) error {
	user, err := s.store.GetAuthUser(ctx, userID)
	if err != nil {
		return err
	}
	ok, err := validateTOTP(s.sealer, user.MFASecretEn, strings.TrimSpace(code))
	if err != nil {
		return err
	}
	if !ok {
		return ErrMFAInvalid
	}
	return s.store.SetMFAEnabled(ctx, userID, enabled)
}

func (s *Service) HasPermission(ctx context.Context, roleID, permission string) (bool, error) {
	return s.store.HasPermission(ctx, roleID, permission)
}

func (s *Service) Permissions(ctx context.Context, user UserContext) ([]string, error) {
	if user.IsAccessKey() {
		var out []string
		for _, perm := range DefaultPermissions {
			if KeyAllows(user.Modules, perm) {
				out = append(out, perm)
			}
		}
		return out, nil
	}
	return s.store.RolePermissions(ctx, user.RoleID)
}

func (s *Service) ListUsers(ctx context.Context, tenantID string) ([]User, error) {
	return s.store.ListUsers(ctx, tenantID)
}

func (s *Service) CreateUser(ctx context.Context, tenantID, email, password, role string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return User{}, ErrInvalidCredentials
	}
	if err := ValidatePassword(password); err != nil {
		return User{}, err
	}
	if !ValidRole(role) {
		return User{}, ErrUnknownRole
	}
	roleID, err := s.store.RoleIDByName(ctx, tenantID, role)
	if err != nil {
		return User{}, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}
	id, err := s.store.CreateUser(ctx, tenantID, email, hash, roleID)
	if err != nil {
		return User{}, err
	}
	return s.store.GetUser(ctx, tenantID, id)
}

func (s *Service) ChangeRole(ctx context.Context, tenantID, userID, role string) (User, error) {
	if !ValidRole(role) {
		return User{}, ErrUnknownRole
	}
	roleID, err := s.store.RoleIDByName(ctx, tenantID, role)
	if err != nil {
		return User{}, err
	}
	if err := s.store.UpdateUserRole(ctx, tenantID, userID, roleID); err != nil {
		return User{}, err
	}
	// Tokens carry the role, so existing sessions must sign in again.
	if err := s.store.RevokeUserSessions(ctx, userID); err != nil {
		return User{}, err
	}
	return s.store.GetUser(ctx, tenantID, userID)
}

func (s *Service) SetUserStatus(ctx context.Context, tenantID, userID, status string) (User, error) {
	if status != UserStatusActive && status != UserStatusDisabled {
		return User{}, ErrInvalidStatus
	}
	if err := s.store.SetUserStatus(ctx, tenantID, userID, status); err != nil {
		return User{}, err
	}
	if status == UserStatusDisabled {
		if err := s.store.RevokeUserSessions(ctx, userID); err != nil {
			return User{}, err
		}
	}
	return s.store.GetUser(ctx, tenantID, userID)
}

func (s *Service) ResetPassword(ctx context.Context, tenantID, userID, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.store.UpdateUserPassword(ctx, tenantID, userID, hash); err != nil {
		return err
	}
	return s.store.RevokeUserSessions(ctx, userID)
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return ErrWeakPassword
	}
	return nil
}
