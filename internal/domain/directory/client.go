package directory

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
)

type Config struct {
	Enabled       bool
	URL           string
	BindDN        string
	BindPassword  string
	BaseDN        string
	UserOU        string
	UserClass     string
	StartTLS      bool
	SkipTLSVerify bool
	Timeout       time.Duration
	SizeLimit     int
}

// Directory is the read/write surface used by handlers and MCP tools.
type Directory interface {
	Ping(ctx context.Context) error
	ListUsers(ctx context.Context) ([]Entry, error)
	GetUser(ctx context.Context, uid string) (Entry, error)
	SearchUsers(ctx context.Context, query string) ([]Entry, error)
	UserExists(ctx context.Context, uid string) (bool, error)
	CreateUser(ctx context.Context, user NewUser) (Entry, error)
	UpdateUser(ctx context.Context, uid string, changes UserChanges) (Entry, error)
	DeleteUser(ctx context.Context, uid string) error
	SetPassword(ctx context.Context, uid, password string) error
}

// conn is the subset of *ldap.Conn the client needs.
type conn interface {
	Bind(username, password string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	Add(req *ldap.AddRequest) error
	Modify(req *ldap.ModifyRequest) error
	Del(req *ldap.DelRequest) error
	PasswordModify(req *ldap.PasswordModifyRequest) (*ldap.PasswordModifyResult, error)
	Close() error
}

type Client struct {
	cfg  Config
	dial func(ctx context.Context) (conn, error)
}

var _ Directory = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.UserClass == "" {
		cfg.UserClass = "inetOrgPerson"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	c := &Client{cfg: cfg}
	c.dial = c.dialLDAP
	return c
}

func (c *Client) dialLDAP(ctx context.Context) (conn, error) {
	tlsCfg := &tls.Config{InsecureSkipVerify: c.cfg.SkipTLSVerify} //nolint:gosec // opt-in for lab directories
	l, err := ldap.DialURL(c.cfg.URL,
		ldap.DialWithDialer(dialer(c.cfg.Timeout)),
		ldap.DialWithTLSConfig(tlsCfg),
	)
	if err != nil {
		return nil, err
	}
	l.SetTimeout(c.cfg.Timeout)
	if c.cfg.StartTLS {
		if err := l.StartTLS(tlsCfg); err != nil {
			l.Close()
			return nil, err
		}
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 && remaining < c.cfg.Timeout {
			l.SetTimeout(remaining)
		}
	}
	return l, nil
}

// session dials and binds with the service account.
func (c *Client) session(ctx context.Context) (conn, error) {
	if !c.cfg.Enabled {
		return nil, ErrUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l, err := c.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("ldap dial: %w", err)
	}
	if c.cfg.BindDN != "" {
		if err := l.Bind(c.cfg.BindDN, c.cfg.BindPassword); err != nil {
			l.Close()
			return nil, fmt.Errorf("ldap bind: %w", err)
		}
	}
	return l, nil
}

func (c *Client) usersBase() string {
	if c.cfg.UserOU == "" {
		return c.cfg.BaseDN
	}
	return c.cfg.UserOU + "," + c.cfg.BaseDN
}

func (c *Client) userDN(uid string) string {
	return "uid=" + ldap.EscapeDN(uid) + "," + c.usersBase()
}

func (c *Client) Ping(ctx context.Context) error {
	l, err := c.session(ctx)
	if err != nil {
		return err
	}
	return l.Close()
}

func (c *Client) ListUsers(ctx context.Context) ([]Entry, error) {
	return c.search(ctx, fmt.Sprintf("(objectClass=%s)", ldap.EscapeFilter(c.cfg.UserClass)))
}

func (c *Client) SearchUsers(ctx context.Context, query string) ([]Entry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.ListUsers(ctx)
	}
	return c.search(ctx, SearchFilter(c.cfg.UserClass, query))
}

// SearchFilter matches query as a substring of uid, cn, mail or sn.
func SearchFilter(userClass, query string) string {
	q := ldap.EscapeFilter(query)
	return fmt.Sprintf("(&(objectClass=%s)(|(uid=*%s*)(cn=*%s*)(mail=*%s*)(sn=*%s*)))",
		ldap.EscapeFilter(userClass), q, q, q, q)
}

func (c *Client) GetUser(ctx context.Context, uid string) (Entry, error) {
	if !ValidUID(uid) {
		return Entry{}, ErrInvalidUID
	}
	entries, err := c.search(ctx, fmt.Sprintf("(&(objectClass=%s)(uid=%s))", ldap.EscapeFilter(c.cfg.UserClass), ldap.EscapeFilter(uid)))
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, ErrUserNotFound
	}
	return entries[0], nil
}

func (c *Client) UserExists(ctx context.Context, uid string) (bool, error) {
	_, err := c.GetUser(ctx, uid)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) search(ctx context.Context, filter string) ([]Entry, error) {
	l, err := c.session(ctx)
	if err != nil {
		return nil, err
	}
	defer l.Close()

	req := ldap.NewSearchRequest(
		c.usersBase(),
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		c.cfg.SizeLimit,
		int(c.cfg.Timeout.Seconds()),
		false,
		filter,
		entryAttributes,
		nil,
	)
	res, err := l.Search(req)
	if err != nil && !ldap.IsErrorWithCode(err, ldap.LDAPResultSizeLimitExceeded) {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			return nil, nil
		}
		return nil, fmt.Errorf("ldap search: %w", err)
	}
	if res == nil {
		return nil, nil
	}
	out := make([]Entry, 0, len(res.Entries))
	for _, e := range res.Entries {
		out = append(out, entryFrom(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, user NewUser) (Entry, error) {
	user = trimUser(user)
	if !ValidUID(user.UID) {
		return Entry{}, ErrInvalidUID
	}
	if user.CN == "" || user.SN == "" || user.Mail == "" {
		return Entry{}, ErrInvalidUser
	}
	if user.Password != "" && len(user.Password) < 8 {
		return Entry{}, ErrWeakPassword
	}
	l, err := c.session(ctx)
	if err != nil {
		return Entry{}, err
	}
	defer l.Close()

	req := ldap.NewAddRequest(c.userDN(user.UID), nil)
	req.Attribute("objectClass", []string{"top", "person", "organizationalPerson", c.cfg.UserClass})
	req.Attribute("uid", []string{user.UID})
	req.Attribute("cn", []string{user.CN})
	req.Attribute("sn", []string{user.SN})
	req.Attribute("mail", []string{user.Mail})
	for attr, value := range map[string]string{
		"givenName":        user.GivenName,
		"displayName":      user.DisplayName,
		"employeeNumber":   user.EmployeeNumber,
		"departmentNumber": user.Department,
		"title":            user.Title,
		"userPassword":     user.Password,
	} {
		if value != "" {
			req.Attribute(attr, []string{value})
		}
	}
	if err := l.Add(req); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultEntryAlreadyExists) {
			return Entry{}, ErrUserExists
		}
		return Entry{}, fmt.Errorf("ldap add: %w", err)
	}
	return Entry{
		DN:             c.userDN(user.UID),
		UID:            user.UID,
		CN:             user.CN,
		SN:             user.SN,
		GivenName:      user.GivenName,
		DisplayName:    user.DisplayName,
		Mail:           user.Mail,
		EmployeeNumber: user.EmployeeNumber,
		Department:     user.Department,
		Title:          user.Title,
	}, nil
}

func (c *Client) UpdateUser(ctx context.Context, uid string, changes UserChanges) (Entry, error) {
	if !ValidUID(uid) {
		return Entry{}, ErrInvalidUID
	}
	req := ldap.NewModifyRequest(c.userDN(uid), nil)
	for attr, value := range map[string]*string{
		"cn":               changes.CN,
		"sn":               changes.SN,
		"givenName":        changes.GivenName,
		"displayName":      changes.DisplayName,
		"mail":             changes.Mail,
		"employeeNumber":   changes.EmployeeNumber,
		"departmentNumber": changes.Department,
		"title":            changes.Title,
	} {
		if value == nil {
			continue
		}
		v := strings.TrimSpace(*value)
		if v == "" {
			if attr == "cn" || attr == "sn" || attr == "mail" {
				return Entry{}, ErrInvalidUser
			}
			req.Replace(attr, []string{})
			continue
		}
		req.Replace(attr, []string{v})
	}
	if len(req.Changes) > 0 {
		if err := c.modify(ctx, req); err != nil {
			return Entry{}, err
		}
	}
	return c.GetUser(ctx, uid)
}

func (c *Client) modify(ctx context.Context, req *ldap.ModifyRequest) error {
	l, err := c.session(ctx)
	if err != nil {
		return err
	}
	defer l.Close()
	if err := l.Modify(req); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			return ErrUserNotFound
		}
		return fmt.Errorf("ldap modify: %w", err)
	}
	return nil
}

func (c *Client) DeleteUser(ctx context.Context, uid string) error {
	if !ValidUID(uid) {
		return ErrInvalidUID
	}
	l, err := c.session(ctx)
	if err != nil {
		return err
	}
	defer l.Close()
	if err := l.Del(ldap.NewDelRequest(c.userDN(uid), nil)); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			return ErrUserNotFound
		}
		return fmt.Errorf("ldap delete: %w", err)
	}
	return nil
}

// SetPassword uses the password modify extended operation so the server
// applies its own hashing scheme.
func (c *Client) SetPassword(ctx context.Context, uid, password string) error {
	if !ValidUID(uid) {
		return ErrInvalidUID
	}
	if len(password) < 8 {
		return ErrWeakPassword
	}
	l, err := c.session(ctx)
	if err != nil {
		return err
	}
	defer l.Close()
	if _, err := l.PasswordModify(ldap.NewPasswordModifyRequest(c.userDN(uid), "", password)); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			return ErrUserNotFound
		}
		return fmt.Errorf("ldap password modify: %w", err)
	}
	return nil
}

func entryFrom(e *ldap.Entry) Entry {
	return Entry{
		DN:             e.DN,
		UID:            e.GetAttributeValue("uid"),
		CN:             e.GetAttributeValue("cn"),
		SN:             e.GetAttributeValue("sn"),
		GivenName:      e.GetAttributeValue("givenName"),
		DisplayName:    e.GetAttributeValue("displayName"),
		Mail:           e.GetAttributeValue("mail"),
		EmployeeNumber: e.GetAttributeValue("employeeNumber"),
		Department:     e.GetAttributeValue("departmentNumber"),
		Title:          e.GetAttributeValue("title"),
	}
}

func trimUser(u NewUser) NewUser {
	u.UID = strings.TrimSpace(u.UID)
	u.CN = strings.TrimSpace(u.CN)
	u.SN = strings.TrimSpace(u.SN)
	u.GivenName = strings.TrimSpace(u.GivenName)
	u.DisplayName = strings.TrimSpace(u.DisplayName)
	u.Mail = strings.TrimSpace(u.Mail)
	u.EmployeeNumber = strings.TrimSpace(u.EmployeeNumber)
	u.Department = strings.TrimSpace(u.Department)
	u.Title = strings.TrimSpace(u.Title)
	return u
}
