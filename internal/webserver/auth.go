package webserver

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/craftbond/sitecms/config"
	"github.com/craftbond/sitecms/internal/domain"
	"github.com/craftbond/sitecms/pkg/common"
)

const sessionName = "sitecms_session"

// AuthPolicy decides whether a credential pair identifies the admin operator.
// The content services never see the policy; authorization is settled before
// a request reaches them.
type AuthPolicy interface {
	// Authenticate returns nil on success and an error describing the
	// rejection otherwise.
	Authenticate(ctx context.Context, username, password string) error
	Name() string
}

// NewAuthPolicy selects the configured policy variant.
func NewAuthPolicy(cfg *config.AppConfig, db *gorm.DB) AuthPolicy {
	switch strings.ToLower(cfg.Auth.Policy) {
	case "ldap":
		return &LdapPolicy{cfg: cfg.Auth.Ldap}
	default:
		return &StaticCredentialPolicy{db: db}
	}
}

// StaticCredentialPolicy checks credentials against the bootstrapped operator
// record; passwords are stored bcrypt-hashed.
type StaticCredentialPolicy struct {
	db *gorm.DB
}

func (p *StaticCredentialPolicy) Name() string { return "static" }

func (p *StaticCredentialPolicy) Authenticate(ctx context.Context, username, password string) error {
	var opr domain.SysOpr
	err := p.db.WithContext(ctx).Where("username = ? and status = ?", username, common.ENABLED).First(&opr).Error
	if err != nil {
		return errors.New("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(opr.Password), []byte(password)) != nil {
		return errors.New("invalid credentials")
	}
	p.db.WithContext(ctx).Model(&domain.SysOpr{}).
		Where("id = ?", opr.ID).
		Update("last_login", time.Now())
	return nil
}

// LdapPolicy delegates the credential check to an LDAP directory.
type LdapPolicy struct {
	cfg config.LdapConfig
}

func (p *LdapPolicy) Name() string { return "ldap" }

func (p *LdapPolicy) Authenticate(ctx context.Context, username, password string) error {
	conn, err := ldap.DialURL(p.cfg.Addr)
	if err != nil {
		return errors.Wrap(err, "ldap dial")
	}
	defer conn.Close()

	if p.cfg.Istls {
		if err := conn.StartTLS(&tls.Config{InsecureSkipVerify: true}); err != nil {
			return errors.Wrap(err, "ldap starttls")
		}
	}

	if err := conn.Bind(p.cfg.BindDN, p.cfg.BindPasswd); err != nil {
		return errors.Wrap(err, "ldap bind")
	}

	attr := p.cfg.UserAttr
	if attr == "" {
		attr = "uid"
	}
	result, err := conn.Search(ldap.NewSearchRequest(
		p.cfg.BaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 1, 10, false,
		fmt.Sprintf("(%s=%s)", attr, ldap.EscapeFilter(username)),
		[]string{"dn"},
		nil,
	))
	if err != nil || len(result.Entries) != 1 {
		return errors.New("invalid credentials")
	}

	if err := conn.Bind(result.Entries[0].DN, password); err != nil {
		return errors.New("invalid credentials")
	}
	return nil
}

type loginForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// handleLogin authenticates through the injected policy, establishes the
// admin session and also returns a bearer token for cookie-less API clients.
func (s *WebServer) handleLogin(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": 1, "error": "unable to parse login request"})
	}
	if err := s.policy.Authenticate(c.Request().Context(), form.Username, form.Password); err != nil {
		zap.L().Warn("admin login rejected",
			zap.String("username", form.Username),
			zap.String("policy", s.policy.Name()),
			zap.String("ip", c.RealIP()))
		return c.JSON(http.StatusUnauthorized, echo.Map{"code": 1, "error": "invalid credentials"})
	}

	sess, _ := session.Get(sessionName, c)
	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
	}
	sess.Values["username"] = form.Username
	sess.Values["isAdmin"] = true
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"code": 1, "error": "session error"})
	}

	token, err := s.issueToken(form.Username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"code": 1, "error": "token error"})
	}

	zap.L().Info("admin login",
		zap.String("username", form.Username),
		zap.String("policy", s.policy.Name()))
	return c.JSON(http.StatusOK, echo.Map{"code": 0, "data": echo.Map{"token": token}})
}

func (s *WebServer) handleLogout(c echo.Context) error {
	sess, _ := session.Get(sessionName, c)
	sess.Options.MaxAge = -1
	sess.Values = map[interface{}]interface{}{}
	_ = sess.Save(c.Request(), c.Response())
	return c.JSON(http.StatusOK, echo.Map{"code": 0, "data": "logged out"})
}

func (s *WebServer) issueToken(username string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// SessionUsername returns the operator name from the admin session, or an
// empty string when the request is authenticated by bearer token only.
func SessionUsername(c echo.Context) string {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return ""
	}
	username, _ := sess.Values["username"].(string)
	return username
}

// sessionIsAdmin is the jwt middleware skipper: a valid admin session makes
// the bearer token unnecessary.
func sessionIsAdmin(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	isAdmin, ok := sess.Values["isAdmin"].(bool)
	return ok && isAdmin
}
