package auth

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/giovaniif/fusion-store/infra"
	"github.com/giovaniif/fusion-store/infra/respond"
)

const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
	RoleUser   = "user"

	TokenCookie = "token"
)

var ErrMissingToken = errors.New("missing token")

// Caller is the authenticated identity behind a request.
type Caller struct {
	Id   string
	Role string
}

func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

type callerKey struct{}

func NewContext(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// FromContext returns the caller, or nil for anonymous requests.
func FromContext(ctx context.Context) *Caller {
	caller, _ := ctx.Value(callerKey{}).(*Caller)
	return caller
}

type Claims struct {
	Id   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 tokens issued by the auth service. When
// disabled, requests without a valid token pass through anonymously.
type Authenticator struct {
	secret   []byte
	disabled bool
	logger   *zap.Logger
}

func NewAuthenticator(secret string, disabled bool, logger *zap.Logger) *Authenticator {
	return &Authenticator{secret: []byte(secret), disabled: disabled, logger: logger}
}

func (a *Authenticator) Disabled() bool {
	return a.disabled
}

// Parse validates a raw token and returns its caller.
func (a *Authenticator) Parse(raw string) (*Caller, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.Id == "" {
		return nil, errors.New("token has no id claim")
	}
	return &Caller{Id: claims.Id, Role: claims.Role}, nil
}

// Require rejects requests without a valid token (401) or whose role is not
// in roles (403). An empty roles list accepts any authenticated caller.
func (a *Authenticator) Require(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := a.authenticate(c)
		if err != nil {
			if a.disabled {
				c.Next()
				return
			}
			a.logger.Debug("Authentication failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
			respond.Error(c, a.logger, infra.NewUnauthorizedError("Unauthorized"))
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, caller.Role) && !a.disabled {
			respond.Error(c, a.logger, infra.NewForbiddenError("Forbidden: insufficient permissions"))
			return
		}
		c.Request = c.Request.WithContext(NewContext(c.Request.Context(), caller))
		c.Next()
	}
}

// Optional attaches the caller when a valid token is present and never rejects.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if caller, err := a.authenticate(c); err == nil {
			c.Request = c.Request.WithContext(NewContext(c.Request.Context(), caller))
		}
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context) (*Caller, error) {
	raw := tokenFrom(c)
	if raw == "" {
		return nil, ErrMissingToken
	}
	return a.Parse(raw)
}

func tokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
