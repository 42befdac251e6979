package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/taskhub/taskhub/backend/go-services/internal/models"
	"github.com/taskhub/taskhub/backend/go-services/internal/revocation"
	"github.com/taskhub/taskhub/backend/go-services/internal/users"
	"github.com/taskhub/taskhub/backend/go-services/pkg/logger"
)

// Token is a minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the identity-provider contract the gate depends on. Verify
// returns a *Error when it can classify the failure; anything else is treated
// as a generic verification failure.
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// Context is the result of a successful authentication: the verified token
// claims, the resolved directory record, and the role copied from that record.
type Context struct {
	Claims map[string]interface{}
	User   *models.User
	Role   string
}

// Gate authenticates inbound requests: it extracts the bearer token, verifies
// it against the identity provider, and resolves (provisioning on first sight)
// the directory record for the subject.
type Gate struct {
	verifier Verifier
	users    *users.Service
	revoked  *revocation.List
	timeout  time.Duration
}

// NewGate builds a Gate. revoked may be nil; timeout <= 0 disables the
// verification deadline.
func NewGate(v Verifier, u *users.Service, revoked *revocation.List, timeout time.Duration) *Gate {
	return &Gate{verifier: v, users: u, revoked: revoked, timeout: timeout}
}

// Authenticate validates the Authorization header value and returns the
// authenticated context, or a terminal *Error. It may create exactly one new
// directory record for a previously-unseen subject and has no other side
// effects.
func (g *Gate) Authenticate(ctx context.Context, header string) (*Context, *Error) {
	if header == "" {
		return nil, &Error{Kind: KindMissingAuthHeader}
	}
	fields := strings.Fields(header)
	if len(fields) < 2 || fields[1] == "" {
		return nil, &Error{Kind: KindMissingToken}
	}
	raw := fields[1]

	if g.revoked != nil {
		rev, err := g.revoked.IsRevoked(ctx, raw)
		if err != nil {
			logger.Warnf("revocation check failed: %v", err)
		} else if rev {
			return nil, &Error{Kind: KindTokenInvalid, Details: "token revoked"}
		}
	}

	vctx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		vctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	token, err := g.verifier.Verify(vctx, raw)
	if err != nil {
		return nil, asAuthError(err)
	}

	var claims map[string]interface{}
	if err := token.Claims(&claims); err != nil {
		return nil, &Error{Kind: KindTokenInvalid, Details: "failed to parse claims"}
	}

	u, err := g.users.ProvisionFromClaims(ctx, claims)
	if err != nil {
		logger.Errorf("user provisioning failed: %v", err)
		return nil, &Error{Kind: KindTokenInvalid, Details: err.Error()}
	}

	return &Context{Claims: claims, User: u, Role: u.Role}, nil
}

// RequireRole allows the request iff the authenticated role equals required.
// Pure check; it must run only after Authenticate produced ctx.
func RequireRole(ctx *Context, required string) *Error {
	if ctx == nil || ctx.Role != required {
		return &Error{Kind: KindInsufficientPrivilege}
	}
	return nil
}

// asAuthError maps a verifier error onto the closed taxonomy. Timeouts fail
// closed as a generic verification failure.
func asAuthError(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTokenInvalid, Details: "token verification timed out"}
	}
	return &Error{Kind: KindTokenInvalid, Details: err.Error()}
}
