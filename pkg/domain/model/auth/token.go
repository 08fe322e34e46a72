package auth

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

// ErrNoToken is returned when the context carries no signed-in identity
var ErrNoToken = goerr.New("no authentication token in context")

// Token is the signed-in identity resolved from the request
type Token struct {
	Sub   string // identity provider UID, key of users/{uid}
	Email string
	Name  string
}

func NewToken(sub, email, name string) *Token {
	return &Token{Sub: sub, Email: email, Name: name}
}

type ctxTokenKey struct{}

// ContextWithToken embeds token into ctx
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext returns the identity embedded by ContextWithToken
func TokenFromContext(ctx context.Context) (*Token, error) {
	token, ok := ctx.Value(ctxTokenKey{}).(*Token)
	if !ok || token == nil {
		return nil, ErrNoToken
	}
	return token, nil
}
