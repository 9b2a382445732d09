package httpserver

import (
	"context"

	"github.com/asadolabs/asador/internal/model"
)

type ctxKey string

const principalKey ctxKey = "asador.principal"

// WithPrincipal stores the authenticated caller in the context.
func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromCtx fetches the authenticated caller from the context.
func PrincipalFromCtx(ctx context.Context) (model.Principal, bool) {
	v := ctx.Value(principalKey)
	if v == nil {
		return model.Principal{}, false
	}
	p, ok := v.(model.Principal)
	return p, ok
}
