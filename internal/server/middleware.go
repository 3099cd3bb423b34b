package server

import (
	"context"
	"crypto/subtle"
	"net/http"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// ApiSecretMiddleware returns a Kratos middleware that validates the X-API-Key
// header on the query routes. The ingest POST is exempt because agents
// authenticate it with SharedKey signatures instead. An empty secret disables
// authentication (pass-through). Swagger UI is unaffected because it is
// registered via HandlePrefix which bypasses the Kratos middleware chain.
func ApiSecretMiddleware(secret string) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req any) (any, error) {
			if secret == "" {
				return handler(ctx, req)
			}

			tr, ok := transport.FromServerContext(ctx)
			if !ok {
				return nil, kerrors.InternalServer("NO_TRANSPORT", "no transport in context")
			}

			if ht, ok := tr.(khttp.Transporter); ok {
				r := ht.Request()
				if r.Method == http.MethodPost && r.URL.Path == reportsPath {
					return handler(ctx, req)
				}
			}

			key := tr.RequestHeader().Get("X-API-Key")
			if key == "" {
				return nil, kerrors.Unauthorized("MISSING_API_KEY", "missing X-API-Key header")
			}

			if subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
				return nil, kerrors.Unauthorized("INVALID_API_KEY", "invalid X-API-Key")
			}

			return handler(ctx, req)
		}
	}
}
