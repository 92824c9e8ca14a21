package authtransport

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/laxuman02230135/task-management/apperr"
	"github.com/laxuman02230135/task-management/authsvc"
	"github.com/laxuman02230135/task-management/authsvc/pkg/authservice"
)

// HTTPToContext moves the session credential from the request cookie into
// the context.
func HTTPToContext(codec *CookieCodec) httptransport.RequestFunc {
	return func(ctx context.Context, r *http.Request) context.Context {
		return context.WithValue(ctx, authsvc.CredentialContextKey, codec.Credential(r))
	}
}

// NewAuthenticator resolves the credential placed by HTTPToContext and hands
// the identity to next. Requests without a session fail with
// apperr.ErrUnauthenticated before next runs.
func NewAuthenticator(sessions authservice.SessionResolver) endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			credential, _ := ctx.Value(authsvc.CredentialContextKey).(string)

			s, err := sessions.Resolve(ctx, credential)
			if err != nil {
				return nil, err
			}

			id, ok := s.Identity()
			if !ok {
				return nil, apperr.ErrUnauthenticated
			}

			return next(authsvc.WithIdentity(ctx, id), request)
		}
	}
}
