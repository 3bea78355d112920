package http

import (
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model/auth"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"github.com/voiceops-lab/mnemosyne/pkg/usecase"
	"github.com/voiceops-lab/mnemosyne/pkg/utils/errutil"
)

// authMiddleware resolves the Bearer credential on every request and binds
// the resulting tenant access to the request context. There is no
// unauthenticated fallback: a request without a valid credential never
// reaches a handler.
func authMiddleware(uc *usecase.UseCases) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := bearerToken(r)
			if credential == "" {
				errutil.HandleHTTP(r.Context(), w,
					goerr.Wrap(types.ErrAuthentication, "missing bearer credential"))
				return
			}

			access, err := uc.ResolveTenant(r.Context(), credential)
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, err)
				return
			}

			ctx := auth.ContextWithAccess(r.Context(), access)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
