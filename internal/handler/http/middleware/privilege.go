package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/auth"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/user"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/handler/http/response"
)

type Enforcer interface {
	Enforce(userID int, module user.Module, action user.Action) (bool, error)
}

// RequirePrivilege checks if the caller may perform action on module
func RequirePrivilege(enforcer Enforcer, module user.Module, action user.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			allowed, err := enforcer.Enforce(userID, module, action)
			if err != nil {
				slog.Error("Privilege check failed", "error", err, "user_id", userID)
				response.InternalServerError(w, "Failed to check privileges")
				return
			}
			if !allowed {
				response.Forbidden(w, fmt.Sprintf("Insufficient privileges: required '%s:%s'", module, action))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
