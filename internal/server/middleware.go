package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/mkrassel/territory-app/internal/app"
	"github.com/mkrassel/territory-app/internal/operator"
)

const operatorTokenCookieKey = "operator_token"

// OperatorValidater is a middleware that is wrapped around operator paths.
// Any HTTP request that requires a valid operator should be wrapped in the
// Validate func.
type OperatorValidater struct {
	operators *operator.Service
	logger    *log.Logger
}

// Validate will verify that the caller is an operator. If the user making
// the request has a valid operator token cookie, next will execute. The
// request context passed to next will contain a key "operator_id" that
// will contain the id of the validated operator.
func (v *OperatorValidater) Validate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lw := NewLogWriter(v.logger, w, r)

		cookie, err := r.Cookie(operatorTokenCookieKey)
		if err != nil {
			appErr := &app.ServerResponseError{
				Err:        fmt.Errorf("getting %s cookie: %v", operatorTokenCookieKey, err),
				Msg:        "Please login",
				StatusCode: http.StatusUnauthorized,
			}
			v.logAbort(r, appErr, "OperatorValidater.Validate")
			lw.WriteError(appErr)
			return
		}

		account, err := v.operators.Validate(r.Context(), cookie.Value)
		if err != nil {
			err = fmt.Errorf("validating token: %w", err)
			v.logAbort(r, err, "OperatorValidater.Validate")
			lw.WriteError(err)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), "operator_id", account.ID)))
	}
}

func (v *OperatorValidater) logAbort(r *http.Request, err error, entry string) {
	v.logger.Printf("%s %s %s: aborting operator request: %v\n", r.Method, r.URL.Path, entry, err)
}
