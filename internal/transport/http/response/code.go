package response

import (
	"net/http"

	"go-gin-account-service/internal/domain"
)

// kindStatus maps a domain error kind to its HTTP status. Credential failures
// are 400, token failures 401.
var kindStatus = map[domain.Kind]int{
	domain.KindValidation:   http.StatusBadRequest,
	domain.KindConflict:     http.StatusBadRequest,
	domain.KindCredentials:  http.StatusBadRequest,
	domain.KindUnauthorized: http.StatusUnauthorized,
	domain.KindForbidden:    http.StatusForbidden,
	domain.KindNotFound:     http.StatusNotFound,
	domain.KindInternal:     http.StatusInternalServerError,
}

func StatusOf(k domain.Kind) int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// messages written by transport middleware
const (
	MsgBusy         = "server busy"
	MsgTimeout      = "request timeout"
	MsgBodyTooLarge = "request body too large"
)
