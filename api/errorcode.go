package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/mizan/crimewatch-api/flow"
	"github.com/mizan/crimewatch-api/store"
	"github.com/mizan/crimewatch-api/utils"
)

const (
	codeInternalServer             int64 = 999
	codeInvalidSignature           int64 = 1000
	codeInvalidAuthorizationFormat int64 = 1001
	codeAuthorizationExpired       int64 = 1002
	codeInvalidToken               int64 = 1003
	codeInvalidClientVersion       int64 = 1006
	codeUnsupportedClientVersion   int64 = 1007

	codeInvalidParameters  int64 = 1010
	codeCannotParseRequest int64 = 1011

	codeAccountTaken       int64 = 1100
	codeInvalidCredentials int64 = 1101
	codeSessionNotFound    int64 = 1102

	codeValidation          int64 = 1200
	codeIdentity            int64 = 1201
	codeSubmission          int64 = 1202
	codeFetch               int64 = 1203
	codeInvalidCredential   int64 = 1204
	codeAuthFailed          int64 = 1205
	codeLookup              int64 = 1300
	codePermission          int64 = 1301
	codeLocationUnavailable int64 = 1302
)

var (
	errorMessageMap = map[int64]string{
		999:  "internal server error",
		1000: "invalid signature",
		1001: "invalid authorization format",
		1002: "authorization expired",
		1003: "invalid token",

		1006: "invalid value of client version",
		1007: "API for this client version has been discontinued",

		1010: "invalid parameters",
		1011: "cannot parse request",

		1100: store.ErrAccountTaken.Error(),
		1101: store.ErrInvalidCredentials.Error(),
		1102: store.ErrSessionNotFound.Error(),

		1200: flow.ErrValidation.Error(),
		1201: flow.ErrIdentity.Error(),
		1202: flow.ErrSubmission.Error(),
		1203: flow.ErrFetch.Error(),
		1204: "invalid email or password",
		1205: flow.ErrAuth.Error(),

		1300: flow.ErrLookup.Error(),
		1301: flow.ErrPermission.Error(),
		1302: flow.ErrLocation.Error(),
	}

	errorInvalidParameters = errorJSON(codeInvalidParameters)
)

type ErrorResponse struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

// errorJSON converts an error code to a standardized error object
func errorJSON(code int64) ErrorResponse {
	var message string
	if msg, ok := errorMessageMap[code]; ok {
		message = msg
	} else {
		message = "unknown"
	}

	return ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// localizedErrorJSON is errorJSON with the message translated to the
// languages of the Accept-Language header
func (s *Server) localizedErrorJSON(c *gin.Context, code int64) ErrorResponse {
	resp := errorJSON(code)
	if s.i18nBundle == nil {
		return resp
	}

	localizer := utils.NewLocalizer(s.i18nBundle, c.GetHeader("Accept-Language"))
	message, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID: fmt.Sprintf("error_%d", code),
	})
	if err != nil {
		return resp
	}

	resp.Message = message
	return resp
}

func (s *Server) abortWithCode(c *gin.Context, status int, code int64, errs ...error) {
	abortWithEncoding(c, status, s.localizedErrorJSON(c, code), errs...)
}

// errorStatus maps a flow error to its http status and error code. The flow
// kind decides first, store errors only refine what is left, like auth errors.
func errorStatus(err error) (int, int64) {
	switch {
	case errors.Is(err, flow.ErrValidation):
		return http.StatusBadRequest, codeValidation
	case errors.Is(err, flow.ErrIdentity):
		return http.StatusUnauthorized, codeIdentity
	case errors.Is(err, flow.ErrSubmission):
		return http.StatusBadGateway, codeSubmission
	case errors.Is(err, flow.ErrFetch):
		return http.StatusBadGateway, codeFetch
	case errors.Is(err, flow.ErrLookup):
		return http.StatusBadGateway, codeLookup
	case errors.Is(err, flow.ErrPermission):
		return http.StatusForbidden, codePermission
	case errors.Is(err, flow.ErrLocation):
		return http.StatusUnprocessableEntity, codeLocationUnavailable
	case errors.Is(err, store.ErrAccountTaken):
		return http.StatusForbidden, codeAccountTaken
	case errors.Is(err, store.ErrInvalidCredentials):
		return http.StatusUnauthorized, codeInvalidCredentials
	case errors.Is(err, store.ErrSessionNotFound):
		return http.StatusUnauthorized, codeSessionNotFound
	case errors.Is(err, flow.ErrAuth):
		return http.StatusUnauthorized, codeAuthFailed
	default:
		return http.StatusInternalServerError, codeInternalServer
	}
}

// abortWithFlowError renders a flow error
func (s *Server) abortWithFlowError(c *gin.Context, err error) {
	status, code := errorStatus(err)
	s.abortWithCode(c, status, code, err)
}
