package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/agamariel/shopmart/internal/lifecycle"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// ErrorResponse - тело ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

var reasonStatus = map[lifecycle.Reason]int{
	lifecycle.ReasonTerminalOrder:      http.StatusConflict,
	lifecycle.ReasonBackwardTransition: http.StatusConflict,
	lifecycle.ReasonUnknownStatus:      http.StatusBadRequest,
	lifecycle.ReasonNotOwner:           http.StatusForbidden,
	lifecycle.ReasonNotFinished:        http.StatusConflict,
	lifecycle.ReasonAlreadyReviewed:    http.StatusConflict,
	lifecycle.ReasonInvalidRating:      http.StatusUnprocessableEntity,
	lifecycle.ReasonEmptyContent:       http.StatusUnprocessableEntity,
}

// rejectionError переводит отказ жизненного цикла заказа в HTTP-ошибку с кодом причины.
func rejectionError(err error) (*echo.HTTPError, bool) {
	var rejection *lifecycle.RejectionError
	if !errors.As(err, &rejection) {
		return nil, false
	}
	status, ok := reasonStatus[rejection.Reason]
	if !ok {
		status = http.StatusUnprocessableEntity
	}
	return echo.NewHTTPError(status, ErrorResponse{
		Error: rejection.Message,
		Code:  string(rejection.Reason),
	}), true
}

func internalError(c echo.Context, msg string, err error) error {
	log.WithField("component", "http").
		WithError(err).
		WithFields(log.Fields{"method": c.Request().Method, "path": c.Path()}).
		Error(msg)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// ErrorHandler приводит все ошибки к виду {"error": "...", "code": "..."}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := ErrorResponse{Error: http.StatusText(status)}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch msg := he.Message.(type) {
		case ErrorResponse:
			body = msg
		case string:
			body = ErrorResponse{Error: msg}
		case error:
			body = ErrorResponse{Error: msg.Error()}
		default:
			body = ErrorResponse{Error: http.StatusText(status)}
		}
	} else {
		log.WithField("component", "http").WithError(err).Error("unhandled error")
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		log.WithField("component", "http").WithError(writeErr).Warn("failed to write error response")
	}
}
