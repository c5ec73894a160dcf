package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Unprocessable(c *gin.Context, code, message string) {
	Write(c, http.StatusUnprocessableEntity, code, message)
}

func BadGateway(c *gin.Context, code, message string) {
	Write(c, http.StatusBadGateway, code, message)
}

// Respond maps a use case error onto a response. Unknown errors become a
// 500 carrying fallbackCode.
func Respond(c *gin.Context, err error, fallbackCode string) {
	var (
		nf *NotFoundError
		is *InvalidStateError
		ce *ConflictError
		cm *ConcurrentModificationError
		de *DeliveryError
		ae *ArchiveError
		be BusinessError
	)

	switch {
	case errors.As(err, &nf):
		NotFound(c, "not_found", nf.Error())
	case errors.As(err, &is):
		Unprocessable(c, "invalid_state", is.Error())
	case errors.As(err, &ce):
		Conflict(c, "slot_conflict", ce.Error())
	case errors.As(err, &cm):
		Conflict(c, "concurrent_modification", cm.Error())
	case errors.As(err, &de):
		BadGateway(c, "delivery_failed", de.Error())
	case errors.As(err, &ae):
		BadGateway(c, "archive_failed", ae.Error())
	case errors.As(err, &be):
		BadRequest(c, be.Code, be.Code)
	default:
		Internal(c, fallbackCode, "Unexpected error.")
	}
}
