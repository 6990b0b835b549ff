package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"conduit/internal/domain"
)

type errorBody struct {
	Errors struct {
		Body []string `json:"body"`
	} `json:"errors"`
}

func renderError(messages ...string) errorBody {
	var body errorBody
	body.Errors.Body = messages
	return body
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidParameter:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindAlreadyExists, domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps err onto a status and the {errors: {body: [...]}} envelope.
// Unclassified errors are logged and hidden behind a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		h.requestLogger(c).WithError(err).Error("unhandled error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, renderError("internal server error"))
		return
	}

	status := statusFor(derr.Kind)
	message := derr.Message
	switch {
	case status >= http.StatusInternalServerError:
		h.requestLogger(c).WithError(err).Error("request failed")
		if message == "" {
			message = "internal server error"
		}
	case derr.Kind == domain.KindUnauthorized:
		h.metrics.AuthFailure(derr.Reason)
	}
	c.AbortWithStatusJSON(status, renderError(message))
}
