package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/veiling/veiling-be/internal/http/respond"
	"github.com/veiling/veiling-be/internal/service"
	"github.com/veiling/veiling-be/internal/storage"
	"github.com/veiling/veiling-be/pkg/logger"
)

// writeError maps service and storage errors onto statuses. Unexpected
// errors are logged and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		respond.Error(w, http.StatusBadRequest, detail(err, service.ErrInvalidArgument))
	case errors.Is(err, service.ErrUnauthenticated):
		respond.Error(w, http.StatusUnauthorized, service.ErrUnauthenticated.Error())
	case errors.Is(err, service.ErrNotFound):
		respond.Error(w, http.StatusNotFound, detail(err, service.ErrNotFound))
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, storage.ErrNotFound.Error())
	case errors.Is(err, service.ErrAlreadyExists):
		respond.Error(w, http.StatusConflict, detail(err, service.ErrAlreadyExists))
	case errors.Is(err, storage.ErrConstraintViolation):
		respond.Error(w, http.StatusConflict, "request conflicts with existing data")
	default:
		logger.FromContext(r.Context(), log).Error("unhandled error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

// detail strips the error kind prefix from a wrapped service error.
func detail(err, kind error) string {
	msg := err.Error()
	if trimmed, ok := strings.CutPrefix(msg, kind.Error()+": "); ok {
		return trimmed
	}
	return msg
}
