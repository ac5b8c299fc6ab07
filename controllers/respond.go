package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"manthokha-backend/catalog"
	"manthokha-backend/drafts"
	"manthokha-backend/services"
	"manthokha-backend/utils"
)

// statusFor maps an error onto an HTTP status and a stable error code.
func statusFor(err error) (int, string) {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, "error.validation"
	case errors.Is(err, catalog.ErrNotConfirmed):
		return http.StatusConflict, "error.confirmationRequired"
	case errors.Is(err, catalog.ErrBusy), errors.Is(err, drafts.ErrLocked):
		return http.StatusConflict, "error.busy"
	case errors.Is(err, catalog.ErrNotEditing):
		return http.StatusConflict, "error.notEditing"
	case errors.Is(err, catalog.ErrUnknownField):
		return http.StatusBadRequest, "error.unknownField"
	case errors.Is(err, drafts.ErrNotFound):
		return http.StatusNotFound, "error.draftNotFound"
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "error.notFound"
	case errors.Is(err, services.ErrInUse):
		return http.StatusConflict, "error.inUse"
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, "error.conflict"
	case errors.Is(err, services.ErrForeignKey):
		return http.StatusUnprocessableEntity, "error.foreignKey"
	case errors.Is(err, services.ErrUnsupportedImage), errors.Is(err, services.ErrInvalidImage):
		return http.StatusBadRequest, "error.invalidImage"
	}
	return http.StatusInternalServerError, "error.internal"
}

func messageFor(err error) string {
	var verr *catalog.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	var serr *catalog.StoreError
	if errors.As(err, &serr) {
		return serr.Message()
	}
	return err.Error()
}

// respondError writes err with any notifications raised on the way.
func respondError(c *gin.Context, err error, rec *catalog.Recorder) {
	_ = c.Error(err)
	code, errCode := statusFor(err)
	utils.JSONError(c, code, errCode, messageFor(err), notes(rec))
}

func respondOK(c *gin.Context, code int, data interface{}, rec *catalog.Recorder) {
	utils.JSONSuccess(c, code, data, notes(rec))
}

func badRequest(c *gin.Context, message string) {
	utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", message, nil)
}

func notFound(c *gin.Context, message string) {
	utils.JSONError(c, http.StatusNotFound, "error.notFound", message, nil)
}

func notes(rec *catalog.Recorder) gin.H {
	if rec == nil {
		return nil
	}
	return gin.H{"notifications": rec.Notifications()}
}
