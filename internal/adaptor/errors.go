package adaptor

import (
	"errors"
	"net/http"

	"hospital-booking/internal/usecase"
	"hospital-booking/pkg/utils"

	"go.uber.org/zap"
)

// statusFor maps an error kind to its HTTP status. This is the only place
// where kinds meet the transport.
func statusFor(kind usecase.Kind) int {
	switch kind {
	case usecase.KindValidation, usecase.KindInvalidPayment, usecase.KindFeeMismatch:
		return http.StatusBadRequest
	case usecase.KindForbidden:
		return http.StatusForbidden
	case usecase.KindNotFound:
		return http.StatusNotFound
	case usecase.KindSlotUnavailable, usecase.KindConflict:
		return http.StatusConflict
	case usecase.KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError writes the error response for a failed service call
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var svcErr *usecase.Error
	if !errors.As(err, &svcErr) {
		svcErr = &usecase.Error{Kind: usecase.KindFatal, Err: err}
	}

	switch svcErr.Kind {
	case usecase.KindFatal:
		// details stay in the log
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	case usecase.KindTransient:
		log.Warn(operation+" failed - transient", zap.Error(err), zap.String("operation", operation))
		w.Header().Set("Retry-After", "1")
	default:
		log.Warn(operation+" failed - "+svcErr.Kind.String(),
			zap.String("reason", svcErr.Message),
			zap.String("operation", operation))
	}

	var fields any
	if len(svcErr.Fields) > 0 {
		fields = svcErr.Fields
	}
	utils.ResponseError(w, statusFor(svcErr.Kind), svcErr.Kind.String(), svcErr.Message, fields)
}
