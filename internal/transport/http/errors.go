package transport

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	bookingapp "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/application"
	bookingports "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/ports"
	orderapp "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/application"
	orderports "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/ports"
	sharederrors "github.com/loziogigio/vinc-pim-sub014/internal/shared/errors"
)

// responder maps application errors to RFC 7807 problem responses.
var responder = sharederrors.NewChainedResponder("",
	mapOrderErrors,
	mapBookingErrors,
)

func respondError(c *gin.Context, err error) {
	responder.RespondError(c, err)
}

// respondBindingError turns gin binding failures into field-level problems.
func respondBindingError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = fe.Tag()
		}
		responder.Respond(c, sharederrors.NewValidationProblem(fields))
		return
	}
	responder.Respond(c, sharederrors.ErrBadRequest.WithDetail(err.Error()))
}

func mapOrderErrors(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, orderports.ErrNotFound):
		return sharederrors.ErrNotFound.WithDetail("order not found"), true
	case errors.Is(err, orderports.ErrIdempotencyConflict):
		return sharederrors.ErrConflict.WithDetail("idempotency key reused with a different payload"), true
	case errors.Is(err, orderapp.ErrInvalidTransition):
		return sharederrors.ErrInvalidTransition.WithDetail(err.Error()), true
	case errors.Is(err, orderapp.ErrOrderLocked):
		return sharederrors.ErrOrderLocked.WithDetail(err.Error()), true
	case errors.Is(err, orderapp.ErrValidation):
		return sharederrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, orderapp.ErrConflict):
		return sharederrors.ErrConflict.WithDetail(err.Error()), true
	}
	return sharederrors.ProblemDetail{}, false
}

func mapBookingErrors(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, bookingports.ErrBookingNotFound):
		return sharederrors.ErrNotFound.WithDetail("booking not found"), true
	case errors.Is(err, bookingports.ErrDepartureNotFound):
		return sharederrors.ErrNotFound.WithDetail("departure not found"), true
	case errors.Is(err, bookingapp.ErrInvalidTransition):
		return sharederrors.ErrInvalidTransition.WithDetail(err.Error()), true
	case errors.Is(err, bookingapp.ErrInsufficientCapacity):
		return sharederrors.ErrInsufficientCapacity.WithDetail(err.Error()), true
	case errors.Is(err, bookingapp.ErrHoldExpired):
		return sharederrors.ErrHoldExpired.WithDetail(err.Error()), true
	case errors.Is(err, bookingapp.ErrValidation):
		return sharederrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, bookingapp.ErrConflict):
		return sharederrors.ErrConflict.WithDetail(err.Error()), true
	}
	return sharederrors.ProblemDetail{}, false
}
