package server

import (
	"errors"
	"net/http"

	"compustore-be/internal/cart"
	"compustore-be/internal/customer"
	"compustore-be/internal/discount"
	"compustore-be/internal/inventory"
	"compustore-be/internal/logger"
	"compustore-be/internal/order"
	"compustore-be/internal/payment"
	"compustore-be/internal/product"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError translates domain errors into the wire shape
// {success:false, error, kind}. Anything unrecognized is a 500 with the
// detail kept out of the body.
func respondError(c *gin.Context, err error) {
	status, kind := classify(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.FromCtx(c.Request.Context()).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		msg = "internal server error"
	}

	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   msg,
		"kind":    kind,
	})
}

func classify(err error) (int, string) {
	var (
		insufficient *inventory.InsufficientStockError
		unavailable  *product.UnavailableError
		illegal      *order.IllegalTransitionError
		rejected     *payment.EvidenceRejectedError
	)

	switch {
	case errors.As(err, &insufficient):
		return http.StatusBadRequest, "InsufficientStock"
	case errors.As(err, &unavailable):
		return http.StatusBadRequest, "ProductUnavailable"
	case errors.As(err, &illegal):
		return http.StatusBadRequest, "IllegalTransition"
	case errors.As(err, &rejected):
		return http.StatusBadRequest, "EvidenceRejected"

	case errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, order.ErrLineNotFound),
		errors.Is(err, payment.ErrSessionNotFound),
		errors.Is(err, discount.ErrRuleNotFound),
		errors.Is(err, customer.ErrCustomerNotFound):
		return http.StatusNotFound, "NotFound"

	case errors.Is(err, payment.ErrSessionExpired):
		return http.StatusNotFound, "SessionExpired"
	case errors.Is(err, payment.ErrSessionClosed):
		return http.StatusBadRequest, "SessionClosed"

	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrNothingToCancel),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, product.ErrNoCostBasis),
		errors.Is(err, discount.ErrRuleReferenced):
		return http.StatusBadRequest, "BadRequest"

	case errors.Is(err, customer.ErrEmailExists):
		return http.StatusBadRequest, "EmailExists"
	case errors.Is(err, customer.ErrInvalidCredentials):
		return http.StatusUnauthorized, "InvalidCredentials"
	}

	return http.StatusInternalServerError, "Internal"
}
