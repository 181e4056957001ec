package rest

import (
	"errors"
	"net/http"

	cartdomain "github.com/shoplite/retail-checkout/internal/cart/domain"
	catalogapp "github.com/shoplite/retail-checkout/internal/catalog/app"
	catalogdomain "github.com/shoplite/retail-checkout/internal/catalog/domain"
	checkoutapp "github.com/shoplite/retail-checkout/internal/checkout/app"
	walletapp "github.com/shoplite/retail-checkout/internal/wallet/app"
	walletdomain "github.com/shoplite/retail-checkout/internal/wallet/domain"
)

// statusFromErr maps domain errors onto HTTP statuses and stable error
// codes for the response body.
func statusFromErr(err error) (int, string) {
	switch {
	case errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, cartdomain.ErrNotFound),
		errors.Is(err, walletdomain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, checkoutapp.ErrEmptyCart):
		return http.StatusUnprocessableEntity, "EMPTY_CART"
	case errors.Is(err, walletdomain.ErrInsufficientFunds):
		return http.StatusPaymentRequired, "INSUFFICIENT_FUNDS"
	case errors.Is(err, catalogdomain.ErrOutOfStock):
		return http.StatusConflict, "OUT_OF_STOCK"
	case errors.Is(err, catalogdomain.ErrExpired):
		return http.StatusConflict, "EXPIRED"
	case errors.Is(err, cartdomain.ErrCartSettled):
		return http.StatusConflict, "CART_SETTLED"
	case errors.Is(err, cartdomain.ErrInvalidQuantity),
		errors.Is(err, catalogapp.ErrInvalidInput),
		errors.Is(err, walletapp.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
