package storefrontserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	bagapp "github.com/Apurer/go-gin-storefront/internal/domains/bag/application"
	bagdomain "github.com/Apurer/go-gin-storefront/internal/domains/bag/domain"
	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	checkoutapp "github.com/Apurer/go-gin-storefront/internal/domains/checkout/application"
	checkoutports "github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

var responder = apierrors.NewChainedResponder("",
	mapCheckoutError,
	mapBagError,
	mapCatalogError,
)

func respondError(c *gin.Context, status int, err error) {
	responder.RespondStatus(c, status, err)
}

func respondServiceError(c *gin.Context, err error) {
	responder.RespondError(c, err)
}

func mapCatalogError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, catalogapp.ErrInvalidInput), errors.Is(err, catalogapp.ErrEmptySearch):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapBagError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, bagapp.ErrProductMissing):
		return apierrors.ErrConflict.WithDetail("a product in your bag is no longer available"), true
	case errors.Is(err, bagdomain.ErrNotInBag):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, bagdomain.ErrInvalidQuantity),
		errors.Is(err, bagdomain.ErrInvalidProduct),
		errors.Is(err, bagdomain.ErrInvalidSize),
		errors.Is(err, errSizeRequired),
		errors.Is(err, errSizeNotSupported):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapCheckoutError(err error) (apierrors.ProblemDetail, bool) {
	var validation *checkoutapp.ValidationError
	switch {
	case errors.As(err, &validation):
		return apierrors.NewValidationProblem(validation.Fields).
			WithDetail("There was an error with your form. Please double check your information.").
			WithExtension("form", validation.Form), true
	case errors.Is(err, checkoutapp.ErrOrderRolledBack):
		return apierrors.ErrConflict.WithDetail(checkoutapp.ErrOrderRolledBack.Error()), true
	case errors.Is(err, checkoutports.ErrPaymentServiceUnavailable):
		return apierrors.ErrServiceUnavailable.WithDetail("payment service is unavailable, please try again shortly"), true
	case errors.Is(err, checkoutports.ErrOrderNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, checkoutapp.ErrInvalidInput):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
