package storefrontserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutmapper "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/http/mapper"
	checkoutapp "github.com/Apurer/go-gin-storefront/internal/domains/checkout/application"
	checkoutports "github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

// CheckoutAPI wires HTTP transport with the checkout bounded context service.
type CheckoutAPI struct {
	bags    SessionBagStore
	service checkoutports.Service
	logger  *slog.Logger
}

// NewCheckoutAPI creates a CheckoutAPI backed by the provided service.
func NewCheckoutAPI(service checkoutports.Service, logger *slog.Logger) CheckoutAPI {
	if logger == nil {
		logger = discardLogger()
	}
	return CheckoutAPI{service: service, logger: logger}
}

type confirmationResponse struct {
	checkoutmapper.Confirmation
	Messages []Flash `json:"messages,omitempty"`
}

// Get /checkout
// Prices the bag and opens a payment intent
func (api *CheckoutAPI) StartCheckout(c *gin.Context) {
	bag := loadBag(c, api.bags, api.logger)
	session, err := api.service.Start(c.Request.Context(), bag)
	if errors.Is(err, checkoutapp.ErrEmptyBag) {
		api.redirectEmptyBag(c)
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkoutmapper.FromSession(session))
}

// Post /checkout
// Submits the order form and materializes the order
func (api *CheckoutAPI) SubmitCheckout(c *gin.Context) {
	var req checkoutmapper.SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := checkoutmapper.ToSubmitInput(req)
	input.Bag = loadBag(c, api.bags, api.logger)
	if input.Bag.IsEmpty() {
		api.redirectEmptyBag(c)
		return
	}

	result, err := api.service.Submit(c.Request.Context(), input)
	if errors.Is(err, checkoutapp.ErrEmptyBag) {
		api.redirectEmptyBag(c)
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// The bag is only cleared once the order is committed.
	queueFlash(c, flashSuccess, successMessage(result.OrderNumber, req.Email))
	if err := api.bags.Clear(c); err != nil {
		api.logger.LogAttrs(c.Request.Context(), slog.LevelError, "failed to clear session bag",
			slog.String("order.number", result.OrderNumber),
			slog.String("error", err.Error()))
	}
	redirect := "/checkout/success/" + result.OrderNumber
	c.Header("Location", redirect)
	c.JSON(http.StatusCreated, checkoutmapper.Submitted{
		OrderNumber: result.OrderNumber,
		State:       result.State.String(),
		SaveInfo:    result.SaveInfo,
		Redirect:    redirect,
	})
}

// Get /checkout/success/:orderNumber
// Shows the confirmation for a committed order
func (api *CheckoutAPI) CheckoutSuccess(c *gin.Context) {
	orderNumber := c.Param("orderNumber")
	order, err := api.service.GetOrder(c.Request.Context(), orderNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, confirmationResponse{
		Confirmation: checkoutmapper.Confirmation{
			Message: successMessage(order.OrderNumber, order.Contact.Email),
			Order:   checkoutmapper.FromOrder(order),
		},
		Messages: popFlashes(c, api.logger),
	})
}

func (api *CheckoutAPI) redirectEmptyBag(c *gin.Context) {
	queueFlash(c, flashError, "There is nothing in your bag at the moment")
	saveSession(c, api.logger)
	c.Redirect(http.StatusFound, "/products")
}

func successMessage(orderNumber, email string) string {
	return fmt.Sprintf("Order successfully processed! Your order number is %s. A confirmation email will be sent to %s.",
		orderNumber, email)
}
