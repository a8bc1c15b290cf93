package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/BritneyNunes/NunesAutoBackEnd/models"
	"github.com/BritneyNunes/NunesAutoBackEnd/services"
	"github.com/BritneyNunes/NunesAutoBackEnd/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const mailTimeout = 15 * time.Second

type OrderStore interface {
	Store[models.Order]
	ForCustomer(ctx context.Context, customerID int64) ([]models.Order, error)
}

// CustomerLookup finds the account an order belongs to.
type CustomerLookup interface {
	FindByCustomerID(ctx context.Context, customerID int64) (*models.User, error)
}

type OrderController struct {
	Orders   OrderStore
	Users    CustomerLookup
	Payments services.PaymentGateway // nil disables card charges
	Mailer   utils.Mailer            // nil disables confirmations
	VATRate  float64
	Timeout  time.Duration

	// Admin serves the Basic-auth single-order routes.
	Admin *Resource[models.Order, *models.Order]
}

func NewOrderController(orders OrderStore, users CustomerLookup, payments services.PaymentGateway, mailer utils.Mailer, vatRate float64, timeout time.Duration) *OrderController {
	return &OrderController{
		Orders:   orders,
		Users:    users,
		Payments: payments,
		Mailer:   mailer,
		VATRate:  vatRate,
		Timeout:  timeout,
		Admin:    NewResource[models.Order](orders, models.OrderSchema, timeout),
	}
}

// NewOrderReference returns a reference such as "ORD-1A2B3C4D".
func NewOrderReference() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD-" + strings.ToUpper(id[:8])
}

func (h *OrderController) CreateOrder(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	if _, ok := payload["Items"]; !ok {
		if products, ok := payload["products"]; ok {
			payload["Items"] = products
		}
	}
	cardToken, _ := payload["cardToken"].(string)

	clean, err := models.OrderSchema.Prepare(payload)
	if err != nil {
		respondError(c, "ORDER", err)
		return
	}
	var order models.Order
	if err := models.OrderSchema.Decode(clean, &order); err != nil {
		respondError(c, "ORDER", err)
		return
	}
	if len(order.Items) == 0 {
		respondMessage(c, http.StatusBadRequest, "Order must contain at least one item")
		return
	}

	if err := order.ApplyTotals(h.VATRate); err != nil {
		respondError(c, "ORDER", err)
		return
	}
	if order.OrderReference == "" {
		order.OrderReference = NewOrderReference()
	}
	if order.Status == "" {
		order.Status = "placed"
	}
	order.PaymentStatus = models.PaymentPending

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	if strings.EqualFold(order.PaymentMethod, "card") && cardToken != "" {
		if h.Payments == nil {
			log.Printf("[ORDER] [WARN] card payment requested for %s but payments are not configured", order.OrderReference)
		} else {
			charge, err := h.Payments.Charge(ctx, order.TotalInclVAT, cardToken)
			if errors.Is(err, services.ErrPaymentDeclined) {
				respondMessage(c, http.StatusBadRequest, "Payment was declined")
				return
			}
			if err != nil {
				respondError(c, "ORDER", err)
				return
			}
			order.ChargeID = charge.ID
			if charge.Paid {
				order.PaymentStatus = models.PaymentPaid
			}
		}
	}

	order.Stamp(time.Now())
	id, err := h.Orders.Insert(ctx, &order)
	if err != nil {
		respondError(c, "ORDER", err)
		return
	}
	order.ID = id
	log.Printf("[ORDER] %s placed for customer %d (%.2f incl. VAT, %s)",
		order.OrderReference, order.CustomerID, order.TotalInclVAT, order.PaymentStatus)

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Order placed successfully",
		"_id":            id,
		"OrderReference": order.OrderReference,
		"TotalInclVAT":   order.TotalInclVAT,
		"paymentStatus":  order.PaymentStatus,
		"emailSent":      h.sendConfirmation(c.Request.Context(), &order),
	})
}

// sendConfirmation emails the customer. Failures are logged, never returned.
func (h *OrderController) sendConfirmation(parent context.Context, order *models.Order) bool {
	if h.Mailer == nil || h.Users == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(parent, mailTimeout)
	defer cancel()

	user, err := h.Users.FindByCustomerID(ctx, order.CustomerID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			log.Printf("[ORDER] [WARN] customer lookup for %s failed: %v", order.OrderReference, err)
		}
		return false
	}

	name := user.NameAndSurname
	if name == "" {
		name = user.Email
	}
	res := h.Mailer.Send(ctx, user.Email,
		fmt.Sprintf("NunesAuto order %s confirmed", order.OrderReference),
		utils.OrderConfirmationHTML(name, order.OrderReference, order.TotalInclVAT))
	if !res.Success {
		log.Printf("[ORDER] [WARN] confirmation for %s not sent: %s", order.OrderReference, res.Response)
	}
	return res.Success
}

func (h *OrderController) ListOrders(c *gin.Context) {
	h.Admin.List(c)
}

func (h *OrderController) CustomerOrders(c *gin.Context) {
	customerID, ok := customerParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	orders, err := h.Orders.ForCustomer(ctx, customerID)
	if err != nil {
		respondError(c, "ORDER", err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}
