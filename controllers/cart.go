package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/BritneyNunes/NunesAutoBackEnd/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CartStore interface {
	Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.CartItem, error)
	ForCustomer(ctx context.Context, customerID int64) ([]models.CartItem, error)
	Add(ctx context.Context, item *models.CartItem) (primitive.ObjectID, error)
	Remove(ctx context.Context, customerID int64, ref string) error
	Clear(ctx context.Context, customerID int64) (int64, error)
}

type CartController struct {
	Carts   CartStore
	Timeout time.Duration
}

func NewCartController(carts CartStore, timeout time.Duration) *CartController {
	return &CartController{Carts: carts, Timeout: timeout}
}

// customerParam reads :CustomerID, answering 400 when it is not a number.
func customerParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("CustomerID")), 10, 64)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid CustomerID format")
		return 0, false
	}
	return id, true
}

func (h *CartController) AddToCart(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	clean, err := models.CartSchema.Prepare(payload)
	if err != nil {
		respondError(c, "CART", err)
		return
	}
	var item models.CartItem
	if err := models.CartSchema.Decode(clean, &item); err != nil {
		respondError(c, "CART", err)
		return
	}
	item.Stamp(time.Now())

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	id, err := h.Carts.Add(ctx, &item)
	if errors.Is(err, models.ErrDuplicate) {
		respondMessage(c, http.StatusConflict, "Item already in cart")
		return
	}
	if err != nil {
		respondError(c, "CART", err)
		return
	}
	item.ID = id

	c.JSON(http.StatusCreated, gin.H{"message": "Item added to cart", "_id": id, "item": item})
}

func (h *CartController) ListCart(c *gin.Context) {
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	items, err := h.Carts.Find(ctx, nil)
	if err != nil {
		respondError(c, "CART", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *CartController) CustomerCart(c *gin.Context) {
	customerID, ok := customerParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	items, err := h.Carts.ForCustomer(ctx, customerID)
	if err != nil {
		respondError(c, "CART", err)
		return
	}
	if items == nil {
		items = []models.CartItem{}
	}
	c.JSON(http.StatusOK, items)
}

// RemoveFromCart deletes one record and returns what is left in the cart.
func (h *CartController) RemoveFromCart(c *gin.Context) {
	customerID, ok := customerParam(c)
	if !ok {
		return
	}
	ref := strings.TrimSpace(c.Param("cartItemId"))

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	if err := h.Carts.Remove(ctx, customerID, ref); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, "Item not found in cart")
			return
		}
		respondError(c, "CART", err)
		return
	}

	remaining, err := h.Carts.ForCustomer(ctx, customerID)
	if err != nil {
		respondError(c, "CART", err)
		return
	}
	if remaining == nil {
		remaining = []models.CartItem{}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed", "cart": remaining})
}

func (h *CartController) ClearCart(c *gin.Context) {
	customerID, ok := customerParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	n, err := h.Carts.Clear(ctx, customerID)
	if err != nil {
		respondError(c, "CART", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared", "deleted": n})
}
