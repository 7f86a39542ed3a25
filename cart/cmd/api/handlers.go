package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/giovaniif/fusion-store/cart/use_cases/additem"
	"github.com/giovaniif/fusion-store/cart/use_cases/clearcart"
	"github.com/giovaniif/fusion-store/cart/use_cases/removeitem"
	"github.com/giovaniif/fusion-store/cart/use_cases/updateitem"
	"github.com/giovaniif/fusion-store/cart/use_cases/viewcart"
	"github.com/giovaniif/fusion-store/infra"
	"github.com/giovaniif/fusion-store/infra/respond"
)

type AddItemRequest struct {
	ProductId any `json:"productId"`
	Quantity  any `json:"quantity"`
}

type UpdateItemRequest struct {
	Quantity any `json:"quantity"`
}

type cartHandlers struct {
	logger     *zap.Logger
	viewCart   *viewcart.ViewCart
	addItem    *additem.AddItem
	updateItem *updateitem.UpdateItem
	removeItem *removeitem.RemoveItem
	clearCart  *clearcart.ClearCart
}

func (h *cartHandlers) get(c *gin.Context) {
	view, err := h.viewCart.ViewCart(c.Request.Context(), cartIdFrom(c))
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *cartHandlers) add(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, h.logger, infra.NewValidationError("Invalid JSON body"))
		return
	}
	view, err := h.addItem.AddItem(c.Request.Context(), additem.Input{
		CartId:    cartIdFrom(c),
		ProductId: req.ProductId,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *cartHandlers) update(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, h.logger, infra.NewValidationError("Invalid JSON body"))
		return
	}
	view, err := h.updateItem.UpdateItem(c.Request.Context(), updateitem.Input{
		CartId:    cartIdFrom(c),
		ProductId: c.Param("productId"),
		Quantity:  req.Quantity,
	})
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *cartHandlers) remove(c *gin.Context) {
	view, err := h.removeItem.RemoveItem(c.Request.Context(), removeitem.Input{
		CartId:    cartIdFrom(c),
		ProductId: c.Param("productId"),
	})
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *cartHandlers) clear(c *gin.Context) {
	view, err := h.clearCart.ClearCart(c.Request.Context(), cartIdFrom(c))
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
