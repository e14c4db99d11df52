package controllers

import (
	"errors"
	"strconv"

	"backend/pkg/resp"
	"backend/repository"
	"backend/services"
	"backend/utils"
	"backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrderController struct {
	Svc            *services.OrderService
	RestaurantRepo *repository.RestaurantRepository
	Hub            *ws.OrderHub
}

func NewOrderController(s *services.OrderService, rr *repository.RestaurantRepository, hub *ws.OrderHub) *OrderController {
	return &OrderController{Svc: s, RestaurantRepo: rr, Hub: hub}
}

// POST /orders — checkout of the current cart
func (h *OrderController) Create(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	order, err := h.Svc.Checkout(uid)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart), errors.Is(err, services.ErrTargetTimeMissing):
			resp.BadRequest(c, err.Error())
		default:
			resp.ServerError(c, err)
		}
		return
	}
	h.Hub.NotifyStatus(order)
	resp.Created(c, order)
}

// GET /orders/:id
func (h *OrderController) Detail(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	id := paramID(c, "id")
	if id == 0 {
		resp.BadRequest(c, "invalid id")
		return
	}
	order, err := h.Svc.Detail(id)
	if err != nil {
		resp.NotFound(c, "order not found")
		return
	}
	if order.UserID != uid && utils.CurrentRole(c) != "admin" {
		resp.Forbidden(c, "not your order")
		return
	}
	resp.OK(c, order)
}

// GET /profile/orders
func (h *OrderController) ListForMe(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	orders, err := h.Svc.ListForUser(uid)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, orders)
}

// GET /partner/orders?restaurantId=
func (h *OrderController) ListForRestaurant(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	restaurantID := queryID(c, "restaurantId")
	if restaurantID == 0 {
		resp.BadRequest(c, "restaurantId required")
		return
	}
	if !h.canManage(c, uid, restaurantID) {
		resp.Forbidden(c, "not your restaurant")
		return
	}
	orders, err := h.Svc.ListForRestaurant(restaurantID)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, orders)
}

// PATCH /partner/orders/:id/status
func (h *OrderController) UpdateStatus(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	id := paramID(c, "id")
	if id == 0 {
		resp.BadRequest(c, "invalid id")
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	order, err := h.Svc.Detail(id)
	if err != nil {
		resp.NotFound(c, "order not found")
		return
	}
	if !h.canManage(c, uid, order.RestaurantID) {
		resp.Forbidden(c, "not your restaurant")
		return
	}

	updated, err := h.Svc.UpdateStatus(id, body.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "order not found")
			return
		}
		resp.BadRequest(c, err.Error())
		return
	}
	h.Hub.NotifyStatus(updated)
	resp.OK(c, updated)
}

func (h *OrderController) canManage(c *gin.Context, userID, restaurantID uint) bool {
	if utils.CurrentRole(c) == "admin" {
		return true
	}
	owned, err := h.RestaurantRepo.OwnedBy(restaurantID, userID)
	return err == nil && owned
}

func queryID(c *gin.Context, name string) uint {
	id, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}
