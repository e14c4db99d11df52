package controllers

import (
	"errors"

	"backend/pkg/cart"
	"backend/pkg/resp"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CartController struct{ Svc *services.CartService }

func NewCartController(s *services.CartService) *CartController { return &CartController{Svc: s} }

// GET /cart
func (h *CartController) Get(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	resp.OK(c, h.Svc.Get(uid))
}

// POST /cart/items
func (h *CartController) Add(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	var req services.AddToCartIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	view, err := h.Svc.Add(uid, &req)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrDifferentRestaurant):
			resp.Conflict(c, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			resp.NotFound(c, "menu not found")
		default:
			resp.BadRequest(c, err.Error())
		}
		return
	}
	resp.Created(c, view)
}

// PATCH /cart/items/qty
func (h *CartController) UpdateQty(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	var body struct {
		MenuID     uint  `json:"menuId" binding:"required"`
		Qty        int   `json:"qty" binding:"required"`
		CategoryID *uint `json:"categoryId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, h.Svc.UpdateQty(uid, body.MenuID, body.Qty, body.CategoryID))
}

// PATCH /cart/items/remark
func (h *CartController) SetLineRemark(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	var body struct {
		MenuID     uint   `json:"menuId" binding:"required"`
		Remark     string `json:"remark"`
		CategoryID *uint  `json:"categoryId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, h.Svc.SetLineRemark(uid, body.MenuID, body.Remark, body.CategoryID))
}

// DELETE /cart/items
func (h *CartController) RemoveItem(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	var body struct {
		MenuID     uint  `json:"menuId" binding:"required"`
		CategoryID *uint `json:"categoryId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, h.Svc.RemoveItem(uid, body.MenuID, body.CategoryID))
}

// PATCH /cart/scenario
func (h *CartController) SetScenario(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	var body struct {
		Scenario string `json:"scenario" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, h.Svc.SetScenario(uid, body.Scenario))
}

// PATCH /cart/target-time
func (h *CartController) SetTargetTime(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	var body struct {
		Type  string  `json:"type" binding:"required"`
		Input *string `json:"input"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, h.Svc.SetTargetTime(uid, body.Type, body.Input))
}

// PATCH /cart/remark
func (h *CartController) SetOrderRemark(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	var body struct {
		Remark string `json:"remark"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, h.Svc.SetOrderRemark(uid, body.Remark))
}

// DELETE /cart
func (h *CartController) Clear(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	h.Svc.Clear(uid)
	resp.OK(c, h.Svc.Get(uid))
}
