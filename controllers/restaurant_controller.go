package controllers

import (
	"strconv"

	"backend/pkg/resp"
	"backend/repository"

	"github.com/gin-gonic/gin"
)

type RestaurantController struct {
	RestaurantRepo *repository.RestaurantRepository
	MenuRepo       *repository.MenuRepository
}

func NewRestaurantController(rr *repository.RestaurantRepository, mr *repository.MenuRepository) *RestaurantController {
	return &RestaurantController{RestaurantRepo: rr, MenuRepo: mr}
}

// GET /restaurants
func (h *RestaurantController) List(c *gin.Context) {
	restaurants, err := h.RestaurantRepo.List()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, restaurants)
}

// GET /restaurants/:id
func (h *RestaurantController) Detail(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		resp.BadRequest(c, "invalid id")
		return
	}
	rest, err := h.RestaurantRepo.FindWithCategories(id)
	if err != nil {
		resp.NotFound(c, "restaurant not found")
		return
	}
	resp.OK(c, rest)
}

// GET /restaurants/:id/menus
func (h *RestaurantController) Menus(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		resp.BadRequest(c, "invalid id")
		return
	}
	menus, err := h.MenuRepo.ListByRestaurant(id)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, menus)
}

func paramID(c *gin.Context, name string) uint {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}
