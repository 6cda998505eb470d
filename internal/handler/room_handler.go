package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centroforma/forma-api/internal/service"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
	"github.com/centroforma/forma-api/pkg/response"
)

// RoomHandler exposes classroom endpoints.
type RoomHandler struct {
	rooms *service.RoomService
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(rooms *service.RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// List godoc
// @Summary      List rooms
// @Tags         rooms
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} models.Room
// @Router       /rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.rooms.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}

// Get godoc
// @Summary      Get a room
// @Tags         rooms
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Room id"
// @Success      200 {object} models.Room
// @Router       /rooms/{id} [get]
func (h *RoomHandler) Get(c *gin.Context) {
	room, err := h.rooms.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}

// Create godoc
// @Summary      Register a room
// @Tags         rooms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload body service.CreateRoomRequest true "Room"
// @Success      201 {object} models.Room
// @Router       /rooms [post]
func (h *RoomHandler) Create(c *gin.Context) {
	var req service.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}
	room, err := h.rooms.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}

// Update godoc
// @Summary      Update a room
// @Tags         rooms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Room id"
// @Param        payload body service.UpdateRoomRequest true "Changes"
// @Success      200 {object} models.Room
// @Router       /rooms/{id} [patch]
func (h *RoomHandler) Update(c *gin.Context) {
	var req service.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}
	room, err := h.rooms.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}

// Deactivate godoc
// @Summary      Deactivate a room
// @Tags         rooms
// @Security     BearerAuth
// @Param        id path string true "Room id"
// @Success      204
// @Router       /rooms/{id} [delete]
func (h *RoomHandler) Deactivate(c *gin.Context) {
	if err := h.rooms.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
