package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

type Handler struct {
	service itemrequest.Service
}

func NewHandler(service itemrequest.Service) *Handler {
	return &Handler{service: service}
}

func actingUser(c *gin.Context) (int64, bool) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	return userID, true
}

func (h *Handler) Create(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	var body CreateRequestRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), userID, body.Description)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewRequestResponse(created))
}

// ListOwn returns the caller's requests together with their answers.
func (h *Handler) ListOwn(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	requests, err := h.service.ListOwn(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRequestListResponse(requests))
}

func (h *Handler) ListOthers(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	var query ListOthersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	requests, err := h.service.ListOthers(c.Request.Context(), userID, query.From, query.Size)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRequestListResponse(requests))
}

func (h *Handler) Get(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	req, err := h.service.GetByID(c.Request.Context(), userID, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRequestResponse(req))
}
