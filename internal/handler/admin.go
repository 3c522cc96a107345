package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/citywaste/waste-flow-api/internal/dto"
	"github.com/citywaste/waste-flow-api/internal/service"
)

const recentCollectionsLimit = 10

type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// --- Collectors ---

func (h *AdminHandler) CreateCollector(c *gin.Context) {
	var req dto.CreateCollectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collector, err := h.adminService.CreateCollector(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username, email, and password are required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": fmt.Sprintf("Collector %s created", collector.Username)})
}

func (h *AdminHandler) ListCollectors(c *gin.Context) {
	resp, err := h.adminService.ListCollectors(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) DeleteCollector(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	collector, err := h.adminService.DeleteCollector(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCollectorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "collector not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": fmt.Sprintf("Collector %s deleted", collector.Username)})
}

// --- Users & reports ---

func (h *AdminHandler) ListUsers(c *gin.Context) {
	resp, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) Stats(c *gin.Context) {
	resp, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) TopCollectors(c *gin.Context) {
	resp, err := h.adminService.TopCollectors(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecentOrders keeps the dashboard's historical route name; it lists the
// latest waste-collection requests.
func (h *AdminHandler) RecentOrders(c *gin.Context) {
	resp, err := h.adminService.RecentCollections(c.Request.Context(), recentCollectionsLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
