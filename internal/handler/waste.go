package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/citywaste/waste-flow-api/internal/dto"
	"github.com/citywaste/waste-flow-api/internal/middleware"
	"github.com/citywaste/waste-flow-api/internal/service"
)

// WasteHandler covers the citizen and collector sides of the collection
// workflow.
type WasteHandler struct {
	collectionService *service.CollectionService
}

func NewWasteHandler(collectionService *service.CollectionService) *WasteHandler {
	return &WasteHandler{collectionService: collectionService}
}

// --- Citizen side ---

func (h *WasteHandler) RequestCollection(c *gin.Context) {
	var req dto.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.collectionService.Request(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *WasteHandler) ListOwn(c *gin.Context) {
	resp, err := h.collectionService.ListByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WasteHandler) ListAll(c *gin.Context) {
	resp, err := h.collectionService.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// --- Collector side ---

func (h *WasteHandler) Accept(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.collectionService.Accept(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCollectionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		case errors.Is(err, service.ErrCollectionCompleted):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot accept a completed request"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WasteHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.collectionService.Complete(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCollectionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		case errors.Is(err, service.ErrNotAssignedToYou):
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
		case errors.Is(err, service.ErrNotInProgress):
			c.JSON(http.StatusBadRequest, gin.H{"error": "request is not in progress"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WasteHandler) History(c *gin.Context) {
	resp, err := h.collectionService.ListByCollector(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
