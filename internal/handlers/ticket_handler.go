package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lankalotto/ticket-validator/internal/services"
	"golang.org/x/exp/slog"
)

// TicketHandler handles ticket validation HTTP requests
type TicketHandler struct {
	ticketService  services.TicketService
	maxUploadBytes int64
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(ticketService services.TicketService, maxUploadBytes int64) *TicketHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &TicketHandler{
		ticketService:  ticketService,
		maxUploadBytes: maxUploadBytes,
	}
}

// ProcessTicketRequest is the body of POST /tickets/process-ticket
type ProcessTicketRequest struct {
	ImageID string `json:"image_id"`
}

// UploadImage handles POST /tickets/upload-image
func (h *TicketHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No selected file"})
		return
	}
	if file.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image too large"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image: " + err.Error()})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image: " + err.Error()})
		return
	}

	id, err := h.ticketService.Submit(c.Request.Context(), data, file.Filename)
	switch {
	case errors.Is(err, services.ErrEmptyImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	case errors.Is(err, services.ErrUnsupportedImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Only JPG, JPEG, and PNG are allowed."})
		return
	case err != nil:
		slog.Error("Ticket submission failed", "filename", file.Filename, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to process image: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_id": id})
}

// ProcessTicket handles POST /tickets/process-ticket
func (h *TicketHandler) ProcessTicket(c *gin.Context) {
	var req ProcessTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image_id provided"})
		return
	}
	h.writeResult(c, req.ImageID)
}

// GetResult handles GET /tickets/:id
func (h *TicketHandler) GetResult(c *gin.Context) {
	h.writeResult(c, c.Param("id"))
}

func (h *TicketHandler) writeResult(c *gin.Context, id string) {
	verdict, err := h.ticketService.Result(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrResultNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, verdict)
}
