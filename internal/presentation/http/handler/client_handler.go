package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/invowise-api/internal/application/service"
	"github.com/sangkips/invowise-api/internal/presentation/http/dto/request"
	"github.com/sangkips/invowise-api/internal/presentation/http/dto/response"
	"github.com/sangkips/invowise-api/pkg/pagination"
)

// ClientHandler handles client-related HTTP requests
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// List handles listing clients (supports both page-based and cursor-based pagination)
func (h *ClientHandler) List(c *gin.Context) {
	var params pagination.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	result, err := h.clientService.ListClients(c.Request.Context(), &params, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Clients retrieved successfully", result)
}

// Create handles creating a client
func (h *ClientHandler) Create(c *gin.Context) {
	var req request.CreateClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), &service.ClientInput{
		Name:    &req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
		Country: req.Country,
		TaxID:   req.TaxID,
		Notes:   req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Client created successfully", client)
}

// Get handles retrieving a client
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Client retrieved successfully", client)
}

// Update handles a partial client update
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.UpdateClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), id, &service.ClientInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
		Country: req.Country,
		TaxID:   req.TaxID,
		Notes:   req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Client updated successfully", client)
}

// Delete handles deleting a client
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Client deleted successfully", nil)
}
