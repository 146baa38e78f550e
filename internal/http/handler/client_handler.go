package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"github.com/highveld-fm/commercial-api/internal/repository"
	"github.com/highveld-fm/commercial-api/internal/service"
	"go.uber.org/zap"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	clientService *service.ClientService
	logger        *zap.Logger
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// Create godoc
// @Summary Create client
// @Description Creates a new client for the caller's company.
// @Tags Clients
// @Accept json
// @Produce json
// @Param request body domain.CreateClientRequest true "Client data"
// @Success 201 {object} domain.ClientDTO "Created client"
// @Failure 400 {object} domain.APIError "Invalid request body"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients [post]
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	client, err := h.clientService.CreateClient(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create client", zap.Error(err))
		h.handleClientError(w, err)
		return
	}

	w.Header().Set("Location", "/clients/"+client.ID.String())
	respondJSON(w, http.StatusCreated, client)
}

// Get godoc
// @Summary Get client
// @Description Returns a single client by ID.
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} domain.ClientDTO
// @Failure 400 {object} domain.APIError "Invalid client ID"
// @Failure 404 {object} domain.APIError "Client not found"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients/{id} [get]
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	client, err := h.clientService.GetClient(r.Context(), id)
	if err != nil {
		h.handleClientError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// List godoc
// @Summary List clients
// @Description Returns a paginated list of clients for the caller's company.
// @Tags Clients
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(50)
// @Param sortBy query string false "Sort field" Enums(name, createdAt)
// @Param sortOrder query string false "Sort order" Enums(asc, desc)
// @Success 200 {object} domain.PaginatedResponse
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients [get]
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	sort := repository.SortConfig{
		Field: r.URL.Query().Get("sortBy"),
		Order: repository.ParseSortOrder(r.URL.Query().Get("sortOrder")),
	}

	result, err := h.clientService.ListClients(r.Context(), page, pageSize, sort)
	if err != nil {
		h.logger.Error("failed to list clients", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list clients")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *ClientHandler) handleClientError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrClientNotFound):
		respondWithError(w, http.StatusNotFound, "Client not found")
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
