package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/service"
	"go.uber.org/zap"
)

// FileHandler handles document attachments on invoices and quotations
type FileHandler struct {
	fileService *service.FileService
	logger      *zap.Logger
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(fileService *service.FileService, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		logger:      logger,
	}
}

// Upload godoc
// @Summary Upload file to invoice
// @Description Attaches an uploaded file (purchase order, proof of payment) to an invoice or quotation.
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Invoice ID"
// @Param file formData file true "File to upload"
// @Success 201 {object} domain.FileDTO "Uploaded file metadata"
// @Failure 400 {object} domain.APIError "Invalid invoice ID, missing file, or file too large"
// @Failure 404 {object} domain.APIError "Invoice not found"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id}/files [post]
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	invoiceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file in multipart form")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	dto, err := h.fileService.UploadForInvoice(r.Context(), invoiceID, header.Filename, contentType, file)
	if err != nil {
		h.logger.Error("failed to upload file",
			zap.Error(err),
			zap.String("invoice_id", invoiceID.String()),
			zap.String("filename", header.Filename))
		h.handleFileError(w, err)
		return
	}

	w.Header().Set("Location", "/files/"+dto.ID.String())
	respondJSON(w, http.StatusCreated, dto)
}

// List godoc
// @Summary List invoice files
// @Description Returns the files attached to an invoice or quotation.
// @Tags Files
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {array} domain.FileDTO
// @Failure 400 {object} domain.APIError "Invalid invoice ID"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id}/files [get]
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	invoiceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	files, err := h.fileService.ListForInvoice(r.Context(), invoiceID)
	if err != nil {
		h.logger.Error("failed to list files", zap.Error(err), zap.String("invoice_id", invoiceID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to list files")
		return
	}

	respondJSON(w, http.StatusOK, files)
}

// Download godoc
// @Summary Download file
// @Description Streams the content of an uploaded file.
// @Tags Files
// @Produce octet-stream
// @Param id path string true "File ID"
// @Success 200 {file} binary "File content"
// @Failure 400 {object} domain.APIError "Invalid file ID"
// @Failure 404 {object} domain.APIError "File not found"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files/{id} [get]
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file ID")
		return
	}

	dto, reader, err := h.fileService.Download(r.Context(), id)
	if err != nil {
		h.handleFileError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", dto.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dto.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", dto.Size))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("failed to stream file content", zap.Error(err), zap.String("file_id", id.String()))
	}
}

// Delete godoc
// @Summary Delete file
// @Description Removes an uploaded file and its stored content.
// @Tags Files
// @Produce json
// @Param id path string true "File ID"
// @Success 204 "File deleted"
// @Failure 400 {object} domain.APIError "Invalid file ID"
// @Failure 404 {object} domain.APIError "File not found"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files/{id} [delete]
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file ID")
		return
	}

	if err := h.fileService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete file", zap.Error(err), zap.String("file_id", id.String()))
		h.handleFileError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *FileHandler) handleFileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrFileNotFound):
		respondWithError(w, http.StatusNotFound, "File not found")
	case errors.Is(err, service.ErrInvoiceNotFound):
		respondWithError(w, http.StatusNotFound, "Invoice not found")
	case errors.Is(err, service.ErrValidation):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
