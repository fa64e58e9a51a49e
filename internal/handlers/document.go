package handlers

import (
	"errors"
	"io"
	"strconv"

	"verity/internal/middleware"
	"verity/internal/repositories"
	"verity/internal/services/verification"
	"verity/internal/utils/response"
	"verity/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type DocumentHandler struct {
	verification *verification.Service
}

func NewDocumentHandler(verificationSvc *verification.Service) *DocumentHandler {
	return &DocumentHandler{verification: verificationSvc}
}

// Upload accepts a multipart verification document.
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	tenantID, claims, ok := middleware.TenantFromClaims(c)
	if !ok {
		return response.Forbidden(c, "No tenant associated with this account")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "File is required")
	}
	documentType := c.FormValue("documentType")

	// Size and type are checked before the body is read so oversized
	// uploads are rejected without buffering.
	if err := validation.ValidateUpload(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size, documentType); err != nil {
		return response.BadRequest(c, err.Error())
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.ServerError(c, "Failed to read uploaded file")
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		return response.ServerError(c, "Failed to read uploaded file")
	}

	doc, err := h.verification.UploadDocument(c.Context(), tenantID, claims.Email, verification.Upload{
		DocumentType: documentType,
		FileName:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		Content:      content,
	})
	if err != nil {
		switch {
		case errors.Is(err, verification.ErrUploadNotAllowed):
			return response.BadRequest(c, "Uploads are not allowed in the current verification status")
		case errors.Is(err, validation.ErrFileTooLarge),
			errors.Is(err, validation.ErrFileTypeNotAllowed),
			errors.Is(err, validation.ErrFileMissing),
			errors.Is(err, validation.ErrDocumentTypeNeeded):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, repositories.ErrTenantNotFound):
			return response.NotFound(c, "Tenant not found")
		default:
			return response.ServerError(c, "Failed to store document")
		}
	}

	return response.Success(c, "Document uploaded", doc)
}

// Delete removes one of the tenant's own documents.
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	tenantID, claims, ok := middleware.TenantFromClaims(c)
	if !ok {
		return response.Forbidden(c, "No tenant associated with this account")
	}

	documentID, err := strconv.ParseUint(c.Params("documentId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid document id")
	}

	if err := h.verification.DeleteDocument(c.Context(), tenantID, uint(documentID), claims.Email); err != nil {
		if errors.Is(err, repositories.ErrDocumentNotFound) {
			return response.NotFound(c, "Document not found")
		}
		return response.ServerError(c, "Failed to delete document")
	}
	return response.Success(c, "Document deleted", nil)
}
