package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/docvault/internal/docvault/biz"
	"github.com/kart-io/docvault/internal/model"
	"github.com/kart-io/docvault/pkg/utils/errors"
	"github.com/kart-io/docvault/pkg/utils/response"
)

// DocumentTimeFormat is the created_at layout of document listings.
const DocumentTimeFormat = "2006-01-02 15:04"

// DocumentHandler serves the admin document API.
type DocumentHandler struct {
	svc *biz.DocumentService
}

// NewDocumentHandler creates a DocumentHandler.
func NewDocumentHandler(svc *biz.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

// UploadResponse is returned as soon as the file is stored.
type UploadResponse struct {
	ID       string               `json:"id"`
	Filename string               `json:"filename"`
	Status   model.DocumentStatus `json:"status"`
}

// DocumentResponse is one row of the document listing.
type DocumentResponse struct {
	ID          string               `json:"id"`
	Filename    string               `json:"filename"`
	Status      model.DocumentStatus `json:"status"`
	TotalChunks int                  `json:"total_chunks"`
	CreatedAt   string               `json:"created_at"`
}

func toDocumentResponse(d *model.Document) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID,
		Filename:    d.Filename,
		Status:      d.Status,
		TotalChunks: d.TotalChunks,
		CreatedAt:   d.CreatedAt.Format(DocumentTimeFormat),
	}
}

// Upload accepts a multipart "file" field and starts ingestion.
func (h *DocumentHandler) Upload(c *gin.Context) {
	uploader, err := subject(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, errors.ErrInvalidParam.WithMessage("file is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Fail(c, errors.ErrBadRequest.WithCause(err))
		return
	}
	defer f.Close()

	doc, err := h.svc.Upload(c.Request.Context(), uploader, fh.Filename, f)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, UploadResponse{ID: doc.ID, Filename: doc.Filename, Status: doc.Status})
}

// List returns every document, newest first.
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}

	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	response.OK(c, out)
}

// Get returns one document, used to poll ingestion status.
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, toDocumentResponse(doc))
}

// Delete removes a document and its vectors.
func (h *DocumentHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, gin.H{"id": id, "status": "deleted"})
}
