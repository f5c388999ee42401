package handlers

import (
	"fmt"
	"io"
	"net/http"

	"vasplink/internal/markers"
	"vasplink/internal/services"

	"github.com/gin-gonic/gin"
)

type DocumentsHandler struct {
	documents *services.DocumentService
}

func NewDocumentsHandler(documents *services.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{documents: documents}
}

type generateRequest struct {
	Format        string                `json:"format"`
	Fields        map[string]string     `json:"fields"`
	Transactions  []markers.Transaction `json:"transactions"`
	RequestedInfo []string              `json:"requested_info"`
}

func (h *DocumentsHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Format == "" {
		req.Format = services.FormatDocx
	}
	if req.Fields == nil {
		req.Fields = map[string]string{}
	}

	data := markers.CaseData{
		Fields:        req.Fields,
		Transactions:  req.Transactions,
		RequestedInfo: req.RequestedInfo,
	}

	result, err := h.documents.Generate(c.Request.Context(), currentUserID(c), c.Param("id"), data, req.Format)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

type previewRequest struct {
	Overrides map[string]string `json:"overrides"`
}

func (h *DocumentsHandler) Preview(c *gin.Context) {
	var req previewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	result, err := h.documents.Preview(c.Request.Context(), currentUserID(c), c.Param("id"), req.Overrides)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *DocumentsHandler) List(c *gin.Context) {
	documents, err := h.documents.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": documents})
}

func (h *DocumentsHandler) Get(c *gin.Context) {
	document, err := h.documents.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, document)
}

func (h *DocumentsHandler) Download(c *gin.Context) {
	reader, document, err := h.documents.DownloadReader(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", document.Filename))
	c.Header("Content-Type", document.MimeType)

	if _, err := io.Copy(c.Writer, reader); err != nil {
		// Headers are already out; nothing left to do but note it.
		_ = c.Error(err)
	}
}
