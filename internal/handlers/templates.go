package handlers

import (
	"net/http"

	"vasplink/internal/services"

	"github.com/gin-gonic/gin"
)

type TemplatesHandler struct {
	templates *services.TemplateService
}

func NewTemplatesHandler(templates *services.TemplateService) *TemplatesHandler {
	return &TemplatesHandler{templates: templates}
}

func (h *TemplatesHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("template")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	meta := services.UploadMeta{
		DisplayName:    c.PostForm("display_name"),
		Category:       c.PostForm("category"),
		AgencyHeader:   c.PostForm("agency_header"),
		AgencyAddress:  c.PostForm("agency_address"),
		AgencyContact:  c.PostForm("agency_contact"),
		AgencyFooter:   c.PostForm("agency_footer"),
		SignatureBlock: c.PostForm("signature_block"),
	}

	outcome, err := h.templates.Upload(c.Request.Context(), currentUserID(c), file, header, meta)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, outcome)
}

func (h *TemplatesHandler) List(c *gin.Context) {
	templates, err := h.templates.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (h *TemplatesHandler) Get(c *gin.Context) {
	template, err := h.templates.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

func (h *TemplatesHandler) Delete(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted"})
}

type mappingRequest struct {
	Mapping map[string]string `json:"mapping" binding:"required"`
}

func (h *TemplatesHandler) UpdateMapping(c *gin.Context) {
	var req mappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	template, err := h.templates.UpdateMapping(c.Request.Context(), currentUserID(c), c.Param("id"), req.Mapping)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

func (h *TemplatesHandler) SetDefault(c *gin.Context) {
	template, err := h.templates.SetDefault(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

func (h *TemplatesHandler) GetDefault(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category query parameter is required"})
		return
	}

	template, err := h.templates.DefaultFor(c.Request.Context(), currentUserID(c), category)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}
