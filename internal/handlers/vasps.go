package handlers

import (
	"net/http"

	"vasplink/internal/services"

	"github.com/gin-gonic/gin"
)

type VaspsHandler struct {
	directory *services.VaspDirectory
}

func NewVaspsHandler(directory *services.VaspDirectory) *VaspsHandler {
	return &VaspsHandler{directory: directory}
}

func (h *VaspsHandler) Search(c *gin.Context) {
	results, err := h.directory.Search(c.Query("q"), c.Query("jurisdiction"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vasps": results, "total": len(results)})
}

func (h *VaspsHandler) Get(c *gin.Context) {
	vasp, err := h.directory.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vasp)
}
