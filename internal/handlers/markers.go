package handlers

import (
	"net/http"

	"vasplink/internal/markers"

	"github.com/gin-gonic/gin"
)

// ListMarkers returns the static marker catalog so clients can build their
// mapping editors without hardcoding it.
func ListMarkers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"markers":        markers.Catalog(),
		"requested_info": markers.RequestedInfoCategories(),
	})
}
