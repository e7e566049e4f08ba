package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// fetchLocation resolves the device position into an address for the report form.
// Header format:
// - Geo-Position: '<lat>;<lng>'
// - Geo-Permission: 'granted' or 'denied'
func (s *Server) fetchLocation(c *gin.Context) {
	location, err := s.locations.Fetch(c.Request.Context(), headerLocator(c))
	if err != nil {
		s.abortWithFlowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": location,
	})
}
