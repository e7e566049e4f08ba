package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) organizations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"result": s.config.Organizations,
	})
}
