package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mizan/crimewatch-api/flow"
)

// accountRegister is the API for register a new account
func (s *Server) accountRegister(c *gin.Context) {
	logger := log.WithField("api", "accountRegister")

	var params credential
	if err := c.ShouldBindJSON(&params); err != nil {
		logger.WithError(err).Error(errorInvalidParameters.Message)
		s.abortWithCode(c, http.StatusBadRequest, codeInvalidParameters, err)
		return
	}

	a, err := s.auth.Signup(c.Request.Context(), params.Email, params.Password)
	if err != nil {
		if errors.Is(err, flow.ErrValidation) {
			s.abortWithCode(c, http.StatusBadRequest, codeInvalidCredential, err)
			return
		}
		s.abortWithFlowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": a,
	})
}
