package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mizan/crimewatch-api/geo"
	"github.com/mizan/crimewatch-api/metrics"
	"github.com/mizan/crimewatch-api/schema"
)

const policeCategory = "police"

// headerLocator reads the device position the client sent along with the request
func headerLocator(c *gin.Context) geo.Locator {
	return geo.NewHeaderLocator(c.GetHeader("Geo-Position"), c.GetHeader("Geo-Permission"))
}

// lookupPlaces searches the directory for every requested category.
// With nearby=true the device position is required and each place carries its distance.
func (s *Server) lookupPlaces(c *gin.Context) {
	var params struct {
		Categories []string `form:"category"`
		Country    string   `form:"country"`
		Nearby     string   `form:"nearby"`
	}

	if err := c.ShouldBindQuery(&params); err != nil {
		s.abortWithCode(c, http.StatusBadRequest, codeInvalidParameters, err)
		return
	}

	nearby := false
	if params.Nearby != "" {
		b, err := strconv.ParseBool(params.Nearby)
		if err != nil {
			s.abortWithCode(c, http.StatusBadRequest, codeInvalidParameters, err)
			return
		}
		nearby = b
	}

	var places []schema.Place
	var err error
	if nearby {
		places, err = s.places.LookupNearby(c.Request.Context(), headerLocator(c), params.Categories, params.Country)
	} else {
		places, err = s.places.Lookup(c.Request.Context(), params.Categories, params.Country)
	}
	metrics.PlaceLookupsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		s.abortWithFlowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": places,
	})
}

// policeStations is the police station map of the default country
func (s *Server) policeStations(c *gin.Context) {
	places, err := s.places.Lookup(c.Request.Context(), []string{policeCategory}, "")
	metrics.PlaceLookupsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		s.abortWithFlowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": places,
	})
}
