package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mizan/crimewatch-api/flow"
	"github.com/mizan/crimewatch-api/metrics"
)

// submitReport creates a crime report and returns its id along with the
// listing re-queried after the write
func (s *Server) submitReport(c *gin.Context) {
	logger := log.WithField("api", "submitReport")

	scope, err := flow.ParseScope(c.Query("scope"))
	if err != nil {
		s.abortWithFlowError(c, err)
		return
	}

	var form flow.ReportForm
	if err := c.ShouldBindJSON(&form); err != nil {
		s.abortWithCode(c, http.StatusBadRequest, codeCannotParseRequest, err)
		return
	}

	ctx := requestContext(c)
	id, err := s.submitter.Submit(ctx, &form)
	metrics.ReportsSubmittedTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		s.abortWithFlowError(c, err)
		return
	}

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueReportEnrichment(id); err != nil {
			metrics.EnrichmentEnqueueErrorTotal.Inc()
			logger.WithError(err).WithField("report", id).Error("enqueue report enrichment")
		}
	}

	result := gin.H{"id": id}

	cases, err := s.lister.List(ctx, scope)
	metrics.ReportListingsTotal.WithLabelValues(scope.String(), metrics.Result(err)).Inc()
	if err != nil {
		// the report is stored, the client refreshes the listing on its own
		logger.WithError(err).WithField("report", id).Warn("refresh listing after submission")
	} else {
		result["cases"] = cases
	}

	c.JSON(http.StatusOK, gin.H{
		"result": result,
	})
}

// listReports returns the cases of every user, or of the requester only with scope=mine
func (s *Server) listReports(c *gin.Context) {
	scope, err := flow.ParseScope(c.Query("scope"))
	if err != nil {
		s.abortWithFlowError(c, err)
		return
	}

	cases, err := s.lister.List(requestContext(c), scope)
	metrics.ReportListingsTotal.WithLabelValues(scope.String(), metrics.Result(err)).Inc()
	if err != nil {
		s.abortWithFlowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": cases,
	})
}
