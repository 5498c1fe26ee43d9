// file: internal/server/metadata_handlers.go
// version: 1.2.0
// guid: 8e9f0a1b-2c3d-4e5f-a6b7-c8d9e0f1a2b3

package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/bookmeta/internal/batch"
	"github.com/jdfalk/bookmeta/internal/logger"
	"github.com/jdfalk/bookmeta/internal/metadata"
	"github.com/jdfalk/bookmeta/internal/server/middleware"
)

// searchFromQuery builds a request from ?isbn=&biblionet=&title=&author=.
// isbn is listed before biblionet, so it ranks first.
func searchFromQuery(c *gin.Context) metadata.SearchRequest {
	var ids metadata.Identifiers
	ids = ids.Set(metadata.SchemeISBN, c.Query("isbn"))
	ids = ids.Set(metadata.SchemeBiblionet, c.Query("biblionet"))
	return metadata.SearchRequest{
		Title:       strings.TrimSpace(c.Query("title")),
		Authors:     c.QueryArray("author"),
		Identifiers: ids,
		Timeout:     ParseQueryDuration(c, "timeout"),
	}
}

func searchFromBody(body IdentifyRequest) (metadata.SearchRequest, error) {
	var ids metadata.Identifiers
	for _, id := range body.Identifiers {
		ids = ids.Set(id.Scheme, id.Value)
	}
	req := metadata.SearchRequest{
		Title:       strings.TrimSpace(body.Title),
		Authors:     body.Authors,
		Identifiers: ids,
	}
	if body.Timeout != "" {
		d, err := time.ParseDuration(body.Timeout)
		if err != nil {
			return req, err
		}
		req.Timeout = d
	}
	return req, nil
}

func (s *Server) identifyQuery(c *gin.Context) {
	s.identify(c, searchFromQuery(c))
}

func (s *Server) identifyJSON(c *gin.Context) {
	var body IdentifyRequest
	if HandleBindError(c, c.ShouldBindJSON(&body)) {
		return
	}
	req, err := searchFromBody(body)
	if err != nil {
		RespondWithValidationError(c, "timeout", err.Error())
		return
	}
	s.identify(c, req)
}

func (s *Server) identify(c *gin.Context, req metadata.SearchRequest) {
	if len(s.source.Candidates(req)) == 0 {
		RespondWithValidationError(c, "identifiers", "an isbn is required")
		return
	}
	if isbn, ok := req.Identifiers.Get(metadata.SchemeISBN); ok {
		if err := ValidateISBN(isbn); err != nil {
			RespondWithInvalid(c, err)
			return
		}
	}

	ol := logger.NewOperationLogger(s.log, "identify", middleware.GetRequestID(c))
	ol.SetResourceID(identifierSummary(req))
	ol.LogStart()

	ctx := c.Request.Context()
	records := s.source.IdentifyRanked(ctx, req)
	if ctx.Err() != nil {
		ol.LogError(ctx.Err())
		RespondWithUnavailable(c, "identify canceled")
		return
	}
	ol.LogSuccess(len(records))

	if records == nil {
		records = []metadata.Record{}
	}
	RespondWithOK(c, IdentifyResponse{
		RequestID: ol.RequestID(),
		Count:     len(records),
		Records:   records,
	})
}

func (s *Server) cover(c *gin.Context) {
	req := searchFromQuery(c)
	if len(req.Identifiers) == 0 {
		RespondWithValidationError(c, "identifiers", "isbn or biblionet is required")
		return
	}

	ol := logger.NewOperationLogger(s.log, "cover", middleware.GetRequestID(c))
	ol.SetResourceID(identifierSummary(req))
	ol.LogStart()

	ctx := c.Request.Context()
	out := make(chan metadata.Cover, 1)
	if err := s.source.DownloadCover(ctx, req, out); err != nil {
		ol.LogError(err)
		RespondWithInternalError(c, "cover download failed")
		return
	}

	select {
	case cov := <-out:
		ol.LogSuccess(1)
		c.Header("X-Cover-URL", cov.URL)
		c.Data(http.StatusOK, http.DetectContentType(cov.Data), cov.Data)
	default:
		if ctx.Err() != nil {
			ol.LogError(ctx.Err())
			RespondWithUnavailable(c, "cover download canceled")
			return
		}
		ol.LogSuccess(0)
		RespondWithNotFound(c, "cover", identifierSummary(req))
	}
}

func (s *Server) batch(c *gin.Context) {
	var body BatchRequest
	if HandleBindError(c, c.ShouldBindJSON(&body)) {
		return
	}
	if err := ValidateISBNList(body.ISBNs, s.batchSize); err != nil {
		RespondWithInvalid(c, err)
		return
	}
	if !s.limiter.Take(c, len(body.ISBNs)) {
		return
	}

	ol := logger.NewOperationLogger(s.log, "batch", middleware.GetRequestID(c))
	ol.AddDetail("isbns", len(body.ISBNs))
	ol.LogStart()

	results, err := batch.Run(c.Request.Context(), s.source, body.ISBNs, s.workers, nil)
	if err != nil {
		ol.LogError(err)
		RespondWithUnavailable(c, "batch canceled")
		return
	}

	resp := BatchResponse{RequestID: ol.RequestID(), Total: len(results), Results: results}
	for _, r := range results {
		if r.Error == "" {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	ol.LogSuccess(resp.Succeeded)
	RespondWithOK(c, resp)
}

func identifierSummary(req metadata.SearchRequest) string {
	parts := make([]string, 0, len(req.Identifiers))
	for _, id := range req.Identifiers {
		parts = append(parts, id.Scheme+":"+id.Value)
	}
	return strings.Join(parts, ",")
}
