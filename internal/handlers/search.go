package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/recipefinder-api/internal/logger"
	"github.com/windoze95/recipefinder-api/internal/models"
	"github.com/windoze95/recipefinder-api/internal/service"
	"go.uber.org/zap"
)

// SearchHandler handles recipe search requests.
type SearchHandler struct {
	Service *service.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{Service: searchService}
}

// SearchByIngredients handles POST /v1/search/ingredients
func (h *SearchHandler) SearchByIngredients(c *gin.Context) {
	var req service.IngredientsSearch
	h.run(c, &req, func() service.SearchRequest { return req })
}

// SearchByFilters handles POST /v1/search/filters
func (h *SearchHandler) SearchByFilters(c *gin.Context) {
	var req service.FilterSearch
	h.run(c, &req, func() service.SearchRequest { return req })
}

// SearchSemantic handles POST /v1/search/semantic
func (h *SearchHandler) SearchSemantic(c *gin.Context) {
	var req service.SemanticSearch
	h.run(c, &req, func() service.SearchRequest { return req })
}

// run decodes the body into dst and answers with the search envelope. A
// body that does not decode is reported as a validation failure, in the
// same envelope.
func (h *SearchHandler) run(c *gin.Context, dst interface{}, request func() service.SearchRequest) {
	if err := readJSON(c, dst); err != nil {
		c.JSON(http.StatusBadRequest, service.SearchResult{
			Success: false,
			Data:    []models.Recipe{},
			Message: "Invalid search request body",
			Error:   &service.SearchError{Code: service.CodeValidation, Detail: err.Error()},
		})
		return
	}

	result := h.Service.Search(c.Request.Context(), request())
	status := statusForSearch(result)
	if status >= http.StatusInternalServerError {
		logger.FromGin(c).Warn("search failed",
			zap.String("code", result.Error.Code),
			zap.String("detail", result.Error.Detail),
		)
	}
	c.JSON(status, result)
}

func statusForSearch(result service.SearchResult) int {
	if result.Error == nil {
		return http.StatusOK
	}
	switch result.Error.Code {
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeUpstream, service.CodeMalformedResponse, service.CodeUnexpectedResponseShape:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
