package controller

import (
	"net/http"

	"github.com/goccy/go-json"
	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	apperrors "storefront/internal/errors"
	"storefront/internal/infrastructure/logger"
)

const maxBodyBytes = 1 << 20

type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Controller serves GraphQL queries over HTTP POST.
type Controller struct {
	schema *graphql.Schema
	logger *zap.Logger
}

func NewController(useCase SearchUseCase, maxDepth int, logger *zap.Logger) (*Controller, error) {
	schema, err := NewSchema(NewResolver(useCase, logger), maxDepth)
	if err != nil {
		return nil, err
	}
	return &Controller{
		schema: schema,
		logger: logger,
	}, nil
}

func (c *Controller) HandleGraphQL(w http.ResponseWriter, r *http.Request) {
	var req graphQLRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.Query == "" {
		c.writeValidationError(w, "query is required", apperrors.ValidationDetail{
			Field:   "query",
			Message: "query must not be empty",
		})
		return
	}

	resp := c.schema.Exec(r.Context(), req.Query, req.OperationName, req.Variables)
	if len(resp.Errors) > 0 {
		logger.FromContext(r.Context(), c.logger).Debug("graphql query returned errors",
			zap.String("operation", req.OperationName),
			zap.Int("errors", len(resp.Errors)),
		)
	}

	c.writeJSON(w, http.StatusOK, resp)
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *Controller) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
