package service

import (
	"context"
	"fmt"

	"github.com/vibhusapra/phoenix/internal/infra/cache"
	"github.com/vibhusapra/phoenix/internal/infra/httpclient"
	"github.com/vibhusapra/phoenix/internal/pkg/apperr"
	"github.com/vibhusapra/phoenix/internal/pkg/filtersyntax"
	"go.uber.org/zap"
)

const msgInvalidFilter = "Invalid filter condition"

// FilterValidationResult is a validator's verdict on one filter condition.
type FilterValidationResult struct {
	IsValid      bool
	ErrorMessage *string
}

// FilterValidator checks a span filter condition in the context of a project.
type FilterValidator interface {
	ValidateFilterCondition(ctx context.Context, projectID int64, condition string) (*FilterValidationResult, error)
}

// FilterGateway validates filter conditions before they are written, remembering accepted ones.
type FilterGateway struct {
	validator FilterValidator
	cache     *cache.ValidationCache
	log       *zap.Logger
}

func NewFilterGateway(v FilterValidator, c *cache.ValidationCache, log *zap.Logger) *FilterGateway {
	return &FilterGateway{validator: v, cache: c, log: log}
}

// Validate returns a validation-failed error when condition is rejected. An empty condition is
// never sent to the validator.
func (g *FilterGateway) Validate(ctx context.Context, projectID int64, condition string) error {
	if condition == "" {
		return nil
	}

	known, err := g.cache.IsKnownValid(ctx, projectID, condition)
	if err != nil {
		g.log.Sugar().Warnw("filter validation cache read failed", "projectID", projectID, "err", err)
	}
	if known {
		return nil
	}

	res, err := g.validator.ValidateFilterCondition(ctx, projectID, condition)
	if err != nil {
		return fmt.Errorf("validate filter condition: %w", err)
	}
	if !res.IsValid {
		msg := msgInvalidFilter
		if res.ErrorMessage != nil && *res.ErrorMessage != "" {
			msg = *res.ErrorMessage
		}
		return apperr.ValidationFailed(msg)
	}

	if err := g.cache.MarkValid(ctx, projectID, condition); err != nil {
		g.log.Sugar().Warnw("filter validation cache write failed", "projectID", projectID, "err", err)
	}
	return nil
}

type coreFilterValidator struct{ client *httpclient.CoreClient }

// NewCoreFilterValidator validates conditions with the core service.
func NewCoreFilterValidator(c *httpclient.CoreClient) FilterValidator {
	return &coreFilterValidator{client: c}
}

func (v *coreFilterValidator) ValidateFilterCondition(ctx context.Context, projectID int64, condition string) (*FilterValidationResult, error) {
	res, err := v.client.ValidateSpanFilter(ctx, projectID, condition)
	if err != nil {
		return nil, err
	}
	return &FilterValidationResult{IsValid: res.IsValid, ErrorMessage: res.ErrorMessage}, nil
}

type syntaxFilterValidator struct{}

// NewSyntaxFilterValidator validates the grammar of conditions locally.
func NewSyntaxFilterValidator() FilterValidator {
	return syntaxFilterValidator{}
}

func (syntaxFilterValidator) ValidateFilterCondition(_ context.Context, _ int64, condition string) (*FilterValidationResult, error) {
	if err := filtersyntax.Check(condition); err != nil {
		msg := err.Error()
		return &FilterValidationResult{IsValid: false, ErrorMessage: &msg}, nil
	}
	return &FilterValidationResult{IsValid: true}, nil
}
