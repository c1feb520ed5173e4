// Package genclient is the HTTP client for the external email generation
// service. The service runs the multi-agent pipeline (persona analysis,
// template retrieval, generation, evaluation); this package only speaks its
// request/response contract.
package genclient

import (
	"context"

	"github.com/07fahim/EmailCraft-AI/internal/model"
)

// Generator produces one email per request. Implementations must be safe for
// concurrent use.
type Generator interface {
	Generate(ctx context.Context, req model.EmailRequest) (*model.GeneratedEmail, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req model.EmailRequest) (*model.GeneratedEmail, error)

func (f GeneratorFunc) Generate(ctx context.Context, req model.EmailRequest) (*model.GeneratedEmail, error) {
	return f(ctx, req)
}
