package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/07fahim/EmailCraft-AI/internal/genclient"
	"github.com/07fahim/EmailCraft-AI/internal/model"
)

func TestCachingGenerator_SecondCallHitsCache(t *testing.T) {
	calls := 0
	next := genclient.GeneratorFunc(func(ctx context.Context, req model.EmailRequest) (*model.GeneratedEmail, error) {
		calls++
		return &model.GeneratedEmail{
			Email:      model.EmailDraft{SubjectLine: "cached subject"},
			Evaluation: model.EvaluationMetrics{OverallScore: 9.1},
		}, nil
	})

	g := NewCachingGenerator(next, NewMemoryCache(), time.Minute)
	req := model.EmailRequest{JobURL: "https://example.com/jobs/1"}

	first, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first.Email.SubjectLine, second.Email.SubjectLine)
	assert.Equal(t, 9.1, second.Evaluation.OverallScore)
}

func TestCachingGenerator_DistinctRequestsMiss(t *testing.T) {
	calls := 0
	next := genclient.GeneratorFunc(func(ctx context.Context, req model.EmailRequest) (*model.GeneratedEmail, error) {
		calls++
		return &model.GeneratedEmail{}, nil
	})

	g := NewCachingGenerator(next, NewMemoryCache(), time.Minute)

	_, err := g.Generate(context.Background(), model.EmailRequest{JobURL: "https://example.com/jobs/1"})
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), model.EmailRequest{JobURL: "https://example.com/jobs/2"})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestCachingGenerator_ErrorsNotCached(t *testing.T) {
	calls := 0
	next := genclient.GeneratorFunc(func(ctx context.Context, req model.EmailRequest) (*model.GeneratedEmail, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("boom")
		}
		return &model.GeneratedEmail{}, nil
	})

	g := NewCachingGenerator(next, NewMemoryCache(), time.Minute)
	req := model.EmailRequest{Role: "CTO", Industry: "fintech"}

	_, err := g.Generate(context.Background(), req)
	require.Error(t, err)

	_, err = g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
