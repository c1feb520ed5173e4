package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/07fahim/EmailCraft-AI/internal/model"
)

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := mc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestMemoryCache_MissReturnsNil(t *testing.T) {
	mc := NewMemoryCache()
	got, err := mc.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	got, err := mc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCache_Delete(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, mc.Delete(ctx, "k"))

	got, err := mc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRequestKey_Stable(t *testing.T) {
	a := model.EmailRequest{JobURL: "https://example.com/jobs/1", CompanyName: "Acme"}
	b := model.EmailRequest{JobURL: "https://example.com/jobs/1", CompanyName: "Acme"}
	c := model.EmailRequest{JobURL: "https://example.com/jobs/2", CompanyName: "Acme"}

	assert.Equal(t, RequestKey(a), RequestKey(b))
	assert.NotEqual(t, RequestKey(a), RequestKey(c))
	assert.Contains(t, RequestKey(a), "emailcraft:gen:")
}
