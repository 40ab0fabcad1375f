// internal/adapters/crm/cached.go
package crm

import (
	"context"
	"time"

	"leadrouter/internal/core/domain"
	"leadrouter/internal/core/ports"
	"leadrouter/internal/platform/cache"
	"leadrouter/internal/platform/logx"
)

const pipelinesCacheKey = "pipelines"

// CachedPipelineDirectory caches the pipeline/status directory in front of
// another PipelineDirectory. Pipelines are slow-changing reference data;
// campaign records are deliberately never cached.
type CachedPipelineDirectory struct {
	inner  ports.PipelineDirectory
	cache  cache.Cache
	ttl    time.Duration
	logger logx.Logger
}

// NewCachedPipelineDirectory wraps a directory with a TTL cache.
func NewCachedPipelineDirectory(inner ports.PipelineDirectory, ttl time.Duration, logger logx.Logger) *CachedPipelineDirectory {
	if logger == nil {
		logger = logx.New()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedPipelineDirectory{
		inner:  inner,
		cache:  cache.NewMemoryCache(4),
		ttl:    ttl,
		logger: logger.With("component", "pipeline_cache"),
	}
}

// ListPipelines serves the directory from cache, refreshing on a miss.
func (d *CachedPipelineDirectory) ListPipelines(ctx context.Context) ([]domain.Pipeline, error) {
	if v, ok := d.cache.Get(pipelinesCacheKey); ok {
		if pipelines, isList := v.([]domain.Pipeline); isList {
			d.logger.Debug("pipeline directory served from cache", "count", len(pipelines))
			return pipelines, nil
		}
	}

	pipelines, err := d.inner.ListPipelines(ctx)
	if err != nil {
		return nil, err
	}

	d.cache.Set(pipelinesCacheKey, pipelines, d.ttl)
	return pipelines, nil
}

// Invalidate drops the cached directory.
func (d *CachedPipelineDirectory) Invalidate() {
	d.cache.Delete(pipelinesCacheKey)
}
