// internal/core/usecases/target_resolver_test.go
package usecases

import (
	"testing"

	"leadrouter/internal/core/domain"
)

func testPipelines() []domain.Pipeline {
	return []domain.Pipeline{
		{
			ID:    "10",
			Title: "Sales",
			Statuses: []domain.Status{
				{ID: "100", Title: "New"},
				{ID: "110", Title: "Consult"},
			},
		},
		{
			ID:    "20",
			Title: "Archive",
			Statuses: []domain.Status{
				{ID: "200", Title: "Expired"},
			},
		},
	}
}

func TestTargetResolver(t *testing.T) {
	resolver := NewTargetResolver()
	pipelines := testPipelines()

	t.Run("ids fill in names", func(t *testing.T) {
		got := resolver.Resolve(domain.TargetRef{PipelineID: "10", StatusID: "110"}, pipelines)
		if got.PipelineName != "Sales" || got.StatusName != "Consult" {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("names fill in ids", func(t *testing.T) {
		got := resolver.Resolve(domain.TargetRef{PipelineName: "archive", StatusName: "EXPIRED"}, pipelines)
		if got.PipelineID != "20" || got.StatusID != "200" {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("name stored in the id field", func(t *testing.T) {
		got := resolver.Resolve(domain.TargetRef{PipelineID: "Sales", StatusID: "Consult"}, pipelines)
		if got.PipelineID != "10" || got.StatusID != "110" {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("pipeline inferred from status owner", func(t *testing.T) {
		got := resolver.Resolve(domain.TargetRef{StatusID: "200"}, pipelines)
		if got.PipelineID != "20" || got.StatusName != "Expired" {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("unknown target passes through", func(t *testing.T) {
		in := domain.TargetRef{PipelineID: "99", StatusID: "990"}
		got := resolver.Resolve(in, pipelines)
		if got != in {
			t.Fatalf("got %+v, want %+v", got, in)
		}
	})

	t.Run("unknown status within a known pipeline keeps the raw status", func(t *testing.T) {
		got := resolver.Resolve(domain.TargetRef{PipelineID: "10", StatusID: "999"}, pipelines)
		if got.PipelineName != "Sales" || got.StatusID != "999" || got.StatusName != "" {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("empty directory passes through", func(t *testing.T) {
		in := domain.TargetRef{PipelineID: "10"}
		if got := resolver.Resolve(in, nil); got != in {
			t.Fatalf("got %+v", got)
		}
	})
}
