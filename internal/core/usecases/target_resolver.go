// internal/core/usecases/target_resolver.go
package usecases

import (
	"strings"

	"leadrouter/internal/core/domain"
)

// TargetResolver fills the missing half of {id, name} on a target reference
// using the pipeline/status directory. Best effort: fields that cannot be
// resolved pass through unchanged, it never fails.
type TargetResolver struct{}

// NewTargetResolver creates a resolver.
func NewTargetResolver() *TargetResolver {
	return &TargetResolver{}
}

// Resolve completes a target reference against the directory.
//
// The pipeline is matched by id first, then by case-insensitive name — also
// against the id field, to tolerate historical records where a name was
// written where an id was expected. The status is then matched the same way
// within the resolved pipeline's own status list. When no pipeline resolves
// but the status matches a status somewhere in the directory, the pipeline is
// inferred from that status's owner.
func (r *TargetResolver) Resolve(target domain.TargetRef, pipelines []domain.Pipeline) domain.TargetRef {
	if len(pipelines) == 0 {
		return target
	}

	pipeline := findPipeline(target, pipelines)

	if pipeline == nil {
		if owner, status := findStatusOwner(target, pipelines); owner != nil {
			target.PipelineID = owner.ID
			target.PipelineName = owner.Title
			target.StatusID = status.ID
			target.StatusName = status.Title
		}
		return target
	}

	target.PipelineID = pipeline.ID
	target.PipelineName = pipeline.Title

	if status := findStatus(target, pipeline.Statuses); status != nil {
		target.StatusID = status.ID
		target.StatusName = status.Title
	}

	return target
}

// findPipeline matches a pipeline by id, then by name, then by a name stored
// in the id field.
func findPipeline(target domain.TargetRef, pipelines []domain.Pipeline) *domain.Pipeline {
	if target.PipelineID != "" {
		for i := range pipelines {
			if pipelines[i].ID == target.PipelineID {
				return &pipelines[i]
			}
		}
	}
	if target.PipelineName != "" {
		for i := range pipelines {
			if strings.EqualFold(pipelines[i].Title, target.PipelineName) {
				return &pipelines[i]
			}
		}
	}
	if target.PipelineID != "" {
		for i := range pipelines {
			if strings.EqualFold(pipelines[i].Title, target.PipelineID) {
				return &pipelines[i]
			}
		}
	}
	return nil
}

// findStatus matches a status within one pipeline's status list, same rules
// as findPipeline.
func findStatus(target domain.TargetRef, statuses []domain.Status) *domain.Status {
	if target.StatusID != "" {
		for i := range statuses {
			if statuses[i].ID == target.StatusID {
				return &statuses[i]
			}
		}
	}
	if target.StatusName != "" {
		for i := range statuses {
			if strings.EqualFold(statuses[i].Title, target.StatusName) {
				return &statuses[i]
			}
		}
	}
	if target.StatusID != "" {
		for i := range statuses {
			if strings.EqualFold(statuses[i].Title, target.StatusID) {
				return &statuses[i]
			}
		}
	}
	return nil
}

// findStatusOwner scans every pipeline for a status matching the target and
// returns the owning pipeline along with the status.
func findStatusOwner(target domain.TargetRef, pipelines []domain.Pipeline) (*domain.Pipeline, *domain.Status) {
	if target.StatusID == "" && target.StatusName == "" {
		return nil, nil
	}
	for i := range pipelines {
		if status := findStatus(target, pipelines[i].Statuses); status != nil {
			return &pipelines[i], status
		}
	}
	return nil, nil
}
