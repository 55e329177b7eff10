package interfaces

import (
	"context"

	"github.com/m-mizutani/bundlebump/pkg/domain/model"
)

// RemoteFileChanger fetches a file from a hosted git repository, applies a
// transform and lands the result as a push or a pull request
type RemoteFileChanger interface {
	// ChangeFile runs req.Transform against the current file content on req.Branch
	ChangeFile(ctx context.Context, req *model.ChangeRequest) (*model.ChangeResult, error)
}
