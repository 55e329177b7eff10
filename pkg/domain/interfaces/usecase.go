package interfaces

import (
	"context"

	"github.com/m-mizutani/bundlebump/pkg/domain/model"
)

// BundleUseCase updates the bundle repository after a package release
type BundleUseCase interface {
	// UpdateBundle points the bundle's dependency entry at the released version
	UpdateBundle(ctx context.Context, input *model.BundleUpdate) (*model.ChangeResult, error)
}
