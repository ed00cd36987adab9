package deps

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// PackageManager is the part of the host's package manager used to satisfy
// dependencies on sibling packages.
type PackageManager interface {
	// InstallDependencies installs the packages the named package depends on.
	InstallDependencies(ctx context.Context, name string) error

	IsPackageDisabled(ctx context.Context, name string) bool

	EnablePackage(ctx context.Context, name string) error
}

// Satisfy installs the dependencies of the named package, then enables every
// package in packageDeps that is currently disabled.
//
// Nothing is retried or rolled back. A failure does not stop the remaining
// steps; all failures are returned joined.
func Satisfy(ctx context.Context, pm PackageManager, name string, packageDeps []string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	var errs []error
	if err := pm.InstallDependencies(ctx, name); err != nil {
		errs = append(errs, fmt.Errorf("install dependencies of %s: %w", name, err))
	}

	for _, dep := range packageDeps {
		if !pm.IsPackageDisabled(ctx, dep) {
			continue
		}
		log.Debug("Enabling package", zap.String("package", dep))
		if err := pm.EnablePackage(ctx, dep); err != nil {
			errs = append(errs, fmt.Errorf("enable %s: %w", dep, err))
		}
	}
	return errors.Join(errs...)
}
