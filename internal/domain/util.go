package domain

import (
	"context"
	"errors"
	"time"

	"github.com/questx-lab/stakeboard/internal/domain/claim"
	"github.com/questx-lab/stakeboard/internal/domain/reward"
	"github.com/questx-lab/stakeboard/internal/domain/snapshot"
	"github.com/questx-lab/stakeboard/internal/domain/statistic"
	"github.com/questx-lab/stakeboard/pkg/errorx"
	"github.com/questx-lab/stakeboard/pkg/ethutil"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
)

// normalizeWallet validates a wallet address taken from a request.
func normalizeWallet(address, field string) (string, error) {
	if address == "" {
		return "", errorx.New(errorx.BadRequest, "Require %s", field)
	}

	if !ethutil.IsEVMAddress(address) {
		return "", errorx.New(errorx.BadRequest, "Invalid %s", field)
	}

	return ethutil.NormalizeAddress(address), nil
}

func loadCatalog(ctx context.Context, loader reward.CatalogLoader, projectID string) (*reward.ProjectCatalog, error) {
	if projectID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require project_id")
	}

	catalog, err := loader.Load(ctx, projectID)
	if err != nil {
		return nil, toErrorx(ctx, "Cannot load reward catalog", err)
	}

	return catalog, nil
}

// toErrorx converts an error of the staking engine to the error returned to
// clients. Unexpected errors are logged with msg.
func toErrorx(ctx context.Context, msg string, err error) error {
	var errx errorx.Error
	switch {
	case errors.As(err, &errx):
		return errx
	case errors.Is(err, reward.ErrProjectNotFound):
		return errorx.New(errorx.NotFound, "Not found project")
	case errors.Is(err, snapshot.ErrSnapshotUnavailable):
		return errorx.New(errorx.SnapshotUnavailable, "Holdings are temporarily unavailable, try again later")
	case errors.Is(err, claim.ErrClaimConflict):
		return errorx.New(errorx.ClaimConflict, "Claim is in progress, try again later")
	case errors.Is(err, statistic.ErrInvalidPage):
		return errorx.New(errorx.BadRequest, "Invalid page")
	}

	xcontext.Logger(ctx).Errorf("%s: %v", msg, err)
	return errorx.Unknown
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
