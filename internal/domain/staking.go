package domain

import (
	"context"
	"errors"

	"github.com/questx-lab/stakeboard/internal/domain/aggregator"
	"github.com/questx-lab/stakeboard/internal/domain/claim"
	"github.com/questx-lab/stakeboard/internal/domain/reward"
	"github.com/questx-lab/stakeboard/internal/model"
	"github.com/questx-lab/stakeboard/internal/repository"
	"github.com/questx-lab/stakeboard/pkg/errorx"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
	"gorm.io/gorm"
)

type StakingDomain interface {
	GetPoints(context.Context, *model.GetPointsRequest) (*model.GetPointsResponse, error)
	Claim(context.Context, *model.ClaimRequest) (*model.ClaimResponse, error)
	GetClaimHistory(context.Context, *model.GetClaimHistoryRequest) (*model.GetClaimHistoryResponse, error)
}

type stakingDomain struct {
	projectRepo     repository.ProjectRepository
	claimRecordRepo repository.ClaimRecordRepository
	catalogLoader   reward.CatalogLoader
	aggregator      aggregator.Aggregator
	processor       claim.Processor
}

// NewStakingDomain returns the staking endpoints. The aggregator only serves
// previews and may read cached holdings; claims go through the processor.
func NewStakingDomain(
	projectRepo repository.ProjectRepository,
	claimRecordRepo repository.ClaimRecordRepository,
	catalogLoader reward.CatalogLoader,
	aggregator aggregator.Aggregator,
	processor claim.Processor,
) StakingDomain {
	return &stakingDomain{
		projectRepo:     projectRepo,
		claimRecordRepo: claimRecordRepo,
		catalogLoader:   catalogLoader,
		aggregator:      aggregator,
		processor:       processor,
	}
}

func (d *stakingDomain) GetPoints(
	ctx context.Context, req *model.GetPointsRequest,
) (*model.GetPointsResponse, error) {
	wallet, err := normalizeWallet(req.WalletAddress, "wallet_address")
	if err != nil {
		return nil, err
	}

	catalog, err := loadCatalog(ctx, d.catalogLoader, req.ProjectID)
	if err != nil {
		return nil, err
	}

	result, err := d.aggregator.AggregateProject(ctx, wallet, catalog)
	if err != nil {
		return nil, toErrorx(ctx, "Cannot aggregate points", err)
	}

	resp := &model.GetPointsResponse{
		ProjectID:     result.ProjectID,
		WalletAddress: wallet,
		TotalPoints:   result.TotalPoints.String(),
		TotalNftCount: result.TotalNftCount,
		PerCollection: []model.CollectionPoints{},
	}

	for _, c := range result.PerCollection {
		resp.PerCollection = append(resp.PerCollection, model.CollectionPoints{
			CollectionID: c.CollectionID,
			Points:       c.Points.String(),
			NftCount:     c.NftCount,
			Unavailable:  c.Unavailable,
		})
	}

	return resp, nil
}

func (d *stakingDomain) Claim(
	ctx context.Context, req *model.ClaimRequest,
) (*model.ClaimResponse, error) {
	wallet, err := normalizeWallet(req.WalletAddress, "wallet_address")
	if err != nil {
		return nil, err
	}

	catalog, err := loadCatalog(ctx, d.catalogLoader, req.ProjectID)
	if err != nil {
		return nil, err
	}

	result, err := d.processor.Claim(ctx, wallet, catalog)
	if err != nil {
		return nil, toErrorx(ctx, "Cannot claim points", err)
	}

	resp := &model.ClaimResponse{
		ProjectID:     result.ProjectID,
		WalletAddress: result.WalletAddress,
		PointsAdded:   result.PointsAdded.String(),
		PerCollection: []model.CollectionClaim{},
		Skipped:       result.Skipped,
		Conflicted:    result.Conflicted,
	}

	for _, c := range result.PerCollection {
		resp.PerCollection = append(resp.PerCollection, model.CollectionClaim{
			CollectionID: c.CollectionID,
			PointsAdded:  c.PointsAdded.String(),
			TotalPoints:  c.TotalPoints.String(),
			NftHeldCount: c.NftHeldCount,
		})
	}

	return resp, nil
}

func (d *stakingDomain) GetClaimHistory(
	ctx context.Context, req *model.GetClaimHistoryRequest,
) (*model.GetClaimHistoryResponse, error) {
	wallet, err := normalizeWallet(req.WalletAddress, "wallet_address")
	if err != nil {
		return nil, err
	}

	if req.ProjectID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require project_id")
	}

	if req.Offset < 0 {
		return nil, errorx.New(errorx.BadRequest, "Invalid offset")
	}

	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit <= 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	if _, err := d.projectRepo.GetByID(ctx, req.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found project")
		}

		xcontext.Logger(ctx).Errorf("Cannot get project: %v", err)
		return nil, errorx.Unknown
	}

	records, err := d.claimRecordRepo.GetList(ctx, repository.ClaimRecordFilter{
		WalletAddress: wallet,
		ProjectID:     req.ProjectID,
		Offset:        req.Offset,
		Limit:         req.Limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get claim records: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetClaimHistoryResponse{Records: []model.ClaimRecord{}}
	for _, r := range records {
		resp.Records = append(resp.Records, model.ClaimRecord{
			ID:           r.ID,
			CollectionID: r.CollectionID,
			PointsAdded:  r.PointsAdded.String(),
			NftHeldCount: r.NftHeldCount,
			ClaimedAt:    formatTime(r.ClaimedAt),
		})
	}

	return resp, nil
}
