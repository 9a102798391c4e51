package domain

import (
	"context"
	"errors"

	"github.com/questx-lab/stakeboard/internal/domain/statistic"
	"github.com/questx-lab/stakeboard/internal/model"
	"github.com/questx-lab/stakeboard/internal/repository"
	"github.com/questx-lab/stakeboard/pkg/errorx"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
	"gorm.io/gorm"
)

type LeaderboardDomain interface {
	GetLeaderboard(context.Context, *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
}

type leaderboardDomain struct {
	projectRepo repository.ProjectRepository
	leaderboard statistic.Leaderboard
}

func NewLeaderboardDomain(
	projectRepo repository.ProjectRepository,
	leaderboard statistic.Leaderboard,
) LeaderboardDomain {
	return &leaderboardDomain{
		projectRepo: projectRepo,
		leaderboard: leaderboard,
	}
}

func (d *leaderboardDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	if req.ProjectID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require project_id")
	}

	focusWallet := ""
	if req.FocusWallet != "" {
		var err error
		focusWallet, err = normalizeWallet(req.FocusWallet, "focus_wallet")
		if err != nil {
			return nil, err
		}
	}

	if _, err := d.projectRepo.GetByID(ctx, req.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found project")
		}

		xcontext.Logger(ctx).Errorf("Cannot get project: %v", err)
		return nil, errorx.Unknown
	}

	page, err := d.leaderboard.Rank(ctx, req.ProjectID, req.Page, req.PageSize, focusWallet)
	if err != nil {
		return nil, toErrorx(ctx, "Cannot rank leaderboard", err)
	}

	resp := &model.GetLeaderboardResponse{
		Entries:     []model.LeaderboardEntry{},
		Page:        page.Page,
		PageSize:    page.PageSize,
		HasNextPage: page.HasNextPage,
	}

	for _, e := range page.Entries {
		resp.Entries = append(resp.Entries, convertLeaderboardEntry(e))
	}

	if page.FocusWallet != nil {
		focus := convertLeaderboardEntry(*page.FocusWallet)
		resp.FocusWallet = &focus
	}

	return resp, nil
}

func convertLeaderboardEntry(e statistic.LeaderboardEntry) model.LeaderboardEntry {
	return model.LeaderboardEntry{
		Rank:          e.Rank,
		WalletAddress: e.WalletAddress,
		TotalPoints:   e.TotalPoints.String(),
		NftHeldCount:  e.NftHeldCount,
		AnomalyFlag:   e.AnomalyFlag,
	}
}
