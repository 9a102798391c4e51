package model

type LeaderboardEntry struct {
	Rank          uint64 `json:"rank"`
	WalletAddress string `json:"wallet_address"`
	TotalPoints   string `json:"total_points"`
	NftHeldCount  int64  `json:"nft_held_count"`
	AnomalyFlag   bool   `json:"anomaly_flag"`
}

type GetLeaderboardRequest struct {
	ProjectID   string `json:"project_id"`
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
	FocusWallet string `json:"focus_wallet"`
}

type GetLeaderboardResponse struct {
	Entries     []LeaderboardEntry `json:"entries"`
	Page        int                `json:"page"`
	PageSize    int                `json:"page_size"`
	HasNextPage bool               `json:"has_next_page"`
	FocusWallet *LeaderboardEntry  `json:"focus_wallet"`
}
