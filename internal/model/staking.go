package model

type CollectionPoints struct {
	CollectionID string `json:"collection_id"`
	Points       string `json:"points"`
	NftCount     int64  `json:"nft_count"`
	Unavailable  bool   `json:"unavailable,omitempty"`
}

type GetPointsRequest struct {
	ProjectID     string `json:"project_id"`
	WalletAddress string `json:"wallet_address"`
}

type GetPointsResponse struct {
	ProjectID     string             `json:"project_id"`
	WalletAddress string             `json:"wallet_address"`
	TotalPoints   string             `json:"total_points"`
	TotalNftCount int64              `json:"total_nft_count"`
	PerCollection []CollectionPoints `json:"per_collection"`
}

type ClaimRequest struct {
	ProjectID     string `json:"project_id"`
	WalletAddress string `json:"wallet_address"`
}

type CollectionClaim struct {
	CollectionID string `json:"collection_id"`
	PointsAdded  string `json:"points_added"`
	TotalPoints  string `json:"total_points"`
	NftHeldCount int64  `json:"nft_held_count"`
}

type ClaimResponse struct {
	ProjectID     string            `json:"project_id"`
	WalletAddress string            `json:"wallet_address"`
	PointsAdded   string            `json:"points_added"`
	PerCollection []CollectionClaim `json:"per_collection"`
	Skipped       []string          `json:"skipped"`
	Conflicted    []string          `json:"conflicted"`
}

type ClaimRecord struct {
	ID           int64  `json:"id"`
	CollectionID string `json:"collection_id"`
	PointsAdded  string `json:"points_added"`
	NftHeldCount int64  `json:"nft_held_count"`
	ClaimedAt    string `json:"claimed_at"`
}

type GetClaimHistoryRequest struct {
	ProjectID     string `json:"project_id"`
	WalletAddress string `json:"wallet_address"`
	Offset        int    `json:"offset"`
	Limit         int    `json:"limit"`
}

type GetClaimHistoryResponse struct {
	Records []ClaimRecord `json:"records"`
}
