package entity

// NFT is a token observed in a wallet by the ownership snapshot. It is not
// persisted.
type NFT struct {
	TokenID    string         `json:"token_id"`
	Attributes []NFTAttribute `json:"attributes"`
}

type NFTAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
