package snapshot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/questx-lab/stakeboard/pkg/api"
	"github.com/questx-lab/stakeboard/pkg/ethutil"
)

// maxIndexerPages bounds the pagination of a single wallet.
const maxIndexerPages = 1000

// Indexer reads token ownership and metadata from an NFT indexer.
type Indexer interface {
	GetOwnedTokens(ctx context.Context, collection *entity.Collection, owner string) ([]entity.NFT, error)
	GetTokens(ctx context.Context, collection *entity.Collection, tokenIDs []string) ([]entity.NFT, error)
}

type indexerToken struct {
	TokenID    string `json:"token_id"`
	Attributes []struct {
		TraitType string `json:"trait_type"`
		Value     any    `json:"value"`
	} `json:"attributes"`
}

type indexerTokensResponse struct {
	Tokens     []indexerToken `json:"tokens"`
	NextCursor string         `json:"next_cursor"`
}

type indexer struct {
	apiGenerator api.Generator
	apiKey       string
	pageSize     int
}

func NewIndexer(apiGenerator api.Generator, apiKey string, pageSize int) *indexer {
	if pageSize <= 0 {
		pageSize = 100
	}

	return &indexer{
		apiGenerator: apiGenerator,
		apiKey:       apiKey,
		pageSize:     pageSize,
	}
}

func (i *indexer) GetOwnedTokens(
	ctx context.Context, collection *entity.Collection, owner string,
) ([]entity.NFT, error) {
	result := []entity.NFT{}
	cursor := ""
	for page := 0; page < maxIndexerPages; page++ {
		query := api.Parameter{"limit": strconv.Itoa(i.pageSize)}
		if cursor != "" {
			query["cursor"] = cursor
		}

		resp, err := i.apiGenerator.New(
			"/v1/collections/%s/%s/owners/%s/tokens",
			collection.Chain,
			ethutil.NormalizeAddress(collection.ContractAddress),
			owner,
		).Query(query).GET(ctx, api.APIKey("X-API-Key", i.apiKey))
		if err != nil {
			return nil, err
		}

		var body indexerTokensResponse
		if err := resp.Decode(&body); err != nil {
			return nil, err
		}

		result = append(result, convertIndexerTokens(body.Tokens)...)
		if body.NextCursor == "" {
			return result, nil
		}

		if body.NextCursor == cursor {
			return nil, fmt.Errorf("indexer returned the same cursor %s twice", cursor)
		}

		cursor = body.NextCursor
	}

	return nil, fmt.Errorf("holdings of %s exceed %d pages", owner, maxIndexerPages)
}

func (i *indexer) GetTokens(
	ctx context.Context, collection *entity.Collection, tokenIDs []string,
) ([]entity.NFT, error) {
	result := []entity.NFT{}
	for start := 0; start < len(tokenIDs); start += i.pageSize {
		end := start + i.pageSize
		if end > len(tokenIDs) {
			end = len(tokenIDs)
		}

		resp, err := i.apiGenerator.New(
			"/v1/collections/%s/%s/tokens",
			collection.Chain,
			ethutil.NormalizeAddress(collection.ContractAddress),
		).Query(api.Parameter{
			"token_ids": strings.Join(tokenIDs[start:end], ","),
		}).GET(ctx, api.APIKey("X-API-Key", i.apiKey))
		if err != nil {
			return nil, err
		}

		var body indexerTokensResponse
		if err := resp.Decode(&body); err != nil {
			return nil, err
		}

		result = append(result, convertIndexerTokens(body.Tokens)...)
	}

	return result, nil
}

func convertIndexerTokens(tokens []indexerToken) []entity.NFT {
	result := make([]entity.NFT, 0, len(tokens))
	for _, t := range tokens {
		nft := entity.NFT{TokenID: t.TokenID}
		for _, attr := range t.Attributes {
			nft.Attributes = append(nft.Attributes, entity.NFTAttribute{
				Key:   attr.TraitType,
				Value: attributeValue(attr.Value),
			})
		}

		result = append(result, nft)
	}

	return result
}

// attributeValue renders metadata values the way they appear in the token
// json, so numeric traits can be matched by their literal text.
func attributeValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}

	return fmt.Sprint(v)
}
