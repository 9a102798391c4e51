package snapshot

import (
	"context"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/questx-lab/stakeboard/internal/entity"
)

type mockIndexer struct {
	GetOwnedTokensFunc func(ctx context.Context, collection *entity.Collection, owner string) ([]entity.NFT, error)
	GetTokensFunc      func(ctx context.Context, collection *entity.Collection, tokenIDs []string) ([]entity.NFT, error)
}

func (m *mockIndexer) GetOwnedTokens(ctx context.Context, collection *entity.Collection, owner string) ([]entity.NFT, error) {
	return m.GetOwnedTokensFunc(ctx, collection, owner)
}

func (m *mockIndexer) GetTokens(ctx context.Context, collection *entity.Collection, tokenIDs []string) ([]entity.NFT, error) {
	return m.GetTokensFunc(ctx, collection, tokenIDs)
}

type mockStakingReader struct {
	StakedTokenIDsFunc func(ctx context.Context, collection *entity.Collection, owner string) ([]string, error)
}

func (m *mockStakingReader) StakedTokenIDs(ctx context.Context, collection *entity.Collection, owner string) ([]string, error) {
	return m.StakedTokenIDsFunc(ctx, collection, owner)
}

type mockContractCaller struct {
	CallContractFunc func(ctx context.Context, call ethereum.CallMsg) ([]byte, error)
}

func (m *mockContractCaller) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x1}, nil
}

func (m *mockContractCaller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return m.CallContractFunc(ctx, call)
}
