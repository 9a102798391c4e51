package snapshot

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/questx-lab/stakeboard/config"
	"github.com/questx-lab/stakeboard/contract/staking_contract"
	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
)

// StakingReader lists the tokens a staking contract holds for a wallet.
type StakingReader interface {
	StakedTokenIDs(ctx context.Context, collection *entity.Collection, owner string) ([]string, error)
}

type ethStakingReader struct {
	chains map[string]config.ChainConfig

	mutex   sync.Mutex
	callers map[string][]bind.ContractCaller
	dial    func(ctx context.Context, rpc string) (bind.ContractCaller, error)
}

func NewEthStakingReader(chains map[string]config.ChainConfig) *ethStakingReader {
	return &ethStakingReader{
		chains:  chains,
		callers: map[string][]bind.ContractCaller{},
		dial: func(ctx context.Context, rpc string) (bind.ContractCaller, error) {
			return ethclient.DialContext(ctx, rpc)
		},
	}
}

// NewStakingReaderWithCallers binds the reader to already connected callers,
// keyed by chain name.
func NewStakingReaderWithCallers(callers map[string][]bind.ContractCaller) *ethStakingReader {
	return &ethStakingReader{
		chains:  map[string]config.ChainConfig{},
		callers: callers,
	}
}

// clients dials every rpc of the chain the first time it is needed.
func (r *ethStakingReader) clients(ctx context.Context, chain string) ([]bind.ContractCaller, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if callers, ok := r.callers[chain]; ok && len(callers) > 0 {
		return callers, nil
	}

	cfg, ok := r.chains[chain]
	if !ok || len(cfg.Rpcs) == 0 {
		return nil, fmt.Errorf("no rpc configured for chain %s", chain)
	}

	callers := []bind.ContractCaller{}
	for _, rpc := range cfg.Rpcs {
		caller, err := r.dial(ctx, rpc)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot dial rpc %s of chain %s: %v", rpc, chain, err)
			continue
		}

		callers = append(callers, caller)
	}

	if len(callers) == 0 {
		return nil, fmt.Errorf("cannot connect to any rpc of chain %s", chain)
	}

	r.callers[chain] = callers
	return callers, nil
}

func (r *ethStakingReader) StakedTokenIDs(
	ctx context.Context, collection *entity.Collection, owner string,
) ([]string, error) {
	callers, err := r.clients(ctx, collection.Chain)
	if err != nil {
		return nil, err
	}

	contractAddress := common.HexToAddress(collection.StakingContractAddress.String)
	var lastErr error
	for _, caller := range callers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		contract, err := staking_contract.NewStakingContractCaller(contractAddress, caller)
		if err != nil {
			return nil, err
		}

		ids, err := contract.TokensOfOwner(&bind.CallOpts{Context: ctx}, common.HexToAddress(owner))
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot read staked tokens of %s from %s: %v",
				owner, contractAddress.Hex(), err)
			lastErr = err
			continue
		}

		result := make([]string, 0, len(ids))
		for _, id := range ids {
			result = append(result, id.String())
		}

		return result, nil
	}

	return nil, lastErr
}
