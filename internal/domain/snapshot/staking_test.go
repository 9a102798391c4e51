package snapshot

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/questx-lab/stakeboard/contract/staking_contract"
	"github.com/questx-lab/stakeboard/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func packTokensOfOwner(t *testing.T, ids ...int64) []byte {
	parsed, err := staking_contract.StakingContractMetaData.GetAbi()
	require.NoError(t, err)

	values := []*big.Int{}
	for _, id := range ids {
		values = append(values, big.NewInt(id))
	}

	out, err := parsed.Methods["tokensOfOwner"].Outputs.Pack(values)
	require.NoError(t, err)
	return out
}

func Test_ethStakingReader_StakedTokenIDs(t *testing.T) {
	ctx := testutil.MockContext()
	collection := testutil.Collection2
	output := packTokensOfOwner(t, 7, 11)

	broken := &mockContractCaller{
		CallContractFunc: func(ctx context.Context, call ethereum.CallMsg) ([]byte, error) {
			return nil, errors.New("rpc down")
		},
	}

	healthy := &mockContractCaller{
		CallContractFunc: func(ctx context.Context, call ethereum.CallMsg) ([]byte, error) {
			require.True(t, strings.EqualFold(collection.StakingContractAddress.String, call.To.Hex()))
			return output, nil
		},
	}

	reader := NewStakingReaderWithCallers(map[string][]bind.ContractCaller{
		collection.Chain: {broken, healthy},
	})

	ids, err := reader.StakedTokenIDs(ctx, &collection, testutil.Wallet1)
	require.NoError(t, err)
	require.Equal(t, []string{"7", "11"}, ids)
}

func Test_ethStakingReader_UnknownChain(t *testing.T) {
	ctx := testutil.MockContext()
	collection := testutil.Collection2
	collection.Chain = "unknown"

	_, err := NewStakingReaderWithCallers(map[string][]bind.ContractCaller{}).
		StakedTokenIDs(ctx, &collection, testutil.Wallet1)
	require.Error(t, err)
}
