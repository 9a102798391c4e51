package ethutil

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress trims the address and lowercases it when it is an EVM hex
// address. Other address formats are returned trimmed but otherwise intact.
func NormalizeAddress(address string) string {
	address = strings.TrimSpace(address)
	if common.IsHexAddress(address) {
		return strings.ToLower(common.HexToAddress(address).Hex())
	}

	return address
}

func IsEVMAddress(address string) bool {
	return common.IsHexAddress(strings.TrimSpace(address))
}
