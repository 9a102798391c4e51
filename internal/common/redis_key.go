package common

import "fmt"

func RedisKeyHoldings(collectionID, walletAddress string) string {
	return fmt.Sprintf("holdings:%s:%s", collectionID, walletAddress)
}
