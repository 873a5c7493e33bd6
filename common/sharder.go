package common

import (
	"github.com/twmb/murmur3"
)

// CalculateShard maps a key to one of numShards shards. Murmur3 gives a good
// balanced distribution for the short keys used here (table names, record keys).
func CalculateShard(key []byte, numShards int) uint64 {
	h1, _ := murmur3.Sum128(key)
	return h1 % uint64(numShards)
}
