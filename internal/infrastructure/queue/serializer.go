// Package queue orders mutations that target the same resource id.
package queue

import (
	"context"
	"hash/fnv"
)

const defaultShards = 16

// Serializer runs functions one at a time per key. Keys are spread over a
// fixed set of shards by FNV hash; two keys on the same shard also wait for
// each other, which keeps ordering per key at the cost of some false sharing.
type Serializer struct {
	shards []chan struct{}
}

// NewSerializer creates a Serializer with numShards locks.
// If numShards <= 0, defaultShards is used.
func NewSerializer(numShards int) *Serializer {
	if numShards <= 0 {
		numShards = defaultShards
	}
	s := &Serializer{shards: make([]chan struct{}, numShards)}
	for i := range s.shards {
		s.shards[i] = make(chan struct{}, 1)
	}
	return s
}

// Do waits for the shard of key, then runs fn. It returns ctx.Err() without
// running fn when ctx is done first.
func (s *Serializer) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lock := s.shards[s.shardIndex(key)]
	select {
	case lock <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-lock }()

	return fn(ctx)
}

// shardIndex maps a key deterministically to a shard.
func (s *Serializer) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(s.shards)))
}
