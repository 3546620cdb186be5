package service

import "sync"

const lockShardCount = 32

// recordLocks hands out a mutex per record ID so the read-modify-write
// cycle against a single user or product is exclusive. Sharded to keep
// the lock table fixed-size; two records sharing a shard merely contend,
// they never corrupt each other.
type recordLocks struct {
	shards [lockShardCount]sync.Mutex
}

// locker uses inline FNV-1a (allocation-free) for shard selection.
func (r *recordLocks) locker(key string) *sync.Mutex {
	const prime32 = 16777619
	h := uint32(2166136261)
	for i := 0; i < len(key); i++ {
		h ^= uint32(key[i])
		h *= prime32
	}
	return &r.shards[h&(lockShardCount-1)]
}
