package capture

import (
	"hash/fnv"
	"sync"
)

const lockShards = 64

// itemLocks serializes whole-object read-mutate-write cycles per item id.
// Sharded by id hash; a collision only costs unnecessary serialization,
// never a missed one.
type itemLocks struct {
	shards [lockShards]sync.Mutex
}

func (l *itemLocks) lock(id string) func() {
	h := fnv.New32a()
	h.Write([]byte(id))
	m := &l.shards[h.Sum32()%lockShards]
	m.Lock()
	return m.Unlock
}
