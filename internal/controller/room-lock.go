package controller

import (
	"hash/fnv"
	"sync"
)

// Membership events for one room must enqueue their fan-out in mutation
// order, or a slower writer delivers a stale member list after a newer one.
// A striped lock keyed by room id gives each room a critical section across
// the service call and the broadcast without an unbounded lock table.
const roomLockStripes = 64

type roomLocks [roomLockStripes]sync.Mutex

func (l *roomLocks) lock(roomId string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(roomId))

	mu := &l[h.Sum32()%roomLockStripes]
	mu.Lock()

	return mu
}
