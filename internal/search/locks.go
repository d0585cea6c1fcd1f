package search

import "sync"

// lockArray is a flat array of per-scan mutexes, sized equal to the scan
// count, per spec §9's "prefer a flat array of locks over a concurrent
// map." A worker updating psms[i] holds locks[i] for the read-modify-write.
type lockArray []sync.Mutex

func newLockArray(n int) lockArray {
	return make(lockArray, n)
}

func (l lockArray) Lock(i int)   { l[i].Lock() }
func (l lockArray) Unlock(i int) { l[i].Unlock() }
