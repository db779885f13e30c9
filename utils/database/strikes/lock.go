package strikes

import "sync"

var (
	lockMu  sync.Mutex
	rowLock = make(map[string]*sync.Mutex)
)

// Lock serializes edits to one (guild,user) ledger row. Handlers run as
// independent goroutines, so without this two concurrent edits to the same
// target would race last-write-wins. Returns the unlock func.
func Lock(guildID, userID string) func() {
	key := guildID + ":" + userID

	lockMu.Lock()
	mu, ok := rowLock[key]
	if !ok {
		mu = &sync.Mutex{}
		rowLock[key] = mu
	}
	lockMu.Unlock()

	mu.Lock()
	return mu.Unlock
}
