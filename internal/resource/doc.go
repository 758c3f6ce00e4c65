// Package resource governs the memory and IO a set of tries may use.
//
// Memory is a fail-fast budget on a weighted semaphore: building, loading or
// adopting a unit array reserves 4 bytes per unit, and clearing the trie
// returns them.
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64 << 20})
//	if err := rc.AcquireMemory(size); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(size)
//
// IO is a token bucket in bytes per second applied to dump and load streams
// through RateLimitedWriter and RateLimitedReader.
//
// All methods are safe for concurrent use and are no-ops on a nil
// *Controller.
package resource
