// Package store holds per-screen caches of remotely-sourced entities. Each
// cache applies the same confirm-after mutation contract: exactly one request
// per mutation, nothing written speculatively, the cache merged only from a
// confirmed response, and the cache left untouched on any failure. A cache is
// closed when its owning view goes away; responses resolving after close are
// dropped rather than faulting.
package store

// LoadState distinguishes "never fetched", "fetched (possibly empty)" and
// "fetch failed". An empty list is a successful result and must render
// differently from a failure.
type LoadState int

const (
	LoadPending LoadState = iota
	LoadOK
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadPending:
		return "pending"
	case LoadOK:
		return "ok"
	case LoadFailed:
		return "failed"
	}
	return "unknown"
}
