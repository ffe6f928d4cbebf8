package engine

import "github.com/tphakala/go-arb-resampler/internal/polyphase"

// Export internals for testing.
// This file uses the _test.go suffix so it's only included in test builds.

// GetArbitraryInternals returns the stored (reversed) banks and the owed
// input count.
func (a *Arbitrary[F]) GetArbitraryInternals() (bank, dbank *polyphase.Bank[F], owed int) {
	return a.bank, a.dbank, a.owed
}
