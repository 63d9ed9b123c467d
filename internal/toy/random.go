// ABOUTME: Random source helper for the screens
// ABOUTME: Seeds a private generator unless the caller supplies one
package toy

import "math/rand/v2"

func orRandom(r *rand.Rand) *rand.Rand {
	if r != nil {
		return r
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
