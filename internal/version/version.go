// ABOUTME: Product identity reported by the binaries and the debug tap
// ABOUTME: Version is overridden at link time with -ldflags
package version

// Version is the release version
var Version = "0.1.0"

const (
	// Product is the user-facing product name
	Product = "Aris Music"
	// Manufacturer is the publisher name
	Manufacturer = "Aris Music"
)
