// ABOUTME: Sound asset loading for the toy screens
// ABOUTME: Resolves http, file, data and embedded references to raw bytes

// Package assets fetches sound files by reference. HTTP downloads are cached
// on disk under a hash of the URL, and a handful of effects ship embedded in
// the binary under the "embed:" scheme.
package assets
