// ABOUTME: Audio encoder package for writing float32 PCM
// ABOUTME: Provides the Encoder interface, integer PCM packing and WAV files
// Package encode turns audio.PCM back into bytes.
//
// Supports: PCM (16-bit and 24-bit little-endian) and RIFF WAV files
// wrapping either depth.
//
// Example:
//
//	wav, err := encode.WAV(pcm, 16)
//	pcm, err := decode.DecodeBytes("clip.wav", wav)
package encode
