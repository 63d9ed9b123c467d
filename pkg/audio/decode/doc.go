// ABOUTME: Audio decoder package for sound file support
// ABOUTME: Decodes MP3, FLAC, WAV and Ogg/Opus files to float32 PCM
// Package decode turns whole sound files into audio.PCM.
//
// Supports: MP3 (go-mp3), FLAC (mewkiz/flac), WAV (PCM 8/16/24/32-bit and
// IEEE float) and Ogg/Opus (hraban/opus, needs libopusfile; build with
// -tags nolibopusfile to leave it out).
//
// The format is sniffed from the file's magic bytes, falling back to the
// name's extension.
//
// Example:
//
//	pcm, err := decode.Decode("pop.mp3", resp.Body)
package decode
