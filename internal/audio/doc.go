// Package audio reads and writes the WAV files of a track as mono float
// signals.
//
// Decoding goes through go-audio/wav; integer PCM is scaled to [-1, 1] and
// multichannel audio is averaged to mono. Signals can be resampled to a common
// rate before mixing. Output is 16-bit PCM written atomically.
package audio
