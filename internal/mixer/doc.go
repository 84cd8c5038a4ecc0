// Package mixer renders a track's stems into a single mono mix.
//
// Each stem is loaded mono, resampled to the first stem's rate, and
// normalized to the target integrated loudness on its own. The normalized
// stems are right-padded with silence to a common length and averaged. Mixes
// are written as 16-bit PCM through a temporary file renamed into place.
package mixer
