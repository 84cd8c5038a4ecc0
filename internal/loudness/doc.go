// Package loudness measures and normalizes integrated loudness.
//
// The meter implements ITU-R BS.1770-4 for a single channel: K-weighting
// (high-shelf then high-pass biquads designed for the signal's sample rate),
// 400 ms blocks with 75% overlap, an absolute gate at -70 LUFS and a relative
// gate 10 LU below the absolutely-gated mean. Normalization applies one linear
// gain so the measured loudness lands on the target.
package loudness
