// Package layout encodes the MedleyDB-style naming conventions of a track
// directory: <track>_METADATA.yaml, <track>_ACTIVATION_CONF.lab,
// <track>_MIX.wav and <track>_STEM_<NN>.wav.
package layout
