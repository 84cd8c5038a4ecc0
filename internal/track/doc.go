// Package track opens a track directory as a MultiTrack view.
//
// Opening is all-or-nothing: metadata, activation table and mix file must all
// be present. Stems are discovered by the <track>_STEM_<NN>.wav naming
// convention and decoded on demand.
package track
