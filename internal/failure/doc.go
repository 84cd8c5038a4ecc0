// Package failure defines the sentinel error markers shared by the dataset
// preparation packages.
//
// Errors are wrapped with Wrap so callers can test them with errors.Is while
// still reading a component/operation trail in the message. Batch drivers use
// Kind to persist a compact classification for each failed track.
package failure
