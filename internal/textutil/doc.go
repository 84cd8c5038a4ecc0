// Package textutil holds small text normalization helpers shared by the
// configuration and metadata packages.
package textutil
