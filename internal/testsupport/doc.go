// Package testsupport builds fixture configs and track trees for tests.
package testsupport
