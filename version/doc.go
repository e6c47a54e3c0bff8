// Package version reports the build identity of the opgate binary.
//
// Version and build time are set at link time; the commit falls back to the
// VCS stamp the toolchain embeds:
//
//	go build -ldflags "-X github.com/kbukum/opgate/version.Version=0.2.0" ./cmd/opgate
package version
