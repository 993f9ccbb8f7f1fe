// Package appdeck carries build-level metadata shared by the CLI and server.
package appdeck

// Version is the release version reported by the version command. Release
// builds overwrite it through the build tooling.
const Version = "0.1.0"
