// Package version holds the devmap build version.
package version

// Version is the current devmap version
const Version = "0.3.0"
