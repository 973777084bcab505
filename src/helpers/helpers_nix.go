//go:build linux || darwin || freebsd

package helpers

// appDir is the name of the server's directory in the user's home directory.
const appDir = ".online-music-website"
