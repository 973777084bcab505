//go:build windows

package helpers

// appDir is the name of the server's directory in the user's profile
// directory.
const appDir = "online-music-website"
