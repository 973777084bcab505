// Package daemon deals with the process-level plumbing of the server. The
// stop signals and the flags which control how the process runs live here.
package daemon

import "flag"

// Debug is set with the -D flag. A debugging server logs to the standard
// error stream instead of its logfile.
var Debug bool

func init() {
	flag.BoolVar(&Debug, "D", false, "Debug mode. Logs to stderr instead of the logfile.")
}
