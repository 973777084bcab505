// A social music sharing web application.
//
// This file is only here so that the SQL files could be embedded into the
// binary. Everything else lives in the src directory.
package main

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/pytouch377/online-music-website/src"
)

// sqlFilesFS is the migrations directory which contains the SQL migrations
// for sql-migrate. If the embedded directory name changes, remember to change
// it in main() too.
//
//go:embed sqls
var sqlFilesFS embed.FS

func main() {
	sqls, err := fs.Sub(sqlFilesFS, "sqls")
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading sqls subFS: %s\n", err)
		os.Exit(1)
	}

	src.Main(sqls)
}
