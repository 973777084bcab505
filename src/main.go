// The Main function of the server. It should set everything up, create a
// library, a covers client and a webserver and keep them running until a
// stop signal arrives.
//
// At the moment it is in package src because I import it from the project's
// root folder.
package src

import (
	"flag"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/pytouch377/online-music-website/src/config"
	"github.com/pytouch377/online-music-website/src/covers"
	"github.com/pytouch377/online-music-website/src/daemon"
	"github.com/pytouch377/online-music-website/src/helpers"
	"github.com/pytouch377/online-music-website/src/library"
	"github.com/pytouch377/online-music-website/src/version"
	"github.com/pytouch377/online-music-website/src/webserver"
)

// pidFileName is the name of the pidfile inside the user path.
const pidFileName = "server.pid"

var showVersion bool

func init() {
	flag.BoolVar(&showVersion, "v", false, "Print the server version and exit.")
}

// getLibrary returns a new Library object using the application config. For
// the moment this is a LocalLibrary which places its sqlite database file in
// the user path directory.
func getLibrary(
	userPath string,
	cfg config.Config,
	appFS afero.Fs,
	sqlFilesFS fs.FS,
) library.Library {
	dbPath := helpers.AbsolutePath(cfg.SqliteDatabase, userPath)
	storagePath := helpers.AbsolutePath(cfg.StoragePath, userPath)

	lib, err := library.NewLocalLibrary(dbPath, appFS, storagePath, sqlFilesFS)
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}

	if err := lib.Initialize(); err != nil {
		log.Println(err)
		os.Exit(1)
	}

	return lib
}

// getCoversClient returns the cover resolution pipeline using the
// application config.
func getCoversClient(
	userPath string,
	cfg config.Config,
	appFS afero.Fs,
) covers.Finder {
	if cfg.Covers.Disabled {
		return covers.Disabled{}
	}

	storagePath := helpers.AbsolutePath(cfg.StoragePath, userPath)

	return covers.NewClient(
		cfg.Covers.UserAgent,
		cfg.Covers.LastFMAPIKey,
		cfg.Covers.LastFMSecret,
		appFS,
		storagePath,
	)
}

// Main is the only thing run in the project's root main.go file. For all
// intents and purposes this is the main function.
func Main(sqlFilesFS fs.FS) {
	flag.Parse()

	if showVersion {
		version.Print(os.Stdout)
		return
	}

	userPath, err := helpers.ProjectUserPath()
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}

	cfg := new(config.Config)
	if err := cfg.FindAndParse(); err != nil {
		log.Println(err)
		os.Exit(1)
	}

	appFS := afero.NewOsFs()

	if !daemon.Debug {
		logFile := helpers.AbsolutePath(cfg.LogFile, userPath)
		if err := helpers.SetLogsFile(appFS, logFile); err != nil {
			log.Println(err)
			os.Exit(1)
		}
	}

	pidFile := filepath.Join(userPath, pidFileName)
	if err := helpers.SetUpPidFile(appFS, pidFile); err != nil {
		log.Println(err)
		os.Exit(1)
	}
	defer helpers.RemovePidFile(appFS, pidFile)

	lib := getLibrary(userPath, *cfg, appFS, sqlFilesFS)
	defer func() {
		if localLib, ok := lib.(*library.LocalLibrary); ok {
			localLib.Close()
		}
	}()

	finder := getCoversClient(userPath, *cfg, appFS)

	srv := webserver.NewServer(*cfg, lib, finder)
	srv.Serve()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, daemon.StopSignals...)
	go func() {
		sig := <-stop
		log.Printf("Stop signal received: %s. Stopping the server.\n", sig)
		srv.Stop()
	}()

	srv.Wait()
}
