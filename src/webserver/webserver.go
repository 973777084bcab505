// Package webserver contains the HTTP boundary of the website. It deals with
// processing requests from the users and hands the actual work to the
// library and the covers pipeline.
package webserver

import (
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/pytouch377/online-music-website/src/config"
	"github.com/pytouch377/online-music-website/src/covers"
	"github.com/pytouch377/online-music-website/src/library"
)

// Server represents our webserver. It will be controlled from here.
type Server struct {
	// Configuration of this server.
	cfg config.Config

	// Used in Server.Wait to sync with the server's end.
	wg sync.WaitGroup

	// Makes sure Serve does not return before all the starting work has
	// been finished.
	startWG sync.WaitGroup

	// The actual http.Server doing the HTTP work.
	httpSrv *http.Server

	// The server's net.Listener. Used in the Server.Stop func.
	listener net.Listener

	// This server's song library.
	library library.Library

	// The cover resolution pipeline.
	finder covers.Finder
}

// Serve actually starts the webserver. It attaches all the handlers and
// starts listening. Trying to call this method more than once for the same
// server will result in panic.
func (srv *Server) Serve() {
	if srv.listener != nil {
		panic("second Server.Serve call for the same server")
	}
	srv.wg.Add(1)
	srv.startWG.Add(1)
	go srv.serveGoroutine()
	srv.startWG.Wait()
}

func (srv *Server) serveGoroutine() {
	defer srv.wg.Done()

	var handler http.Handler = srv.router()
	if srv.cfg.Gzip {
		handler = NewGzipHandler(handler)
	}

	srv.httpSrv = &http.Server{
		Addr:           srv.cfg.Listen,
		Handler:        handler,
		ReadTimeout:    time.Duration(srv.cfg.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(srv.cfg.WriteTimeout) * time.Second,
		MaxHeaderBytes: srv.cfg.MaxHeadersSize,
	}

	reason := srv.listenAndServe()

	log.Println("Webserver stopped.")
	if reason != nil {
		log.Printf("Reason: %s\n", reason.Error())
	}
}

// router attaches all the handlers of the server.
func (srv *Server) router() http.Handler {
	router := mux.NewRouter()
	router.StrictSlash(true)

	router.Handle(
		"/v1/songs",
		NewUploadHandler(srv.library, srv.finder),
	).Methods("POST")
	router.Handle(
		"/v1/songs",
		NewSongsListHandler(srv.library),
	).Methods("GET")
	router.Handle(
		"/v1/songs/{songID}",
		NewSongHandler(srv.library),
	).Methods("GET")
	router.Handle(
		"/v1/songs/{songID}/cover",
		NewReplaceCoverHandler(srv.library, srv.finder),
	).Methods("POST")
	router.Handle(
		"/v1/covers",
		NewCoverSearchHandler(srv.finder),
	).Methods("GET")

	return router
}

// listenAndServe uses our own listener to make our server stoppable.
// Similar to net.http.Server.ListenAndServe only this version saves a
// reference to the listener.
func (srv *Server) listenAndServe() error {
	addr := srv.httpSrv.Addr
	if addr == "" {
		addr = ":http"
	}
	lsn, err := net.Listen("tcp", addr)
	if err != nil {
		srv.startWG.Done()
		return err
	}
	srv.listener = lsn
	log.Println("Webserver started.")
	srv.startWG.Done()
	return srv.httpSrv.Serve(lsn)
}

// Stop stops the webserver.
func (srv *Server) Stop() {
	if srv.listener != nil {
		srv.listener.Close()
		srv.listener = nil
	}
}

// Wait syncs whoever called this with the server's stop.
func (srv *Server) Wait() {
	srv.wg.Wait()
}

// NewServer returns a new Server using the supplied configuration cfg. The
// returned server is ready and calling its Serve method will start it.
func NewServer(
	cfg config.Config,
	lib library.Library,
	finder covers.Finder,
) *Server {
	return &Server{
		cfg:     cfg,
		library: lib,
		finder:  finder,
	}
}
