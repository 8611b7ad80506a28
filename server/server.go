package server

import (
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/RooCodeInc/RooVersation/server/data"
	"github.com/RooCodeInc/RooVersation/server/db"
)

type server struct {
	models *data.Models
	log    zerolog.Logger
}

// Serve opens the task store at dsn and serves the viewer API on ln until the
// listener closes.
func Serve(ln net.Listener, dsn string, log zerolog.Logger) error {
	taskDB, err := db.OpenDB(db.DefaultConfig(dsn), data.Schema)
	if err != nil {
		return err
	}
	defer taskDB.Close()

	srv := &server{
		models: data.NewModels(taskDB),
		log:    log,
	}

	log.Info().Str("addr", ln.Addr().String()).Str("dsn", dsn).Msg("serving task API")

	httpServer := &http.Server{Handler: srv.routes()}
	return httpServer.Serve(ln)
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/api/tasks/", s.tasksHandler)
	mux.HandleFunc("/api/task/", s.taskHandler)

	return s.logRequests(mux)
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
