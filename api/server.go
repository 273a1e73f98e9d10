package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/matt-g-everett/ledtrack/track"
)

// Controls is what the Api drives.
type Controls interface {
	track.Interaction
	Snapshot(ctx context.Context) (track.Snapshot, error)
}

// Api serves the pages and the interaction endpoints.
type Api struct {
	controls Controls
	pages    string
	mux      *http.ServeMux
}

// NewApi creates an Api serving static pages from the pages directory.
func NewApi(controls Controls, pages string) *Api {
	a := new(Api)
	a.controls = controls
	a.pages = pages

	a.mux = http.NewServeMux()
	a.mux.Handle("/", http.FileServer(http.Dir(pages)))
	a.mux.HandleFunc("/restart", a.signal(controls.Restart))
	a.mux.HandleFunc("/hover/enter", a.signal(controls.HoverEnter))
	a.mux.HandleFunc("/hover/leave", a.signal(controls.HoverLeave))
	a.mux.HandleFunc("/state", a.handleState)
	return a
}

// Handler returns the Api's routes.
func (a *Api) Handler() http.Handler {
	return a.mux
}

func (a *Api) signal(f func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		f()
		w.WriteHeader(http.StatusAccepted)
	}
}

func (a *Api) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot, err := a.controls.Snapshot(r.Context())
	if err != nil {
		log.Printf("State unavailable: %v", err)
		http.Error(w, "state unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		log.Println(err)
	}
}

// Serve listens on addr until ctx is cancelled.
func (a *Api) Serve(ctx context.Context, addr string) error {
	server := &http.Server{Addr: addr, Handler: a.mux}
	go func() {
		<-ctx.Done()
		server.Close()
	}()

	log.Printf("Listening on %s...", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
