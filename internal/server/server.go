// Package server exposes the engine over HTTP/JSON and a websocket stream.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"KickRelay/internal/apperr"
	"KickRelay/internal/model"
	"KickRelay/internal/recorder"
)

// Game is the engine surface the server drives.
type Game interface {
	Kick(move model.Move) error
	Snapshot() model.Snapshot
	Subscribe(fn func(model.Snapshot)) func()
}

// Server is the HTTP front of the engine.
type Server struct {
	game     Game
	recorder recorder.Recorder
	hub      *Hub
	router   *mux.Router
}

// New builds the router. jwtSecret guards POST /api/kick when set.
func New(game Game, rec recorder.Recorder, jwtSecret string) *Server {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	s := &Server{game: game, recorder: rec, hub: NewHub(game), router: mux.NewRouter()}

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.hub.Handle).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	api.HandleFunc("/rounds", s.handleRounds).Methods(http.MethodGet)
	api.Handle("/kick", AuthMiddleware(jwtSecret)(http.HandlerFunc(s.handleKick))).Methods(http.MethodPost)
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.hub.Start()
	defer s.hub.Close()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] http server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Println("[INFO] http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, s.game.Snapshot())
}

func (s *Server) handleRounds(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 200 {
			WriteError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "limit must be between 1 and 200")
			return
		}
		limit = n
	}
	rounds, err := s.recorder.RecentRounds(limit)
	if err != nil {
		log.Printf("[ERROR] load rounds: %v", err)
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "history unavailable")
		return
	}
	if rounds == nil {
		rounds = []recorder.RoundEvent{}
	}
	WriteSuccess(w, http.StatusOK, rounds)
}

type kickRequest struct {
	Move string `json:"move"`
}

func (s *Server) handleKick(w http.ResponseWriter, r *http.Request) {
	var req kickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "body must be {\"move\": \"left|center|right\"}")
		return
	}
	move, err := model.ParseMove(req.Move)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}
	if err := s.game.Kick(move); err != nil {
		WriteError(w, statusFor(err), string(apperr.CodeOf(err)), apperr.UserMessage(err))
		return
	}
	WriteSuccess(w, http.StatusAccepted, s.game.Snapshot())
}

func statusFor(err error) int {
	switch apperr.CodeOf(err) {
	case apperr.CodeKickInProgress, apperr.CodeNetworkMismatch:
		return http.StatusConflict
	case apperr.CodePrecondition:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}
