// Package transport exposes a chat.Store over HTTP and a websocket event
// stream, and provides a chat.Client that talks to it.
package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"grouptalk/internal/chat"
	"grouptalk/pkg/logging"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const serverSubsystem = "ChatServer"

const (
	apiPrefix    = "/api/v1"
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = (pongTimeout * 9) / 10
)

// Server serves one chat.Store.
type Server struct {
	store    *chat.Store
	router   *mux.Router
	upgrader websocket.Upgrader
}

// NewServer wires the routes for store.
func NewServer(store *chat.Store) *Server {
	s := &Server{
		store:  store,
		router: mux.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix(apiPrefix).Subrouter()
	api.HandleFunc("/me", s.getMe).Methods("GET")
	api.HandleFunc("/unread", s.getUnread).Methods("GET")
	api.HandleFunc("/events", s.streamEvents).Methods("GET")
	api.HandleFunc("/channels", s.listChannels).Methods("GET")
	api.HandleFunc("/channels", s.createChannel).Methods("POST")
	api.HandleFunc("/channels/{url}", s.getChannel).Methods("GET")
	api.HandleFunc("/channels/{url}/messages", s.listMessages).Methods("GET")
	api.HandleFunc("/channels/{url}/messages", s.sendMessage).Methods("POST")
	api.HandleFunc("/channels/{url}/read", s.markAsRead).Methods("POST")
	api.HandleFunc("/channels/{url}/inject", s.injectMessage).Methods("POST")
}

type errorResponse struct {
	Error string `json:"error"`
}

type unreadResponse struct {
	Total int `json:"total"`
}

type sendRequest struct {
	Text string `json:"text"`
}

type injectRequest struct {
	Sender chat.User `json:"sender"`
	Text   string    `json:"text"`
}

type createChannelRequest struct {
	Name        string `json:"name"`
	CustomType  string `json:"custom_type,omitempty"`
	MemberCount int    `json:"member_count"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug(serverSubsystem, "encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, chat.ErrChannelNotFound):
		status = http.StatusNotFound
	case errors.Is(err, chat.ErrEmptyMessage):
		status = http.StatusBadRequest
	case errors.Is(err, chat.ErrClosed):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.CurrentUser())
}

func (s *Server) getUnread(w http.ResponseWriter, r *http.Request) {
	total, err := s.store.TotalUnreadMessageCount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unreadResponse{Total: total})
}

func (s *Server) listChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := s.store.ListChannels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, channels)
}

func (s *Server) createChannel(w http.ResponseWriter, r *http.Request) {
	var req createChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	ch, err := s.store.CreateChannel(req.Name, req.CustomType, req.MemberCount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, ch)
}

func (s *Server) getChannel(w http.ResponseWriter, r *http.Request) {
	ch, err := s.store.GetChannel(r.Context(), mux.Vars(r)["url"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	msgs, err := s.store.ListMessages(r.Context(), mux.Vars(r)["url"], limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	msg, err := s.store.SendMessage(r.Context(), mux.Vars(r)["url"], req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) injectMessage(w http.ResponseWriter, r *http.Request) {
	var req injectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if req.Sender.ID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "sender.id is required"})
		return
	}
	msg, err := s.store.Receive(mux.Vars(r)["url"], req.Sender, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) markAsRead(w http.ResponseWriter, r *http.Request) {
	if err := s.store.MarkAsRead(r.Context(), mux.Vars(r)["url"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// streamEvents upgrades to a websocket and forwards every user event as a
// JSON text frame until the peer goes away.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn(serverSubsystem, "websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events := make(chan chat.Event, chat.DefaultBufferSize)
	gone := make(chan struct{})
	done := make(chan struct{})
	sub, err := s.store.AddUserEventHandler(chat.NewHandlerKey("ws"), func(evt chat.Event) {
		select {
		case events <- evt:
		case <-gone:
		case <-done:
		}
	})
	if err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
			time.Now().Add(writeTimeout))
		return
	}
	logging.Info(serverSubsystem, "event stream %s connected from %s", sub.Key, r.RemoteAddr)

	// Reader: handles pongs and notices the peer closing.
	go func() {
		defer close(gone)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongTimeout))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer func() {
		close(done)
		sub.Cancel()
		logging.Info(serverSubsystem, "event stream %s closed", sub.Key)
	}()

	for {
		select {
		case <-gone:
			return
		case evt := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(evt); err != nil {
				logging.Debug(serverSubsystem, "write event: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
