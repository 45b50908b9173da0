package agent

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/convopanel/pkg/api"
)

const (
	contextConversationID = "conversation_id"
	contextTurn           = "turn"
)

// Responder produces the agent's reply segments for one user turn. An empty
// input means the conversation is being opened.
type Responder interface {
	Reply(input string, turn int) []string
}

type ResponderFunc func(input string, turn int) []string

func (f ResponderFunc) Reply(input string, turn int) []string { return f(input, turn) }

// EchoResponder greets on the opening turn and repeats the user afterwards.
var EchoResponder Responder = ResponderFunc(func(input string, turn int) []string {
	if strings.TrimSpace(input) == "" {
		return []string{"Hello.", "How can I help?"}
	}
	return []string{fmt.Sprintf("You said: %s", input)}
})

// Handler serves the message endpoint consumed by api.Api.
type Handler struct {
	responder Responder
}

func New(responder Responder) *Handler {
	if responder == nil {
		responder = EchoResponder
	}
	return &Handler{responder: responder}
}

// RegisterRoutes mounts the handler's routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/message", h.handleMessage)
}

// NewRouter wraps the handler in the standard middleware stack under /api.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(sub chi.Router) {
		h.RegisterRoutes(sub)
	})
	return r
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req api.ChatPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	convCtx := map[string]any{}
	for k, v := range req.Context {
		convCtx[k] = v
	}
	convID, _ := convCtx[contextConversationID].(string)
	if convID == "" {
		convID = uuid.NewString()
		convCtx[contextConversationID] = convID
	}
	turn := 0
	if f, ok := convCtx[contextTurn].(float64); ok {
		turn = int(f)
	}
	turn++
	convCtx[contextTurn] = turn

	input := strings.Join(req.InputText(), " ")
	reply := h.responder.Reply(input, turn)

	resp := api.ChatPayload{
		Input:   req.Input,
		Output:  &api.Message{Text: api.Text(reply)},
		Context: convCtx,
	}

	log.Debug().
		Str("conversation_id", convID).
		Int("turn", turn).
		Int("segments", len(reply)).
		Msg("agent reply")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Warn().Err(err).Msg("could not write agent reply")
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
