package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"bazaar-backend/model"
	"bazaar-backend/pkg/apperr"
	"bazaar-backend/usecase"
)

const wsWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type ChatController struct {
	usecase *usecase.ChatUsecase
	auth    *usecase.AuthUsecase
}

func NewChatController(u *usecase.ChatUsecase, auth *usecase.AuthUsecase) *ChatController {
	return &ChatController{usecase: u, auth: auth}
}

// HandleConversations handles /conversations: GET the caller's list,
// POST find-or-create against a listing's seller.
func (c *ChatController) HandleConversations(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}

	callerID, _, err := caller(c.auth, r)
	if err != nil {
		writeError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		convs, err := c.usecase.ListForUser(callerID)
		if err != nil {
			writeError(w, err)
			return
		}
		if convs == nil {
			convs = []model.Conversation{}
		}
		writeJSON(w, http.StatusOK, convs)

	case http.MethodPost:
		var req struct {
			SellerID     string `json:"sellerId"`
			ListingID    string `json:"listingId"`
			ListingTitle string `json:"listingTitle"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.New(apperr.CodeInvalidArgument, "Invalid request body."))
			return
		}
		if req.SellerID == "" || req.ListingID == "" {
			writeError(w, apperr.New(apperr.CodeInvalidArgument, "Seller and listing are required."))
			return
		}
		conv, err := c.usecase.GetOrCreate(callerID, req.SellerID, req.ListingID, req.ListingTitle)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, conv)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleConversationDetail handles /conversations/{id} and its
// sub-resources: messages (GET, POST), read (POST), stream (GET, ws).
func (c *ChatController) HandleConversationDetail(w http.ResponseWriter, r *http.Request) {
	convID := pathSegment(r, 1)
	if convID == "" {
		http.Error(w, "Invalid URL", http.StatusBadRequest)
		return
	}

	// The websocket upgrade must not see CORS/preflight writes.
	if pathSegment(r, 2) == "stream" {
		c.handleStream(w, r, convID)
		return
	}

	if preflight(w, r) {
		return
	}

	callerID, _, err := caller(c.auth, r)
	if err != nil {
		writeError(w, err)
		return
	}

	switch pathSegment(r, 2) {
	case "messages":
		c.handleMessages(w, r, convID, callerID)
	case "read":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		// Read receipts never fail the caller.
		c.usecase.MarkRead(convID, callerID)
		w.WriteHeader(http.StatusNoContent)
	case "":
		switch r.Method {
		case http.MethodGet:
			conv, err := c.usecase.GetConversation(convID)
			if err != nil {
				writeError(w, err)
				return
			}
			if conv == nil {
				writeError(w, apperr.New(apperr.CodeNotFound, "Conversation not found."))
				return
			}
			writeJSON(w, http.StatusOK, conv)
		case http.MethodDelete:
			if err := c.usecase.Delete(convID, callerID); err != nil {
				writeError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	default:
		http.Error(w, "Invalid URL", http.StatusBadRequest)
	}
}

func (c *ChatController) handleMessages(w http.ResponseWriter, r *http.Request, convID, callerID string) {
	switch r.Method {
	case http.MethodGet:
		msgs, err := c.usecase.GetMessages(convID, 0)
		if err != nil {
			writeError(w, err)
			return
		}
		if msgs == nil {
			msgs = []model.Message{}
		}
		writeJSON(w, http.StatusOK, msgs)

	case http.MethodPost:
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.New(apperr.CodeInvalidArgument, "Invalid request body."))
			return
		}
		msg, err := c.usecase.Send(convID, callerID, req.Text)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleStream upgrades to a websocket and pushes the full ordered
// message list on every change until the client goes away. The
// subscription is released on disconnect so it cannot leak past the
// socket's lifetime.
func (c *ChatController) handleStream(w http.ResponseWriter, r *http.Request, convID string) {
	if _, _, err := caller(c.auth, r); err != nil {
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	updates := make(chan []model.Message, 1)
	unsubscribe := c.usecase.SubscribeToMessages(convID, func(msgs []model.Message) {
		// Every update carries the full list; if the client is slow,
		// replace the pending snapshot with the newer one.
		for {
			select {
			case updates <- msgs:
				return
			default:
				select {
				case <-updates:
				default:
				}
			}
		}
	})
	defer unsubscribe()
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msgs := <-updates:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(msgs); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
