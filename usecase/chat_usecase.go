package usecase

import (
	"strings"
	"time"

	jww "github.com/spf13/jwalterweatherman"

	"bazaar-backend/model"
	"bazaar-backend/pkg/apperr"
)

const (
	conversationListCap = 20
	messageFetchDefault = 50
	previewMaxLen       = 100
)

type ConversationRepo interface {
	GetByID(id string) (*model.Conversation, error)
	InsertIfAbsent(c *model.Conversation) error
	ListForUser(userID string, limit int) ([]model.Conversation, error)
	UpdateOnSend(id, lastMessage string, at time.Time, senderID string) error
	MarkRead(id, userID string) error
	DeleteWithMessages(id string) error
}

type MessageRepo interface {
	Insert(m *model.Message) error
	ListByConversation(conversationID string, limit int) ([]model.Message, error)
}

// ChatUsecase owns conversations, their append-only messages, the
// read/unread bookkeeping, and the live message subscription.
type ChatUsecase struct {
	convs ConversationRepo
	msgs  MessageRepo
	subs  *subscriberHub
}

func NewChatUsecase(convs ConversationRepo, msgs MessageRepo) *ChatUsecase {
	return &ChatUsecase{convs: convs, msgs: msgs, subs: newSubscriberHub()}
}

func (u *ChatUsecase) GetConversation(id string) (*model.Conversation, error) {
	c, err := u.convs.GetByID(id)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Failed to fetch conversation. Please try again.", err)
	}
	return c, nil
}

// GetOrCreate finds the conversation for {canonical pair, listing} or
// creates it with an empty preview and unread-by set. The id is derived
// from the pair and listing, so the create is an idempotent conditional
// insert rather than a racy check-then-insert.
func (u *ChatUsecase) GetOrCreate(buyerID, sellerID, listingID, listingTitle string) (*model.Conversation, error) {
	lo, hi := model.SortPair(buyerID, sellerID)
	now := time.Now().UTC()
	fresh := &model.Conversation{
		ID:              model.ConversationID(buyerID, sellerID, listingID),
		Participants:    []string{lo, hi},
		ListingID:       listingID,
		ListingTitle:    listingTitle,
		LastMessage:     "",
		LastMessageTime: now,
		UnreadBy:        []string{},
		CreatedAt:       now,
	}
	if err := u.convs.InsertIfAbsent(fresh); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Failed to start conversation. Please try again.", err)
	}

	c, err := u.convs.GetByID(fresh.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Failed to start conversation. Please try again.", err)
	}
	if c == nil {
		return fresh, nil
	}
	return c, nil
}

// Send appends a message, then updates the parent conversation's preview,
// activity timestamp and unread-by set (participants minus sender, taken
// from the stored row, never from caller input). Subscribers are notified
// after the write lands.
func (u *ChatUsecase) Send(conversationID, senderID, text string) (*model.Message, error) {
	conv, err := u.GetConversation(conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, apperr.New(apperr.CodeNotFound, "Conversation not found.")
	}

	msg := &model.Message{
		ID:             newID(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           strings.TrimSpace(text),
		CreatedAt:      time.Now().UTC(),
	}
	if err := u.msgs.Insert(msg); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Failed to send message. Please try again.", err)
	}

	if err := u.convs.UpdateOnSend(conversationID, truncate(msg.Text, previewMaxLen), msg.CreatedAt, senderID); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Failed to send message. Please try again.", err)
	}

	u.notify(conversationID)
	return msg, nil
}

// MarkRead removes the participant from the conversation's unread-by set.
// Failure is deliberately invisible to the caller: a lost read receipt
// must never block the UI, so errors are only logged. No other operation
// in the system swallows errors like this.
func (u *ChatUsecase) MarkRead(conversationID, userID string) {
	if err := u.convs.MarkRead(conversationID, userID); err != nil {
		jww.WARN.Printf("chat: mark read %s for %s: %v", conversationID, userID, err)
	}
}

// ListForUser returns the user's conversations ordered by most recent
// activity, capped at 20, no cursor.
func (u *ChatUsecase) ListForUser(userID string) ([]model.Conversation, error) {
	convs, err := u.convs.ListForUser(userID, conversationListCap)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Failed to fetch conversations. Please try again.", err)
	}
	return convs, nil
}

// GetMessages is the one-time fetch; the subscription is preferred for
// anything on screen.
func (u *ChatUsecase) GetMessages(conversationID string, max int) ([]model.Message, error) {
	if max <= 0 {
		max = messageFetchDefault
	}
	msgs, err := u.msgs.ListByConversation(conversationID, max)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Failed to fetch messages. Please try again.", err)
	}
	return msgs, nil
}

// Delete removes the conversation and all its messages atomically. Either
// participant may delete.
func (u *ChatUsecase) Delete(conversationID, callerID string) error {
	conv, err := u.GetConversation(conversationID)
	if err != nil {
		return err
	}
	if conv == nil {
		return apperr.New(apperr.CodeNotFound, "Conversation not found.")
	}
	if conv.Participants[0] != callerID && conv.Participants[1] != callerID {
		return apperr.New(apperr.CodePermissionDenied, "You do not have permission to delete this conversation.")
	}
	if err := u.convs.DeleteWithMessages(conversationID); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "Failed to delete conversation. Please try again.", err)
	}
	return nil
}

// SubscribeToMessages delivers the full ordered message list now and
// again on every append, until the returned handle is invoked. A refresh
// failure delivers an empty list instead of an error; the cause is logged
// for operators. Callers that do not cancel leak the subscription.
func (u *ChatUsecase) SubscribeToMessages(conversationID string, onUpdate func([]model.Message)) func() {
	unsubscribe := u.subs.add(conversationID, onUpdate)
	onUpdate(u.snapshot(conversationID))
	return unsubscribe
}

func (u *ChatUsecase) notify(conversationID string) {
	callbacks := u.subs.callbacks(conversationID)
	if len(callbacks) == 0 {
		return
	}
	snap := u.snapshot(conversationID)
	for _, fn := range callbacks {
		fn(snap)
	}
}

func (u *ChatUsecase) snapshot(conversationID string) []model.Message {
	msgs, err := u.msgs.ListByConversation(conversationID, 0)
	if err != nil {
		jww.WARN.Printf("chat: refresh messages %s: %v", conversationID, err)
		return []model.Message{}
	}
	if msgs == nil {
		return []model.Message{}
	}
	return msgs
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
