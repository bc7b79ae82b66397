package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/filmatch/filmatch-backend/internal/chat"
	pkgerrors "github.com/filmatch/filmatch-backend/pkg/errors"
	"github.com/filmatch/filmatch-backend/pkg/pagination"
)

type stubChatSvc struct {
	message  chat.MessageDTO
	messages []chat.MessageDTO
	next     string
	err      error
	gotMatch uuid.UUID
	gotBody  string
}

func (s *stubChatSvc) SendMessage(ctx context.Context, matchID, senderID uuid.UUID, body string) (chat.MessageDTO, error) {
	s.gotMatch = matchID
	s.gotBody = body
	return s.message, s.err
}

func (s *stubChatSvc) ListMessages(ctx context.Context, matchID, userID uuid.UUID, params pagination.Params) ([]chat.MessageDTO, string, error) {
	s.gotMatch = matchID
	return s.messages, s.next, s.err
}

func chatRequest(method, target string, matchID string, body []byte) *http.Request {
	req := authedRequest(method, target, body)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("matchID", matchID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestChatSendForwardsMessage(t *testing.T) {
	matchID := uuid.New()
	svc := &stubChatSvc{message: chat.MessageDTO{ID: uuid.New(), MatchID: matchID, Body: "hey"}}
	handler := ChatSend(svc, nil)

	req := chatRequest(http.MethodPost, "/api/v1/matches/"+matchID.String()+"/messages", matchID.String(), []byte(`{"body":"hey"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.gotMatch != matchID || svc.gotBody != "hey" {
		t.Fatalf("expected message forwarded got match=%s body=%q", svc.gotMatch, svc.gotBody)
	}
}

func TestChatSendRejectsInvalidMatchID(t *testing.T) {
	handler := ChatSend(&stubChatSvc{}, nil)
	req := chatRequest(http.MethodPost, "/api/v1/matches/not-a-uuid/messages", "not-a-uuid", []byte(`{"body":"hey"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid match id got %d", resp.Code)
	}
}

func TestChatSendRejectsEmptyBody(t *testing.T) {
	handler := ChatSend(&stubChatSvc{}, nil)
	matchID := uuid.NewString()
	req := chatRequest(http.MethodPost, "/api/v1/matches/"+matchID+"/messages", matchID, []byte(`{}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body got %d", resp.Code)
	}
}

func TestChatSendSurfacesForbidden(t *testing.T) {
	svc := &stubChatSvc{err: pkgerrors.New(pkgerrors.CodeForbidden, "not a participant in this match")}
	handler := ChatSend(svc, nil)
	matchID := uuid.NewString()
	req := chatRequest(http.MethodPost, "/api/v1/matches/"+matchID+"/messages", matchID, []byte(`{"body":"hey"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestChatListReturnsPage(t *testing.T) {
	matchID := uuid.New()
	svc := &stubChatSvc{
		messages: []chat.MessageDTO{{ID: uuid.New(), MatchID: matchID, Body: "newest"}},
		next:     "older-cursor",
	}
	handler := ChatList(svc, nil)

	req := chatRequest(http.MethodGet, "/api/v1/matches/"+matchID.String()+"/messages?limit=1", matchID.String(), nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data struct {
			Messages   []chat.MessageDTO `json:"messages"`
			NextCursor string            `json:"next_cursor"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Messages) != 1 || envelope.Data.NextCursor != "older-cursor" {
		t.Fatalf("expected page with cursor got %+v", envelope.Data)
	}
}
