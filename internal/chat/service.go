package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmatch/filmatch-backend/pkg/db/models"
	pkgerrors "github.com/filmatch/filmatch-backend/pkg/errors"
	"github.com/filmatch/filmatch-backend/pkg/logger"
	"github.com/filmatch/filmatch-backend/pkg/metrics"
	"github.com/filmatch/filmatch-backend/pkg/pagination"
)

const maxMessageLength = 2000

// MessageDTO is the API projection of one chat message.
type MessageDTO struct {
	ID        uuid.UUID `json:"id"`
	MatchID   uuid.UUID `json:"match_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Service handles messaging inside a match.
type Service interface {
	SendMessage(ctx context.Context, matchID, senderID uuid.UUID, body string) (MessageDTO, error)
	ListMessages(ctx context.Context, matchID, userID uuid.UUID, params pagination.Params) ([]MessageDTO, string, error)
}

type messageStore interface {
	CreateMessage(ctx context.Context, message *models.ChatMessage) error
	ListMessages(ctx context.Context, matchID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.ChatMessage, error)
}

type matchStore interface {
	GetMatch(ctx context.Context, matchID uuid.UUID) (*models.Match, error)
}

type publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
	ChatChannel(matchID string) string
}

type service struct {
	messages messageStore
	matches  matchStore
	pub      publisher
	metrics  *metrics.AppMetrics
	logg     *logger.Logger
}

// ServiceParams groups dependencies for the chat service.
type ServiceParams struct {
	Messages  messageStore
	Matches   matchStore
	Publisher publisher
	Metrics   *metrics.AppMetrics
	Logger    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Messages == nil {
		return nil, fmt.Errorf("message store is required")
	}
	if params.Matches == nil {
		return nil, fmt.Errorf("match store is required")
	}
	if params.Publisher == nil {
		return nil, fmt.Errorf("publisher is required")
	}
	return &service{
		messages: params.Messages,
		matches:  params.Matches,
		pub:      params.Publisher,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

// SendMessage persists the message and fans it out on the match's pub/sub
// channel. Fanout is best effort: listeners reload from the store, so a failed
// publish never fails the send.
func (s *service) SendMessage(ctx context.Context, matchID, senderID uuid.UUID, body string) (MessageDTO, error) {
	if senderID == uuid.Nil {
		return MessageDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return MessageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}
	if len(body) > maxMessageLength {
		return MessageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("message exceeds %d characters", maxMessageLength))
	}

	if err := s.authorize(ctx, matchID, senderID); err != nil {
		return MessageDTO{}, err
	}

	message := models.ChatMessage{
		ID:        uuid.New(),
		MatchID:   matchID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messages.CreateMessage(ctx, &message); err != nil {
		return MessageDTO{}, pkgerrors.Persistence(pkgerrors.StageWrite, err, "save message")
	}
	s.metrics.IncChatMessage()

	dto := fromModel(message)
	if err := s.pub.Publish(ctx, s.pub.ChatChannel(matchID.String()), dto); err != nil && s.logg != nil {
		warnCtx := s.logg.WithMatchID(ctx, matchID.String())
		s.logg.Warn(s.logg.WithField(warnCtx, "error", err.Error()), "chat fanout failed")
	}
	return dto, nil
}

func (s *service) ListMessages(ctx context.Context, matchID, userID uuid.UUID, params pagination.Params) ([]MessageDTO, string, error) {
	if userID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	if err := s.authorize(ctx, matchID, userID); err != nil {
		return nil, "", err
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.messages.ListMessages(ctx, matchID, pagination.LimitWithBuffer(limit), cursor)
	if err != nil {
		return nil, "", pkgerrors.Persistence(pkgerrors.StageRead, err, "list messages")
	}

	page, next := pagination.TrimPage(rows, limit, func(message models.ChatMessage) pagination.Cursor {
		return pagination.Cursor{CreatedAt: message.CreatedAt, ID: message.ID}
	})

	out := make([]MessageDTO, 0, len(page))
	for _, message := range page {
		out = append(out, fromModel(message))
	}
	return out, next, nil
}

func (s *service) authorize(ctx context.Context, matchID, userID uuid.UUID) error {
	if matchID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "match id is required")
	}

	match, err := s.matches.GetMatch(ctx, matchID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, "match not found")
	case err != nil:
		return pkgerrors.Persistence(pkgerrors.StageRead, err, "load match")
	}

	if match.UserAID != userID && match.UserBID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not a participant in this match")
	}
	return nil
}

func fromModel(message models.ChatMessage) MessageDTO {
	return MessageDTO{
		ID:        message.ID,
		MatchID:   message.MatchID,
		SenderID:  message.SenderID,
		Body:      message.Body,
		CreatedAt: message.CreatedAt,
	}
}
