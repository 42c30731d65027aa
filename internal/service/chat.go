// Package service contains the chat turn pipeline: model selection, message
// normalization, and the orchestration that runs one turn end to end.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/night-shade/polychat/internal/config"
	"github.com/night-shade/polychat/internal/domain"
	"github.com/night-shade/polychat/internal/provider"
	"github.com/night-shade/polychat/internal/registry"
	"github.com/night-shade/polychat/internal/repository"
)

type ChatService struct {
	store      *repository.Store
	registry   *registry.Registry
	selector   *Selector
	normalizer *Normalizer
	mux        *provider.Mux
}

func NewChatService(store *repository.Store, reg *registry.Registry, selector *Selector, normalizer *Normalizer, mux *provider.Mux) *ChatService {
	return &ChatService{
		store:      store,
		registry:   reg,
		selector:   selector,
		normalizer: normalizer,
		mux:        mux,
	}
}

type TurnRequest struct {
	SessionID     string
	Message       string
	Model         string
	AttachmentIDs []string
}

type TurnResult struct {
	Session     *domain.ChatSession
	UserMessage *domain.Message
	Reply       *domain.Message
	Spec        domain.ModelSpec
	Usage       domain.Usage
}

// Run executes one chat turn: replay the conversation plus the new user turn
// through the normalizer for the selected provider, dispatch, and only then
// persist the user message, its attachment links, and the reply. Nothing is
// written on a failed turn, so retries see unchanged state.
func (s *ChatService) Run(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	session, err := s.resolveSession(ctx, req)
	if err != nil {
		return nil, err
	}

	attachments := make([]domain.Attachment, 0, len(req.AttachmentIDs))
	for _, id := range req.AttachmentIDs {
		att, err := s.store.GetAttachment(ctx, id)
		if err != nil {
			return nil, err
		}
		if att.SessionID != session.ID {
			return nil, domain.ErrAttachmentNotFound
		}
		if att.MessageID != nil {
			return nil, domain.ErrAttachmentLinked
		}
		attachments = append(attachments, *att)
	}

	spec, err := s.selector.Select(req.Model, session.ModelProvider, session.ModelVariant, req.Message)
	if err != nil {
		return nil, err
	}

	// Normalize and dispatch against an in-memory candidate history before
	// anything is persisted: a failed turn must not leave an orphan user
	// message behind, and its attachments must stay unbound so the client
	// can retry the identical request.
	stored, err := s.store.ListMessages(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	candidate := append(append([]domain.Message{}, stored...), domain.Message{
		SessionID:     session.ID,
		Role:          domain.RoleUser,
		Content:       req.Message,
		SequenceOrder: nextSequence(stored),
	})

	payload, err := s.normalizer.Normalize(ctx, candidate, attachments, spec.Provider)
	if err != nil {
		return nil, err
	}

	slog.Info("dispatching chat turn",
		"session_id", session.ID,
		"provider", spec.Provider,
		"variant", spec.Variant,
		"turns", payload.Turns(),
		"attachments", len(attachments),
	)

	reply, err := s.mux.Send(ctx, *spec, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	userMsg, err := s.store.AddMessage(ctx, session.ID, domain.RoleUser, req.Message, "", "")
	if err != nil {
		return nil, err
	}
	for _, att := range attachments {
		if err := s.store.LinkAttachment(ctx, att.ID, userMsg.ID); err != nil {
			return nil, err
		}
	}

	replyMsg, err := s.store.AddMessage(ctx, session.ID, domain.RoleModel, reply.Text, spec.Provider, spec.Variant)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetSessionModel(ctx, session.ID, spec.Provider, spec.Variant); err != nil {
		return nil, err
	}
	session.ModelProvider = spec.Provider
	session.ModelVariant = spec.Variant

	return &TurnResult{
		Session:     session,
		UserMessage: userMsg,
		Reply:       replyMsg,
		Spec:        *spec,
		Usage: domain.Usage{
			PromptTokens:     reply.PromptTokens,
			CompletionTokens: reply.CompletionTokens,
			Cost:             s.registry.Cost(*spec, reply.PromptTokens, reply.CompletionTokens),
		},
	}, nil
}

func nextSequence(stored []domain.Message) int64 {
	if len(stored) == 0 {
		return 1
	}
	return stored[len(stored)-1].SequenceOrder + 1
}

func (s *ChatService) resolveSession(ctx context.Context, req TurnRequest) (*domain.ChatSession, error) {
	if req.SessionID != "" {
		return s.store.GetSession(ctx, req.SessionID)
	}
	return s.store.CreateSession(ctx, sessionTitle(req.Message))
}

func sessionTitle(message string) string {
	title := strings.TrimSpace(message)
	if title == "" {
		return "New chat"
	}
	if utf8.RuneCountInString(title) > config.MaxTitleLen {
		runes := []rune(title)
		title = string(runes[:config.MaxTitleLen])
	}
	return title
}
