package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/night-shade/polychat/internal/domain"
	"github.com/night-shade/polychat/internal/extract"
	"github.com/night-shade/polychat/internal/provider"
)

// Normalizer reshapes a stored conversation, plus the attachments of the turn
// being answered, into one provider's request payload. Pure transformation:
// the only I/O is reading attachment files and running text extraction, both
// confined to the anchor turn.
type Normalizer struct {
	extractor *extract.Extractor
	maxInline int64
}

func NewNormalizer(extractor *extract.Extractor, maxInlineBytes int64) *Normalizer {
	return &Normalizer{extractor: extractor, maxInline: maxInlineBytes}
}

// attachmentPart is the provider-independent form of one prepared attachment.
type attachmentPart struct {
	// exactly one of inline/text is set
	inline   bool
	mimeType string
	data     string // base64
	text     string
}

// Normalize builds the request payload for providerName from messages in
// their stored order. Only the last user-role message (the anchor) carries
// attachment content; every other turn is text only. Messages are never
// reordered, dropped, or merged.
//
// Size violations and unreadable files abort the whole call with a typed
// error; failed text extraction degrades to a placeholder part.
func (n *Normalizer) Normalize(ctx context.Context, messages []domain.Message, attachments []domain.Attachment, providerName string) (provider.Payload, error) {
	anchor := -1
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			anchor = i
			break
		}
	}

	var parts []attachmentPart
	if anchor >= 0 && len(attachments) > 0 {
		prepared, err := n.prepareAll(ctx, attachments, providerName)
		if err != nil {
			return nil, err
		}
		parts = prepared
	}

	switch providerName {
	case domain.ProviderGemini:
		return buildGemini(messages, anchor, parts), nil
	case domain.ProviderGPT:
		return buildOpenAI(messages, anchor, parts), nil
	case domain.ProviderClaude:
		return buildClaude(messages, anchor, parts), nil
	default:
		return nil, &domain.UnsupportedModelError{Identifier: providerName}
	}
}

// prepareAll resolves every attachment concurrently. Results land at the
// attachment's own index so output order matches input order regardless of
// completion order.
func (n *Normalizer) prepareAll(ctx context.Context, attachments []domain.Attachment, providerName string) ([]attachmentPart, error) {
	parts := make([]attachmentPart, len(attachments))
	g, gctx := errgroup.WithContext(ctx)
	for i, att := range attachments {
		g.Go(func() error {
			p, err := n.prepare(gctx, att, providerName)
			if err != nil {
				return err
			}
			parts[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parts, nil
}

func (n *Normalizer) prepare(ctx context.Context, att domain.Attachment, providerName string) (attachmentPart, error) {
	if att.FileSizeBytes > n.maxInline {
		return attachmentPart{}, &domain.AttachmentTooLargeError{
			FileName:  att.FileName,
			SizeBytes: att.FileSizeBytes,
			Limit:     n.maxInline,
		}
	}

	switch att.Category() {
	case domain.CategoryImage:
		data, err := os.ReadFile(att.FilePath)
		if err != nil {
			return attachmentPart{}, &domain.AttachmentUnreadableError{FileName: att.FileName, Path: att.FilePath, Err: err}
		}
		return attachmentPart{
			inline:   true,
			mimeType: att.MimeType,
			data:     base64.StdEncoding.EncodeToString(data),
		}, nil

	case domain.CategoryDocument:
		// A document whose file vanished is a hard error; a document whose
		// content cannot be extracted is only degraded.
		if _, err := os.Stat(att.FilePath); err != nil {
			return attachmentPart{}, &domain.AttachmentUnreadableError{FileName: att.FileName, Path: att.FilePath, Err: err}
		}
		if providerName == domain.ProviderGemini && inlineableDocument(att.MimeType) {
			return n.inlineDocument(att)
		}
		if text, ok := n.extractor.Extract(ctx, att.FilePath, att.MimeType); ok {
			return attachmentPart{
				text: fmt.Sprintf("[document: %s]\n%s\n[/document]", att.FileName, text),
			}, nil
		}
		return attachmentPart{text: placeholder(att)}, nil

	default:
		return attachmentPart{text: placeholder(att)}, nil
	}
}

// inlineDocument ships the raw document bytes as inline data. Gemini rejects
// application/json as an inline mime type, so JSON is declared text/plain.
func (n *Normalizer) inlineDocument(att domain.Attachment) (attachmentPart, error) {
	data, err := os.ReadFile(att.FilePath)
	if err != nil {
		return attachmentPart{}, &domain.AttachmentUnreadableError{FileName: att.FileName, Path: att.FilePath, Err: err}
	}
	mime := strings.ToLower(att.MimeType)
	if mime == "application/json" {
		mime = "text/plain"
	}
	return attachmentPart{
		inline:   true,
		mimeType: mime,
		data:     base64.StdEncoding.EncodeToString(data),
	}, nil
}

// inlineableDocument reports whether the raw bytes are acceptable to Gemini's
// inline-data endpoint without extraction.
func inlineableDocument(mimeType string) bool {
	mime := strings.ToLower(mimeType)
	return strings.HasPrefix(mime, "text/") || mime == "application/json" || mime == "application/pdf"
}

func placeholder(att domain.Attachment) string {
	return fmt.Sprintf("[attached file: %s (%s, %s) - content not included]",
		att.FileName, att.Category(), humanSize(att.FileSizeBytes))
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func buildGemini(messages []domain.Message, anchor int, parts []attachmentPart) *provider.GeminiPayload {
	contents := make([]provider.GeminiTurn, 0, len(messages))
	for i, m := range messages {
		role := "user"
		if m.Role == domain.RoleModel {
			role = "model"
		}
		turn := provider.GeminiTurn{Role: role, Parts: []provider.GeminiPart{{Text: m.Content}}}
		if i == anchor {
			for _, p := range parts {
				if p.inline {
					turn.Parts = append(turn.Parts, provider.GeminiPart{
						InlineData: &provider.GeminiInlineData{MimeType: p.mimeType, Data: p.data},
					})
				} else {
					turn.Parts = append(turn.Parts, provider.GeminiPart{Text: p.text})
				}
			}
		}
		contents = append(contents, turn)
	}
	return &provider.GeminiPayload{Contents: contents}
}

func buildOpenAI(messages []domain.Message, anchor int, parts []attachmentPart) *provider.OpenAIPayload {
	turns := make([]provider.OpenAITurn, 0, len(messages))
	for i, m := range messages {
		role := "user"
		if m.Role == domain.RoleModel {
			role = "assistant"
		}
		turn := provider.OpenAITurn{Role: role, Content: []provider.OpenAIContent{{Type: "text", Text: m.Content}}}
		if i == anchor {
			for _, p := range parts {
				if p.inline {
					turn.Content = append(turn.Content, provider.OpenAIContent{
						Type:     "image_url",
						ImageURL: &provider.OpenAIImageURL{URL: fmt.Sprintf("data:%s;base64,%s", p.mimeType, p.data)},
					})
				} else {
					turn.Content = append(turn.Content, provider.OpenAIContent{Type: "text", Text: p.text})
				}
			}
		}
		turns = append(turns, turn)
	}
	return &provider.OpenAIPayload{Messages: turns}
}

func buildClaude(messages []domain.Message, anchor int, parts []attachmentPart) *provider.ClaudePayload {
	turns := make([]provider.ClaudeTurn, 0, len(messages))
	for i, m := range messages {
		role := "user"
		if m.Role == domain.RoleModel {
			role = "assistant"
		}
		turn := provider.ClaudeTurn{Role: role, Content: []provider.ClaudeBlock{{Type: "text", Text: m.Content}}}
		if i == anchor {
			for _, p := range parts {
				if p.inline {
					turn.Content = append(turn.Content, provider.ClaudeBlock{
						Type:   "image",
						Source: &provider.ClaudeImageSource{Type: "base64", MediaType: p.mimeType, Data: p.data},
					})
				} else {
					turn.Content = append(turn.Content, provider.ClaudeBlock{Type: "text", Text: p.text})
				}
			}
		}
		turns = append(turns, turn)
	}
	return &provider.ClaudePayload{Messages: turns}
}
