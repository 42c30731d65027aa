package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/night-shade/polychat/internal/config"
	"github.com/night-shade/polychat/internal/domain"
	"github.com/night-shade/polychat/internal/extract"
	"github.com/night-shade/polychat/internal/provider"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(extract.New(time.Second), config.MaxInlineAttachmentBytes)
}

func conversation(contents ...string) []domain.Message {
	msgs := make([]domain.Message, len(contents))
	for i, c := range contents {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleModel
		}
		msgs[i] = domain.Message{
			ID:            int64(i + 1),
			SessionID:     "s1",
			Role:          role,
			Content:       c,
			SequenceOrder: int64(i + 1),
		}
	}
	return msgs
}

func writeAttachment(t *testing.T, name, mimeType string, data []byte) domain.Attachment {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return domain.Attachment{
		ID:            "att-" + name,
		SessionID:     "s1",
		FileName:      name,
		MimeType:      mimeType,
		FileSizeBytes: int64(len(data)),
		FilePath:      path,
	}
}

func TestNormalize_PreservesOrderAndCount(t *testing.T) {
	n := newTestNormalizer()
	msgs := conversation("one", "two", "three", "four", "five")

	for _, providerName := range []string{domain.ProviderGemini, domain.ProviderGPT, domain.ProviderClaude} {
		t.Run(providerName, func(t *testing.T) {
			payload, err := n.Normalize(context.Background(), msgs, nil, providerName)
			require.NoError(t, err)
			require.Equal(t, len(msgs), payload.Turns())

			switch p := payload.(type) {
			case *provider.GeminiPayload:
				for i, turn := range p.Contents {
					assert.Equal(t, msgs[i].Content, turn.Parts[0].Text)
				}
				assert.Equal(t, "user", p.Contents[0].Role)
				assert.Equal(t, "model", p.Contents[1].Role)
			case *provider.OpenAIPayload:
				for i, turn := range p.Messages {
					assert.Equal(t, msgs[i].Content, turn.Content[0].Text)
				}
				assert.Equal(t, "user", p.Messages[0].Role)
				assert.Equal(t, "assistant", p.Messages[1].Role)
			case *provider.ClaudePayload:
				for i, turn := range p.Messages {
					assert.Equal(t, msgs[i].Content, turn.Content[0].Text)
				}
				assert.Equal(t, "user", p.Messages[0].Role)
				assert.Equal(t, "assistant", p.Messages[1].Role)
			default:
				t.Fatalf("unexpected payload type %T", payload)
			}
		})
	}
}

func TestNormalize_OnlyAnchorReceivesAttachments(t *testing.T) {
	n := newTestNormalizer()
	msgs := conversation("first question", "first answer", "second question")
	att := writeAttachment(t, "img.png", "image/png", []byte{0x89, 'P', 'N', 'G'})

	payload, err := n.Normalize(context.Background(), msgs, []domain.Attachment{att}, domain.ProviderGemini)
	require.NoError(t, err)

	p := payload.(*provider.GeminiPayload)
	require.Len(t, p.Contents, 3)
	assert.Len(t, p.Contents[0].Parts, 1)
	assert.Len(t, p.Contents[1].Parts, 1)
	assert.Len(t, p.Contents[2].Parts, 2)
}

func TestNormalize_GeminiImageRoundTrip(t *testing.T) {
	n := newTestNormalizer()
	imgBytes := make([]byte, 1024)
	for i := range imgBytes {
		imgBytes[i] = byte(i)
	}
	att := writeAttachment(t, "img.png", "image/png", imgBytes)
	msgs := conversation("hi", "hello", "see this")

	payload, err := n.Normalize(context.Background(), msgs, []domain.Attachment{att}, domain.ProviderGemini)
	require.NoError(t, err)

	p := payload.(*provider.GeminiPayload)
	require.Len(t, p.Contents, 3)

	anchor := p.Contents[2]
	require.Len(t, anchor.Parts, 2)
	assert.Equal(t, "see this", anchor.Parts[0].Text)
	require.NotNil(t, anchor.Parts[1].InlineData)
	assert.Equal(t, "image/png", anchor.Parts[1].InlineData.MimeType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(imgBytes), anchor.Parts[1].InlineData.Data)
}

func TestNormalize_OpenAIImageAsDataURL(t *testing.T) {
	n := newTestNormalizer()
	att := writeAttachment(t, "photo.jpg", "image/jpeg", []byte("jpegdata"))
	msgs := conversation("look")

	payload, err := n.Normalize(context.Background(), msgs, []domain.Attachment{att}, domain.ProviderGPT)
	require.NoError(t, err)

	p := payload.(*provider.OpenAIPayload)
	anchor := p.Messages[0]
	require.Len(t, anchor.Content, 2)
	assert.Equal(t, "image_url", anchor.Content[1].Type)
	require.NotNil(t, anchor.Content[1].ImageURL)
	expected := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpegdata"))
	assert.Equal(t, expected, anchor.Content[1].ImageURL.URL)
}

func TestNormalize_ClaudeImageBlock(t *testing.T) {
	n := newTestNormalizer()
	att := writeAttachment(t, "photo.webp", "image/webp", []byte("webpdata"))
	msgs := conversation("look")

	payload, err := n.Normalize(context.Background(), msgs, []domain.Attachment{att}, domain.ProviderClaude)
	require.NoError(t, err)

	p := payload.(*provider.ClaudePayload)
	anchor := p.Messages[0]
	require.Len(t, anchor.Content, 2)
	assert.Equal(t, "image", anchor.Content[1].Type)
	require.NotNil(t, anchor.Content[1].Source)
	assert.Equal(t, "base64", anchor.Content[1].Source.Type)
	assert.Equal(t, "image/webp", anchor.Content[1].Source.MediaType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("webpdata")), anchor.Content[1].Source.Data)
}

func TestNormalize_OpenAIJSONDocumentExtracted(t *testing.T) {
	n := newTestNormalizer()
	jsonBody := `{"key": "value"}`
	att := writeAttachment(t, "data.json", "application/json", []byte(jsonBody))
	msgs := conversation("hi", "hello", "see this")

	payload, err := n.Normalize(context.Background(), msgs, []domain.Attachment{att}, domain.ProviderGPT)
	require.NoError(t, err)

	p := payload.(*provider.OpenAIPayload)
	anchor := p.Messages[2]
	require.Len(t, anchor.Content, 2)
	assert.Equal(t, "see this", anchor.Content[0].Text)
	assert.Equal(t, "text", anchor.Content[1].Type)
	assert.Contains(t, anchor.Content[1].Text, "[document: data.json]")
	assert.Contains(t, anchor.Content[1].Text, jsonBody)
	assert.Contains(t, anchor.Content[1].Text, "[/document]")
}

func TestNormalize_GeminiJSONDeclaredAsPlainText(t *testing.T) {
	n := newTestNormalizer()
	jsonBody := `{"key": "value"}`
	att := writeAttachment(t, "data.json", "application/json", []byte(jsonBody))
	msgs := conversation("see this")

	payload, err := n.Normalize(context.Background(), msgs, []domain.Attachment{att}, domain.ProviderGemini)
	require.NoError(t, err)

	p := payload.(*provider.GeminiPayload)
	anchor := p.Contents[0]
	require.Len(t, anchor.Parts, 2)
	require.NotNil(t, anchor.Parts[1].InlineData)
	assert.Equal(t, "text/plain", anchor.Parts[1].InlineData.MimeType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte(jsonBody)), anchor.Parts[1].InlineData.Data)
}

func TestNormalize_OversizeAttachmentIsFatal(t *testing.T) {
	n := newTestNormalizer()
	att := writeAttachment(t, "huge.png", "image/png", []byte("tiny"))
	att.FileSizeBytes = 20*1024*1024 + 1
	msgs := conversation("see this")

	for _, providerName := range []string{domain.ProviderGemini, domain.ProviderGPT, domain.ProviderClaude} {
		payload, err := n.Normalize(context.Background(), msgs, []domain.Attachment{att}, providerName)
		require.Error(t, err)
		assert.Nil(t, payload)

		var tooLarge *domain.AttachmentTooLargeError
		require.ErrorAs(t, err, &tooLarge)
		assert.Equal(t, "huge.png", tooLarge.FileName)
		assert.Equal(t, int64(20*1024*1024+1), tooLarge.SizeBytes)
	}
}

func TestNormalize_MissingFileIsFatal(t *testing.T) {
	n := newTestNormalizer()
	att := domain.Attachment{
		ID:            "gone",
		FileName:      "gone.png",
		MimeType:      "image/png",
		FileSizeBytes: 100,
		FilePath:      filepath.Join(t.TempDir(), "does-not-exist.png"),
	}
	msgs := conversation("see this")

	payload, err := n.Normalize(context.Background(), msgs, []domain.Attachment{att}, domain.ProviderGPT)
	require.Error(t, err)
	assert.Nil(t, payload)

	var unreadable *domain.AttachmentUnreadableError
	require.ErrorAs(t, err, &unreadable)
	assert.Equal(t, "gone.png", unreadable.FileName)
}

func TestNormalize_UnextractableDocumentDegradesToPlaceholder(t *testing.T) {
	n := newTestNormalizer()
	att := writeAttachment(t, "report.pdf", "application/pdf", []byte("%PDF-1.4 binary"))
	msgs := conversation("summarize this")

	payload, err := n.Normalize(context.Background(), msgs, []domain.Attachment{att}, domain.ProviderGPT)
	require.NoError(t, err)

	p := payload.(*provider.OpenAIPayload)
	anchor := p.Messages[0]
	require.Len(t, anchor.Content, 2)
	text := anchor.Content[1].Text
	assert.Contains(t, text, "report.pdf")
	assert.Contains(t, text, "document")
	assert.Contains(t, text, fmt.Sprintf("%d B", att.FileSizeBytes))
	assert.NotContains(t, text, "undefined")
}

func TestNormalize_OtherCategoryAlwaysPlaceholder(t *testing.T) {
	n := newTestNormalizer()
	att := writeAttachment(t, "track.mp3", "audio/mpeg", []byte("audio"))
	msgs := conversation("listen")

	payload, err := n.Normalize(context.Background(), msgs, []domain.Attachment{att}, domain.ProviderClaude)
	require.NoError(t, err)

	p := payload.(*provider.ClaudePayload)
	anchor := p.Messages[0]
	require.Len(t, anchor.Content, 2)
	assert.Equal(t, "text", anchor.Content[1].Type)
	assert.Contains(t, anchor.Content[1].Text, "track.mp3")
	assert.Contains(t, anchor.Content[1].Text, "audio")
}

func TestNormalize_AttachmentOrderStable(t *testing.T) {
	n := newTestNormalizer()
	atts := make([]domain.Attachment, 6)
	for i := range atts {
		atts[i] = writeAttachment(t, fmt.Sprintf("img-%d.png", i), "image/png", []byte{byte(i)})
	}
	msgs := conversation("all of these")

	payload, err := n.Normalize(context.Background(), msgs, atts, domain.ProviderGemini)
	require.NoError(t, err)

	p := payload.(*provider.GeminiPayload)
	anchor := p.Contents[0]
	require.Len(t, anchor.Parts, 1+len(atts))
	for i := range atts {
		part := anchor.Parts[i+1]
		require.NotNil(t, part.InlineData)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{byte(i)}), part.InlineData.Data)
	}
}

func TestNormalize_UnknownProvider(t *testing.T) {
	n := newTestNormalizer()

	payload, err := n.Normalize(context.Background(), conversation("hi"), nil, "mistral")
	require.Error(t, err)
	assert.Nil(t, payload)

	var unsupported *domain.UnsupportedModelError
	assert.ErrorAs(t, err, &unsupported)
}
