package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttachmentCategory(t *testing.T) {
	tests := []struct {
		mimeType string
		want     string
	}{
		{"image/png", CategoryImage},
		{"image/jpeg", CategoryImage},
		{"IMAGE/PNG", CategoryImage},
		{"audio/mpeg", CategoryAudio},
		{"video/mp4", CategoryVideo},
		{"text/plain", CategoryDocument},
		{"text/html", CategoryDocument},
		{"application/json", CategoryDocument},
		{"application/pdf", CategoryDocument},
		{"application/msword", CategoryDocument},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", CategoryDocument},
		{"application/zip", CategoryOther},
		{"", CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			att := Attachment{MimeType: tt.mimeType}
			assert.Equal(t, tt.want, att.Category())
		})
	}
}
