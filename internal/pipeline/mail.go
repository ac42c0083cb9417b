package pipeline

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jhillyerd/enmime"
)

// InputFromEmail takes the first .pdf and the first .xlsx attachment of a raw
// RFC 822 message as the upload pair.
func InputFromEmail(raw []byte) (Input, string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return Input{}, "", fmt.Errorf("read email: %w", err)
	}

	in := Input{}
	parts := append(append([]*enmime.Part{}, env.Attachments...), env.Inlines...)
	for _, att := range parts {
		lower := strings.ToLower(strings.TrimSpace(att.FileName))
		switch {
		case strings.HasSuffix(lower, ".pdf") && in.PDF == nil:
			in.PDF = att.Content
		case strings.HasSuffix(lower, ".xlsx") && in.Lookup == nil:
			in.Lookup = att.Content
		}
	}

	subject := env.GetHeader("Subject")
	if in.PDF == nil {
		return Input{}, subject, fmt.Errorf("%w: no .pdf attachment", ErrMissingAttachment)
	}
	if in.Lookup == nil {
		return Input{}, subject, fmt.Errorf("%w: no .xlsx attachment", ErrMissingAttachment)
	}
	return in, subject, nil
}
