package pipeline

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
)

func mkEmail(attachments map[string][]byte) []byte {
	var b bytes.Buffer
	b.WriteString("From: warehouse@example.com\r\n")
	b.WriteString("To: ops@example.com\r\n")
	b.WriteString("Subject: picking list\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/mixed; boundary=\"BOUNDARY\"\r\n\r\n")
	b.WriteString("--BOUNDARY\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString("see attached\r\n")
	for _, name := range []string{"list.pdf", "lookup.xlsx", "notes.txt"} {
		content, ok := attachments[name]
		if !ok {
			continue
		}
		b.WriteString("--BOUNDARY\r\n")
		b.WriteString("Content-Type: application/octet-stream\r\n")
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n\r\n", name)
		b.WriteString(base64.StdEncoding.EncodeToString(content))
		b.WriteString("\r\n")
	}
	b.WriteString("--BOUNDARY--\r\n")
	return b.Bytes()
}

func TestInputFromEmail(t *testing.T) {
	raw := mkEmail(map[string][]byte{
		"list.pdf":    []byte("%PDF-1.4 fake"),
		"lookup.xlsx": []byte("PK fake workbook"),
		"notes.txt":   []byte("ignore me"),
	})
	in, subject, err := InputFromEmail(raw)
	if err != nil {
		t.Fatal(err)
	}
	if subject != "picking list" {
		t.Fatalf("subject=%q", subject)
	}
	if string(in.PDF) != "%PDF-1.4 fake" || string(in.Lookup) != "PK fake workbook" {
		t.Fatalf("input=%q / %q", in.PDF, in.Lookup)
	}
}

func TestInputFromEmailMissingLookup(t *testing.T) {
	raw := mkEmail(map[string][]byte{"list.pdf": []byte("%PDF-1.4 fake")})
	if _, _, err := InputFromEmail(raw); !errors.Is(err, ErrMissingAttachment) {
		t.Fatalf("err=%v", err)
	}
}
