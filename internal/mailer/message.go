package mailer

import (
	"bytes"
	"fmt"
	"mime"
	"net/mail"
	"strings"
	"text/template"
	"time"
)

// WelcomeMessage is the queued payload for one welcome email.
type WelcomeMessage struct {
	To       string    `json:"to"`
	QueuedAt time.Time `json:"queued_at"`
}

// Envelope carries the sender-side fields used when rendering.
type Envelope struct {
	From      string
	Subject   string
	MessageID string
	Date      time.Time
}

var welcomeBody = template.Must(template.New("welcome").Parse(`Hello,

Welcome aboard! An account has been created for {{.To}}.

You can sign in at any time using this address. If you did not
expect this email, you can safely ignore it.

Cheers,
The team
`))

// Render produces an RFC 5322 text message for msg.
func Render(msg WelcomeMessage, env Envelope) ([]byte, error) {
	var body bytes.Buffer
	if err := welcomeBody.Execute(&body, msg); err != nil {
		return nil, fmt.Errorf("render welcome body: %w", err)
	}

	var out bytes.Buffer
	writeHeader(&out, "From", env.From)
	writeHeader(&out, "To", msg.To)
	writeHeader(&out, "Subject", mime.QEncoding.Encode("utf-8", env.Subject))
	writeHeader(&out, "Date", env.Date.UTC().Format(time.RFC1123Z))
	if env.MessageID != "" {
		writeHeader(&out, "Message-ID", "<"+env.MessageID+"@"+domainOf(env.From)+">")
	}
	writeHeader(&out, "MIME-Version", "1.0")
	writeHeader(&out, "Content-Type", `text/plain; charset="utf-8"`)
	out.WriteString("\r\n")
	out.WriteString(strings.ReplaceAll(body.String(), "\n", "\r\n"))

	return out.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}

func domainOf(address string) string {
	if at := strings.LastIndex(address, "@"); at >= 0 && at < len(address)-1 {
		return strings.TrimSuffix(address[at+1:], ">")
	}
	return "localhost"
}

// parseAddress returns the bare address, or false when it cannot be mailed.
func parseAddress(address string) (string, bool) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", false
	}
	parsed, err := mail.ParseAddress(address)
	if err != nil {
		return "", false
	}
	return parsed.Address, true
}
