// Package notify composes and delivers templated notifications. The
// producing workflow only enqueues; delivery happens in the worker.
package notify

import (
	"fmt"
	"html/template"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/campushub/backend/internal/model"
)

var ackTmpl = template.Must(template.New("ack").Parse(`<html><body>
<p>Hi {{.FullName}},</p>
<p>Your complaint <b>{{.Title}}</b> has been registered with reference <code>{{.RecordID}}</code>.</p>
<p>{{.Description}}</p>
<p>Attachment: <a href="{{.MediaURL}}">{{.MediaURL}}</a></p>
<p>We will get back to you once it is reviewed.</p>
</body></html>`))

var alertTmpl = template.Must(template.New("alert").Parse(`<html><body>
<p>New complaint <code>{{.RecordID}}</code> from {{.FullName}} ({{.Email}}).</p>
<p><b>{{.Title}}</b></p>
<p>{{.Description}}</p>
<p>Attachment: <a href="{{.MediaURL}}">{{.MediaURL}}</a></p>
</body></html>`))

// ComplaintFields feeds the complaint templates.
type ComplaintFields struct {
	RecordID    string
	FullName    string
	Email       string
	Title       string
	Description string
	MediaURL    string
}

// Subject derives a subject line from a submission title, capitalizing
// the first letter.
func Subject(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Complaint registered"
	}
	r, size := utf8.DecodeRuneInString(title)
	return string(unicode.ToUpper(r)) + title[size:]
}

// ComplaintAck builds the acknowledgement sent to the submitter.
func ComplaintAck(f ComplaintFields) (*model.Notification, error) {
	var b strings.Builder
	if err := ackTmpl.Execute(&b, f); err != nil {
		return nil, fmt.Errorf("render ack: %w", err)
	}
	return &model.Notification{
		Recipient: f.Email,
		Subject:   Subject(f.Title),
		HTMLBody:  b.String(),
	}, nil
}

// ComplaintAlert builds the alert sent to the operator address.
func ComplaintAlert(f ComplaintFields, operator string) (*model.Notification, error) {
	var b strings.Builder
	if err := alertTmpl.Execute(&b, f); err != nil {
		return nil, fmt.Errorf("render alert: %w", err)
	}
	return &model.Notification{
		Recipient: operator,
		Subject:   "New complaint: " + Subject(f.Title),
		HTMLBody:  b.String(),
	}, nil
}
