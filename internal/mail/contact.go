package mail

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"time"
	_ "time/tzdata"

	"github.com/contextia/website/internal/httputil"
)

//go:embed templates/*.html
var templateFS embed.FS

var notificationTmpl = template.Must(template.ParseFS(templateFS, "templates/notification.html"))

// Submission is a contact-form entry
type Submission struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Company  string `json:"company"`
	Interest string `json:"interest"`
	Message  string `json:"message"`
	Lang     string `json:"lang"`
}

// UnmarshalJSON decodes a submission from any JSON object; fields of the
// wrong type are read with httputil.LooseString instead of failing.
func (s *Submission) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*s = Submission{
		Name:     httputil.LooseString(fields["name"]),
		Email:    httputil.LooseString(fields["email"]),
		Company:  httputil.LooseString(fields["company"]),
		Interest: httputil.LooseString(fields["interest"]),
		Message:  httputil.LooseString(fields["message"]),
		Lang:     httputil.LooseString(fields["lang"]),
	}
	return nil
}

// Valid reports whether the required fields are present
func (s Submission) Valid() bool {
	return s.Name != "" && s.Email != ""
}

// LanguageLabel is the human name of the submission language
func (s Submission) LanguageLabel() string {
	if s.Lang == "it" {
		return "Italian"
	}
	return "English"
}

var berlin = loadBerlin()

func loadBerlin() *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		return time.FixedZone("CET", 3600)
	}
	return loc
}

// Notification builds the message sent to the site owner. The submitter is
// set as reply-to so the owner can answer directly.
func Notification(s Submission, from, to string, at time.Time) (Message, error) {
	var body bytes.Buffer
	err := notificationTmpl.Execute(&body, struct {
		Submission
		Language string
		Time     string
	}{
		Submission: s,
		Language:   s.LanguageLabel(),
		Time:       at.In(berlin).Format("02/01/2006, 15:04:05"),
	})
	if err != nil {
		return Message{}, fmt.Errorf("failed to render notification: %w", err)
	}

	return Message{
		From:    from,
		To:      []string{to},
		ReplyTo: s.Email,
		Subject: fmt.Sprintf("New Contact: %s (%s)", s.Name, s.Interest),
		HTML:    body.String(),
	}, nil
}
