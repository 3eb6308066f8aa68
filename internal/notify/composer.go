// Package notify composes vessel service e-mails from fixed per-provider
// templates. The server sends what it composes; the dashboard uses the same
// composer for local drafts.
package notify

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/shipagency/internal/models"
)

// TimeLayout renders timestamps as dd/mm/yyyy hh:mm.
const TimeLayout = "02/01/2006 15:04"

const notSet = "Not set"

// ErrUnknownKind is returned for a kind that is neither a key nor a label
// of the template table, when no overrides make it a custom message.
var ErrUnknownKind = errors.New("unknown notification kind")

// Message is a composed e-mail.
type Message struct {
	Kind     string   `json:"kind"`
	VesselID string   `json:"vesselId"`
	To       []string `json:"to"`
	Cc       []string `json:"cc,omitempty"`
	Subject  string   `json:"subject"`
	Body     string   `json:"body"`
	HTML     string   `json:"html"`
}

// Overrides replace parts of a template. Empty strings keep the default.
// Cc nil means the agency address; a pointer to "" means no cc at all.
type Overrides struct {
	To          string
	Cc          *string
	Greeting    string
	ServiceText string
	RequestText string
	Label       string
}

func (o Overrides) isZero() bool {
	return o.To == "" && o.Cc == nil && o.Greeting == "" && o.ServiceText == "" &&
		o.RequestText == "" && o.Label == ""
}

// Composer fills templates with vessel data. Recipients maps kind keys to
// configured addresses and takes precedence over the table defaults.
type Composer struct {
	recipients map[string]string
	agency     string
}

func NewComposer(recipients map[string]string, agencyEmail string) *Composer {
	r := make(map[string]string, len(recipients))
	for k, v := range recipients {
		r[k] = v
	}
	return &Composer{recipients: r, agency: agencyEmail}
}

// Compose builds the message for kind. kind may be a key or a label; an
// unknown kind is accepted only with overrides and then uses the generic
// wording with kind as its label.
func (c *Composer) Compose(v *models.Vessel, kind string, ov Overrides) (Message, error) {
	k, ok := Lookup(kind)
	if !ok {
		if ov.isZero() || strings.TrimSpace(kind) == "" {
			return Message{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
		}
		k = Kind{
			Key:         strings.TrimSpace(kind),
			Label:       strings.TrimSpace(kind),
			Greeting:    DefaultGreeting,
			ServiceText: DefaultServiceText,
			RequestText: DefaultRequestText,
		}
	}

	to := firstNonEmpty(ov.To, c.recipients[k.Key], k.DefaultTo)
	cc := c.agency
	if ov.Cc != nil {
		cc = *ov.Cc
	}

	t := templateData{
		Label:       firstNonEmpty(ov.Label, k.Label),
		Greeting:    firstNonEmpty(ov.Greeting, k.Greeting),
		ServiceText: firstNonEmpty(ov.ServiceText, k.ServiceText),
		RequestText: firstNonEmpty(ov.RequestText, k.RequestText),
		Vessel:      v.Name,
		IMO:         v.IMO,
		Location:    firstNonEmpty(v.Berth, "Not specified"),
		Cargo:       v.Cargo,
		ETA:         formatTime(v.ETA),
		ETB:         formatTime(v.ETA),
		ETD:         notSet,
	}
	if v.ETB != nil {
		t.ETB = formatTime(*v.ETB)
	}
	if v.ETD != nil {
		t.ETD = formatTime(*v.ETD)
	}
	if k.Key == KindFreshWater && v.FreshWaterQuantity != nil && *v.FreshWaterQuantity > 0 {
		t.FreshWater = strconv.FormatFloat(*v.FreshWaterQuantity, 'f', -1, 64) + " m³"
	}

	var html bytes.Buffer
	if err := htmlTemplate.Execute(&html, t); err != nil {
		return Message{}, fmt.Errorf("render html: %w", err)
	}

	return Message{
		Kind:     k.Key,
		VesselID: v.ID,
		To:       splitAddresses(to),
		Cc:       splitAddresses(cc),
		Subject:  fmt.Sprintf("%s - %s at %s - ETA: %s", t.Label, v.Name, firstNonEmpty(v.Berth, "Port"), t.ETA),
		Body:     t.text(),
		HTML:     html.String(),
	}, nil
}

type templateData struct {
	Label       string
	Greeting    string
	ServiceText string
	RequestText string
	Vessel      string
	IMO         string
	Location    string
	Cargo       string
	FreshWater  string
	ETA         string
	ETB         string
	ETD         string
}

func (t templateData) text() string {
	var b strings.Builder
	b.WriteString(t.Greeting + "\n\n")
	b.WriteString(t.ServiceText + "\n\n")

	b.WriteString("Vessel: " + t.Vessel + "\n")
	if t.IMO != "" {
		b.WriteString("IMO: " + t.IMO + "\n")
	}
	b.WriteString("Location: " + t.Location + "\n")
	if t.Cargo != "" {
		b.WriteString("Cargo: " + t.Cargo + "\n")
	}
	if t.FreshWater != "" {
		b.WriteString("Estimated FW Required: " + t.FreshWater + "\n")
	}

	b.WriteString("\nMovements:\n")
	b.WriteString("- ETA: " + t.ETA + "\n")
	b.WriteString("- ETB: " + t.ETB + "\n")
	b.WriteString("- ETD: " + t.ETD + "\n")

	b.WriteString("\n" + t.RequestText)
	return b.String()
}

var htmlTemplate = template.Must(template.New("notification").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <p>{{.Greeting}}</p>
  <p>{{.ServiceText}}</p>
  <table style="border-collapse: collapse; width: 100%; margin-bottom: 20px;">
    <tr><td><strong>Vessel:</strong></td><td>{{.Vessel}}</td></tr>
    {{- if .IMO}}
    <tr><td><strong>IMO:</strong></td><td>{{.IMO}}</td></tr>
    {{- end}}
    <tr><td><strong>Location:</strong></td><td>{{.Location}}</td></tr>
    {{- if .Cargo}}
    <tr><td><strong>Cargo:</strong></td><td>{{.Cargo}}</td></tr>
    {{- end}}
  </table>
  {{- if .FreshWater}}
  <p><strong>Estimated FW Required:</strong> {{.FreshWater}}</p>
  {{- end}}
  <p><strong>Movements:</strong></p>
  <ul>
    <li><strong>ETA:</strong> {{.ETA}}</li>
    <li><strong>ETB:</strong> {{.ETB}}</li>
    <li><strong>ETD:</strong> {{.ETD}}</li>
  </ul>
  <p>{{.RequestText}}</p>
  <hr>
  <p style="color: #666; font-size: 12px;">This is an automated message from the Vessel Management System.</p>
</div>
`))

func formatTime(t time.Time) string {
	if t.IsZero() {
		return notSet
	}
	return t.UTC().Format(TimeLayout)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func splitAddresses(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MailtoURL renders msg as a mailto: link with the plain-text body, for
// opening a draft in the user's own mail client.
func MailtoURL(msg Message) string {
	q := []string{}
	if len(msg.Cc) > 0 {
		q = append(q, "cc="+escape(strings.Join(msg.Cc, ",")))
	}
	q = append(q, "subject="+escape(msg.Subject), "body="+escape(msg.Body))

	return "mailto:" + escape(strings.Join(msg.To, ",")) + "?" + strings.Join(q, "&")
}

// escape percent-encodes like encodeURIComponent: spaces become %20, not +.
func escape(s string) string {
	e := url.QueryEscape(s)
	e = strings.ReplaceAll(e, "+", "%20")
	return strings.ReplaceAll(e, "%40", "@")
}
