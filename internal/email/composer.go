package email

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/medictrans/oncall-api/internal/model"
)

const DefaultSiteURL = "https://medictrans-oncall.com"

type texts struct {
	requestCreatedSubject string
	requestCreatedBody    string
	responseSubject       string
	responseBody          string
	questionSubject       string
	serviceOne            string
	serviceMany           string
}

var catalog = map[model.Locale]texts{
	model.LocaleBG: {
		requestCreatedSubject: "Създадена заявка",
		requestCreatedBody:    "Успешно създадохте заявка за %s. Ще се свържем с вас възможно най-скоро.",
		responseSubject:       "Отговор по заявка",
		responseBody:          "Получихте отговор по заявката за %s: „%s“",
		questionSubject:       "Въпрос от %s",
		serviceOne:            "услуга",
		serviceMany:           "услуги",
	},
	model.LocaleEN: {
		requestCreatedSubject: "Request created",
		requestCreatedBody:    "You successfully created a request for %s. We will contact you as soon as possible.",
		responseSubject:       "Request response",
		responseBody:          "You received a response to your request for %s: \"%s\"",
		questionSubject:       "Question from %s",
		serviceOne:            "service",
		serviceMany:           "services",
	},
}

// Composer builds the outbound mails of the application.
type Composer struct {
	siteURL string
}

func NewComposer(siteURL string) *Composer {
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}
	return &Composer{siteURL: siteURL}
}

// RequestCreated confirms a new request to the patient.
func (c *Composer) RequestCreated(locale model.Locale, to string, serviceTitles []string) *model.Email {
	t := catalog[locale]
	body := fmt.Sprintf(t.requestCreatedBody, t.services(serviceTitles))
	return c.build(to, t.requestCreatedSubject, body, body, true)
}

// ResponseReceived tells the other party of a request about a new message.
func (c *Composer) ResponseReceived(locale model.Locale, to string, serviceTitles []string, response string) *model.Email {
	t := catalog[locale]
	services := t.services(serviceTitles)
	text := fmt.Sprintf(t.responseBody, services, response)
	htmlBody := fmt.Sprintf(t.responseBody, html.EscapeString(services), html.EscapeString(response))
	return c.build(to, t.responseSubject, text, htmlBody, false)
}

// QuestionReceived echoes a contact form submission.
func (c *Composer) QuestionReceived(locale model.Locale, to, name, message string) *model.Email {
	t := catalog[locale]
	return c.build(to, fmt.Sprintf(t.questionSubject, name), message, html.EscapeString(message), false)
}

func (c *Composer) build(to, subject, text, htmlBody string, escape bool) *model.Email {
	if escape {
		htmlBody = html.EscapeString(htmlBody)
	}
	link := html.EscapeString(c.siteURL)
	return &model.Email{
		To: to,
		Message: model.EmailMessage{
			Subject: subject,
			Text:    fmt.Sprintf("%s - %s", text, c.siteURL),
			HTML:    fmt.Sprintf(`%s - <a href="%s">%s</a>`, htmlBody, link, link),
		},
		CreatedAt: time.Now(),
		Delivery:  model.Delivery{State: model.DeliveryPending},
	}
}

// services renders "service A" or "services A, B".
func (t texts) services(titles []string) string {
	word := t.serviceOne
	if len(titles) > 1 {
		word = t.serviceMany
	}
	return strings.TrimSpace(word + " " + strings.Join(titles, ", "))
}
