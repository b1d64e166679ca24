package mailer

import "fmt"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// HTML is optional; Text is recommended as fallback.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// WelcomeJob builds the welcome message sent after a successful registration.
func WelcomeJob(to, username, fullName string) EmailJob {
	name := fullName
	if name == "" {
		name = username
	}
	return EmailJob{
		To:      to,
		Subject: "Bienvenido a EcoMarket",
		Text: fmt.Sprintf(
			"Hola %s,\n\nTu cuenta %q ha sido creada en EcoMarket.\n\nEl equipo de EcoMarket",
			name, username),
	}
}
