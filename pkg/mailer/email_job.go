package mailer

// EmailJob is the JSON payload put on the RabbitMQ receipts queue.
// HTML is optional; Text is the plain fallback body.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}
