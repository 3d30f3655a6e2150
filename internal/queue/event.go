package queue

// MailEvent is the message published to the mail.confirmation queue when
// a signup needs its confirmation code delivered. The consumer side is the
// delivery boundary; the API never talks SMTP itself.
type MailEvent struct {
	To       string `json:"to"`
	From     string `json:"from"`
	Username string `json:"username"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}
