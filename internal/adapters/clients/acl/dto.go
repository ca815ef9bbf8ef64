package acl

// mailMessageDTO is the request body of POST /v1/messages on the mail API.
type mailMessageDTO struct {
	From    string            `json:"from"`
	To      []string          `json:"to"`
	Subject string            `json:"subject"`
	Text    string            `json:"text"`
	Tags    []string          `json:"tags,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// mailAcceptedDTO is the 202 response of POST /v1/messages.
type mailAcceptedDTO struct {
	ID       string `json:"id"`
	QueuedAt string `json:"queued_at"`
}

// pushoverMessageDTO is the request body of POST /1/messages.json on the
// push API.
type pushoverMessageDTO struct {
	Token   string `json:"token"`
	User    string `json:"user"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

// pushoverResponseDTO is the success response of the push API.
type pushoverResponseDTO struct {
	Status  int    `json:"status"`
	Request string `json:"request"`
}
