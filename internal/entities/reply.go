package entities

// Choice is one selectable option offered back to the user, e.g. a vehicle
// in the catalog or a confirm/cancel pair.
type Choice struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// Reply is the outbound payload the booking engine hands to the messaging
// transport. Rendering (keyboards, markup) is the transport's problem.
type Reply struct {
	Text       string   `json:"text"`
	Choices    []Choice `json:"choices,omitempty"`
	PaymentURL string   `json:"payment_url,omitempty"`
}
