package models

// ParsedItem is a menu item recognized in free text with its quantity.
type ParsedItem struct {
	Item     MenuItem `json:"item"`
	Quantity int      `json:"quantity"`
}

// ParsedOrder is the result of parsing a free-form chat message. Optional
// string fields are empty when the corresponding information was not found.
// Items is never nil; when it is empty, Errors explains why.
//
// ParsedOrder is returned even when parsing degrades: the parser reports
// problems through Errors instead of failing, so the chat flow can always
// respond to the customer.
type ParsedOrder struct {
	Items               []ParsedItem  `json:"items"`
	CustomerName        string        `json:"customer_name,omitempty"`
	CustomerPhone       string        `json:"customer_phone,omitempty"`
	DeliveryAddress     string        `json:"delivery_address,omitempty"`
	OrderType           OrderType     `json:"order_type"`
	SpecialInstructions string        `json:"special_instructions,omitempty"`
	RequestedTime       string        `json:"requested_time,omitempty"`
	PaymentMethod       PaymentMethod `json:"payment_method,omitempty"`
	DiscountCode        string        `json:"discount_code,omitempty"`
	OriginalText        string        `json:"original_text"`
	Errors              []string      `json:"errors"`
}

// IsSubmittable reports whether the parse produced a well-formed order.
func (p ParsedOrder) IsSubmittable() bool {
	return len(p.Items) > 0 && len(p.Errors) == 0
}
