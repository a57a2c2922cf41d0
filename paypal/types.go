package paypal

// Money is a PayPal currency amount. Values travel as strings on the wire.
type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type AmountBreakdown struct {
	ItemTotal Money `json:"item_total"`
}

type PurchaseAmount struct {
	CurrencyCode string           `json:"currency_code"`
	Value        string           `json:"value"`
	Breakdown    *AmountBreakdown `json:"breakdown,omitempty"`
}

// Item is one manifest line inside a purchase unit.
type Item struct {
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	UnitAmount Money  `json:"unit_amount"`
	Quantity   string `json:"quantity"`
}

type Capture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount Money  `json:"amount"`
}

type Payments struct {
	Captures []Capture `json:"captures"`
}

// PurchaseUnit carries one seller's slice of the order. CustomID holds the
// seller id so captures can be reconciled per seller.
type PurchaseUnit struct {
	CustomID string         `json:"custom_id,omitempty"`
	Amount   PurchaseAmount `json:"amount"`
	Items    []Item         `json:"items,omitempty"`
	Payments *Payments      `json:"payments,omitempty"`
}

// OrderResponse is the decoded create/capture response. Raw keeps the full
// provider payload for the transaction ledger.
type OrderResponse struct {
	ID            string                 `json:"id"`
	Status        string                 `json:"status"`
	PurchaseUnits []PurchaseUnit         `json:"purchase_units"`
	Raw           map[string]interface{} `json:"-"`
}

// AccessToken is the client-credentials grant response.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// OrderCompleted is the provider status of a fully captured order.
const OrderCompleted = "COMPLETED"
