package cart

// PricedItem is computed on every read and never stored.
type PricedItem struct {
	ProductId string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
	Name      string  `json:"name"`
	Currency  string  `json:"currency"`
}

type View struct {
	Items    []PricedItem `json:"items"`
	Subtotal float64      `json:"subtotal"`
}

func EmptyView() View {
	return View{Items: []PricedItem{}, Subtotal: 0}
}
