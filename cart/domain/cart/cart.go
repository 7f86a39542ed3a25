package cart

type Item struct {
	ProductId string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart keeps its items in insertion order, at most one per product.
// A quantity of zero is represented by the item being absent.
type Cart struct {
	Id    string
	Items []Item
}

func New(id string) *Cart {
	return &Cart{Id: id, Items: []Item{}}
}

func (c *Cart) FindItem(productId string) (Item, bool) {
	for _, it := range c.Items {
		if it.ProductId == productId {
			return it, true
		}
	}
	return Item{}, false
}

// Upsert sets the quantity for productId, keeping the item's original position.
func (c *Cart) Upsert(productId string, quantity int) {
	if quantity <= 0 {
		c.Remove(productId)
		return
	}
	for i := range c.Items {
		if c.Items[i].ProductId == productId {
			c.Items[i].Quantity = quantity
			return
		}
	}
	c.Items = append(c.Items, Item{ProductId: productId, Quantity: quantity})
}

func (c *Cart) Remove(productId string) bool {
	for i, it := range c.Items {
		if it.ProductId == productId {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.Items = []Item{}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
