package domain

// Product is a catalog record. Only the core fields travel into the cart;
// the rest are display data for listing and detail pages.
type Product struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Price           float64           `json:"price"`
	Category        string            `json:"category"`
	Material        string            `json:"material"`
	Image           string            `json:"image"`
	Tag             string            `json:"tag,omitempty"`
	OriginalPrice   float64           `json:"originalPrice,omitempty"`
	Description     string            `json:"description,omitempty"`
	LongDescription string            `json:"longDescription,omitempty"`
	Rating          float64           `json:"rating,omitempty"`
	Reviews         int               `json:"reviews,omitempty"`
	Specs           map[string]string `json:"specs,omitempty"`
	InStock         *bool             `json:"inStock,omitempty"`
}

// CartItem is a product line in the cart. CartID is unique within the cart
// and never changes after the item is created.
type CartItem struct {
	ID       int64   `json:"id"`
	CartID   float64 `json:"cartId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Material string  `json:"material"`
	Image    string  `json:"image"`
	Tag      string  `json:"tag,omitempty"`
}

// NewCartItem copies the core fields of p into a line with the given cart id.
func NewCartItem(p Product, cartID float64) CartItem {
	return CartItem{
		ID:       p.ID,
		CartID:   cartID,
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
		Material: p.Material,
		Image:    p.Image,
		Tag:      p.Tag,
	}
}

// Snapshot is a consistent read model of the cart handed to consumers.
type Snapshot struct {
	Cart       []CartItem `json:"cart"`
	IsCartOpen bool       `json:"isCartOpen"`
	CartTotal  float64    `json:"cartTotal"`
	CartCount  int        `json:"cartCount"`
}
