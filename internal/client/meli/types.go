package meli

// Order is the subset of the marketplace order document this system
// reads. Everything else in the payload is ignored.
type Order struct {
	ID         int64       `json:"id"`
	Status     string      `json:"status"`
	Buyer      *Buyer      `json:"buyer"`
	Seller     *Seller     `json:"seller"`
	OrderItems []OrderItem `json:"order_items"`
}

type Buyer struct {
	ID        int64  `json:"id"`
	Nickname  string `json:"nickname"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DisplayName prefers the buyer's first name, falling back to the
// marketplace nickname.
func (b Buyer) DisplayName() string {
	if b.FirstName != "" {
		return b.FirstName
	}
	return b.Nickname
}

type Seller struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
}

type OrderItem struct {
	Item     Item `json:"item"`
	Quantity int  `json:"quantity"`
}

type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type User struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
	SiteID   string `json:"site_id"`
}

// Message is one outbound buyer message. Fire-and-forget: no delivery
// receipt is tracked.
type Message struct {
	FromUserID int64
	ToUserID   int64
	Text       string
}
