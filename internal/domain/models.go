package domain

import "encoding/json"

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Restaurant struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Email       string      `json:"email,omitempty"`
	Phone       *int64      `json:"phone,omitempty"`
	Description string      `json:"description,omitempty"`
	Hours       string      `json:"hours"`
	PriceRange  PriceTier   `json:"priceRange"`
	Categories  []Category  `json:"categories"`
	Rating      json.Number `json:"rating,omitempty"`
	PhotoURL    string      `json:"photoUrl,omitempty"`
	Reviews     []Review    `json:"reviews,omitempty"`
}

// CategoryNames keeps the order the backend returned.
func (r Restaurant) CategoryNames() []string {
	names := make([]string, 0, len(r.Categories))
	for _, c := range r.Categories {
		names = append(names, c.Name)
	}
	return names
}

type RestaurantRequest struct {
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Email       string    `json:"email,omitempty"`
	Phone       *int64    `json:"phone,omitempty"`
	Description string    `json:"description,omitempty"`
	Hours       string    `json:"hours"`
	PriceRange  PriceTier `json:"priceRange"`
	CategoryIDs []int     `json:"categoryIds"`
}

type Review struct {
	ID           int       `json:"id"`
	RestaurantID int       `json:"restaurantId"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    Timestamp `json:"createdAt"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by login, register and validate. It is also the
// profile persisted next to the token.
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Message  string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Message   string    `json:"message"`
	Error     string    `json:"error"`
	Status    int       `json:"status"`
	Timestamp Timestamp `json:"timestamp"`
}
