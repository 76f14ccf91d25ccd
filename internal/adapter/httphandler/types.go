package httphandler

type (
	Product struct {
		ID          int64   `json:"id"`
		Title       string  `json:"title"`
		Price       float64 `json:"price"`
		Thumbnail   string  `json:"thumbnail"`
		Description string  `json:"description,omitempty"`
		IsCustom    bool    `json:"isCustom"`
		Favorite    bool    `json:"favorite"`
	}

	NewProduct struct {
		Title       string  `json:"title"`
		Price       float64 `json:"price"`
		Thumbnail   string  `json:"thumbnail"`
		Description string  `json:"description"`
	}
)

type Cart struct {
	Items []Product `json:"items"`
	Total float64   `json:"total"`
}

type FavoriteState struct {
	ID       int64 `json:"id"`
	Favorite bool  `json:"favorite"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Reasons []string `json:"reasons,omitempty"`
}
