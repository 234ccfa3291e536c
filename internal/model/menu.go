package model

// MenuItem is a dish or drink listed on the public menu.
type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Popular     bool    `json:"popular"`
}

// Category groups menu items. MenuItem.Category holds a Category.ID.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// MenuItemRequest is the admin payload for creating or replacing a menu item.
type MenuItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Popular     bool    `json:"popular"`
}

// CategoryRequest is the admin payload for creating or renaming a category.
type CategoryRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}
