package dto

type MenuListDTO struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Price          int64  `json:"price"`
	Status         string `json:"status"`
	Image          string `json:"image"`
	IsBestSeller   bool   `json:"is_best_seller"`
	CategoryID     uint   `json:"category_id"`
	CategoryName   string `json:"category_name"`
	ParentCategory string `json:"parent_category,omitempty"`
}
