package catalog

import "github.com/example/tarana-storefront/internal/domain"

var defaultProducts = []domain.Product{
	{
		ID:       1,
		Name:     "Royal Ambabari Elephant",
		Price:    1250,
		Category: "Sculpture",
		Material: "Teak Wood",
		Image:    "https://media.istockphoto.com/id/484419274/photo/carved-thai-elephant.jpg",
		Tag:      "Best Seller",
	},
	{
		ID:       2,
		Name:     "Majestic Peacock Panel",
		Price:    850,
		Category: "Wall Art",
		Material: "Rosewood",
		Image:    "https://images.unsplash.com/photo-1582555172866-f73bb12a2ab3",
		Tag:      "New",
	},
	{
		ID:       4,
		Name:     "Vintage Carved Mirror",
		Price:    2100,
		Category: "Furniture",
		Material: "Sheesham",
		Image:    "https://images.unsplash.com/photo-1618220179428-22790b461013",
		Tag:      "Premium",
	},
	{
		ID:       5,
		Name:     "Hand-Carved Radha Krishna",
		Price:    3200,
		Category: "Sculpture",
		Material: "White Kadam Wood",
		Image:    "https://images.unsplash.com/photo-1544967082-d9d25d867d66",
		Tag:      "Rare",
	},
	{
		ID:       12,
		Name:     "Dashavatara Wall Frieze",
		Price:    4500,
		Category: "Wall Art",
		Material: "Antique Teak",
		Image:    "https://images.unsplash.com/photo-1561350111-7dad5f13d883",
		Tag:      "Heritage Elite",
	},
}
