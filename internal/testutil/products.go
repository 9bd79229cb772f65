package testutil

import "storefront/internal/domain"

func IntPtr(i int) *int {
	return &i
}

// Shoes returns five "Footwear" shoes priced 30, 10, 50, 20 and 40, in that
// insertion order.
func Shoes() []domain.Product {
	return []domain.Product{
		{
			ID: "5f1a00000000000000000001", ObjectID: "1001", Name: "Trail Running Shoe",
			ShortDescription: "Lightweight shoe for trails", BestSellingRank: 5, SalePrice: 30,
			Manufacturer: "Stride", Type: "HardGood", CustomerReviewCount: IntPtr(12),
			SalePriceRange: "25 - 50", Categories: []string{"Footwear", "Running"},
		},
		{
			ID: "5f1a00000000000000000002", ObjectID: "1002", Name: "Canvas Shoe",
			ShortDescription: "Everyday canvas shoe", BestSellingRank: 2, SalePrice: 10,
			Manufacturer: "Basics", Type: "HardGood", CustomerReviewCount: IntPtr(80),
			SalePriceRange: "1 - 25", Categories: []string{"Footwear"},
		},
		{
			ID: "5f1a00000000000000000003", ObjectID: "1003", Name: "Leather Dress Shoe",
			ShortDescription: "Formal shoe", BestSellingRank: 9, SalePrice: 50,
			Manufacturer: "Oxford & Co", Type: "HardGood",
			SalePriceRange: "50 - 75", Categories: []string{"Footwear", "Formal"},
		},
		{
			ID: "5f1a00000000000000000004", ObjectID: "1004", Name: "Slip-On Shoe",
			ShortDescription: "Easy slip-on shoe", BestSellingRank: 1, SalePrice: 20,
			Manufacturer: "Basics", Type: "Bundle", CustomerReviewCount: IntPtr(3),
			SalePriceRange: "1 - 25", Categories: []string{"Footwear"},
		},
		{
			ID: "5f1a00000000000000000005", ObjectID: "1005", Name: "Court Shoe",
			ShortDescription: "Indoor court shoe", BestSellingRank: 7, SalePrice: 40,
			Manufacturer: "Stride", Type: "HardGood", CustomerReviewCount: IntPtr(44),
			SalePriceRange: "25 - 50", Categories: []string{"Footwear", "Sports"},
		},
	}
}

// Catalog returns Shoes plus products that do not match "shoe".
func Catalog() []domain.Product {
	return append(Shoes(),
		domain.Product{
			ID: "5f1a00000000000000000006", ObjectID: "2001", Name: "Wireless Headphones",
			ShortDescription: "Noise cancelling", BestSellingRank: 3, SalePrice: 199.99,
			Manufacturer: "Sonic", Type: "HardGood", CustomerReviewCount: IntPtr(310),
			SalePriceRange: "150 - 200", Categories: []string{"Audio", "Headphones"},
		},
		domain.Product{
			ID: "5f1a00000000000000000007", ObjectID: "2002", Name: "Gift Card",
			ShortDescription: "Store gift card", BestSellingRank: 4, SalePrice: 25,
			Manufacturer: "Storefront", Type: "Software",
			SalePriceRange: "1 - 25", Categories: []string{},
		},
	)
}
