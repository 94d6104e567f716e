package catalog

// SeedCatalog returns the shops a fresh installation starts with.
func SeedCatalog() Catalog {
	return Catalog{
		"Yuvarani foot wears": {
			Location: "G6G8+4XM, Palace Rd, Keerankulangara, Thrissur, Kerala 680001",
			Products: map[string]Product{
				"Nike":        {Stock: 10, Price: 1000, Sizes: []int{7, 8, 9, 10}, Category: "Sneakers"},
				"New Balance": {Stock: 8, Price: 2400, Sizes: []int{6, 7, 8, 9, 10}, Category: "Sneakers"},
				"Puma":        {Stock: 9, Price: 1499, Sizes: []int{7, 8, 9}, Category: "Sneakers"},
			},
		},
		"Kobbler": {
			Location: "G6G6+9G3, Machingal Ln, Naikkanal, Thrissur, Kerala 680022",
			Products: map[string]Product{
				"Adidas":   {Stock: 8, Price: 1500, Sizes: []int{6, 7, 8, 9, 10}},
				"Sneaker":  {Stock: 14, Price: 3000, Sizes: []int{7, 8, 9}},
				"Converse": {Stock: 20, Price: 1500, Sizes: []int{6, 7, 8, 9, 10}},
			},
		},
		"Woodland": {
			Location: "Shop No. 25/479, Gokul Building, M.G. Road, Opposite Ramdas Theatre, Thrissur, Kerala 680001",
			Products: map[string]Product{
				"Reebok":   {Stock: 10, Price: 2000, Sizes: []int{6, 7, 8, 9, 10}},
				"Converse": {Stock: 16, Price: 1800, Sizes: []int{7, 8, 9}},
				"Skechers": {Stock: 14, Price: 2500, Sizes: []int{6, 7, 8, 9, 10}},
			},
		},
		"DOC & MARK": {
			Location: "SBU03, Woodlands Avenue, Room No :25, 789, MG Road, Naikkanal, Thrissur, Kerala 680001",
			Products: map[string]Product{
				"Reebok":   {Stock: 12, Price: 1900, Sizes: []int{6, 7, 9, 10}},
				"Vans":     {Stock: 12, Price: 1800, Sizes: []int{3, 7, 8, 9}},
				"Skechers": {Stock: 10, Price: 2570, Sizes: []int{4, 7, 8, 9, 10}},
			},
		},
		"Bongo": {
			Location: "G6F6+QQH, Kodungallur - Shornur Rd, Naduvilal, Marar Road Area, Naikkanal, Thrissur, Kerala 680001",
			Products: map[string]Product{
				"Converse": {Stock: 12, Price: 2000, Sizes: []int{6, 7, 8, 9, 10}},
				"Nike":     {Stock: 10, Price: 1800, Sizes: []int{7, 8, 9}},
				"Adidas":   {Stock: 12, Price: 2500, Sizes: []int{6, 7, 8, 9, 10}},
			},
		},
		"Flexfootwear": {
			Location: "G6C7+WPQ, Swaraj Round, Thrissur, Kerala 680001",
			Products: map[string]Product{
				"Puma":     {Stock: 10, Price: 2000, Sizes: []int{6, 7, 8, 9, 10}},
				"Sneaker":  {Stock: 8, Price: 1800, Sizes: []int{7, 8, 9}},
				"Skechers": {Stock: 12, Price: 2500, Sizes: []int{6, 7, 8, 9, 10}},
			},
		},
	}
}
