package main

import (
	"context"
	"log"

	"github.com/claycraft/shop/internal/config"
	"github.com/claycraft/shop/internal/hash"
	"github.com/claycraft/shop/internal/models"
	"github.com/claycraft/shop/pkg/db"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(configuration.DatabaseURL, "DATABASE_URL")

	gormDB, err := db.Open(context.Background(), configuration.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	log.Println("seeding database...")

	for _, table := range []any{
		&models.OrderItem{}, &models.Order{}, &models.ProductImage{},
		&models.Product{}, &models.Category{}, &models.User{},
	} {
		if err := gormDB.Where("1 = 1").Delete(table).Error; err != nil {
			log.Fatalf("clean tables: %v", err)
		}
	}

	categories := []models.Category{
		{Name: "Mugs & Cups", Slug: "mugs-cups", Description: "Handcrafted clay mugs and cups for your daily beverages", Image: "/images/mug-1.jpg", IsActive: true},
		{Name: "Planters", Slug: "planters", Description: "Beautiful clay planters for your indoor and outdoor plants", Image: "/images/planter-1.jpg", IsActive: true},
		{Name: "Decorative Items", Slug: "decorative-items", Description: "Artistic clay decorations to beautify your space", Image: "/images/vase-1.jpg", IsActive: true},
		{Name: "Tableware", Slug: "tableware", Description: "Elegant clay plates, bowls, and serving dishes", Image: "/images/bowl-1.jpg", IsActive: true},
	}
	if err := gormDB.Create(&categories).Error; err != nil {
		log.Fatalf("seed categories: %v", err)
	}

	passwordHash, err := hash.HashPassword("admin123")
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}
	admin := models.User{
		Email:        "admin@claycraft.com",
		PasswordHash: passwordHash,
		FirstName:    "Admin",
		LastName:     "User",
		Role:         "ADMIN",
		IsActive:     true,
	}
	if err := gormDB.Create(&admin).Error; err != nil {
		log.Fatalf("seed admin user: %v", err)
	}

	products := []models.Product{
		{
			Name: "Rustic Coffee Mug", Slug: "rustic-coffee-mug",
			Description: "A beautifully handcrafted rustic coffee mug with a natural clay finish. Perfect for your morning coffee ritual.",
			ShortDesc:   "Handcrafted rustic coffee mug with natural finish",
			PriceInPaise: 89900, Stock: 25, IsActive: true, IsFeatured: true,
			Weight: 0.3, Dimensions: "10x8x9 cm", Material: "Natural terracotta clay",
			CareNotes: "Hand wash with mild soap. Microwave safe.", CategoryID: categories[0].ID,
			Images: []models.ProductImage{
				{URL: "/images/mug-1.jpg", AltText: "Rustic coffee mug front view", IsPrimary: true, SortOrder: 1},
				{URL: "/images/mug-2.jpg", AltText: "Rustic coffee mug side view", SortOrder: 2},
			},
		},
		{
			Name: "Glazed Tea Cup Set", Slug: "glazed-tea-cup-set",
			Description: "Elegant set of 4 glazed tea cups with saucers. Each cup is uniquely crafted with a beautiful blue-green glaze.",
			ShortDesc:   "Set of 4 glazed tea cups with saucers",
			PriceInPaise: 199900, Stock: 15, IsActive: true, IsFeatured: true,
			Weight: 1.2, Dimensions: "8x8x6 cm each", Material: "Glazed stoneware clay",
			CareNotes: "Dishwasher safe. Avoid sudden temperature changes.", CategoryID: categories[0].ID,
			Images: []models.ProductImage{
				{URL: "/images/mug-2.jpg", AltText: "Glazed tea cup set complete", IsPrimary: true, SortOrder: 1},
			},
		},
		{
			Name: "Artisan Espresso Cup", Slug: "artisan-espresso-cup",
			Description: "Small, perfectly sized espresso cup with a unique textured finish. Ideal for espresso lovers.",
			ShortDesc:   "Textured artisan espresso cup",
			PriceInPaise: 69900, Stock: 30, IsActive: true,
			Weight: 0.15, Dimensions: "6x6x5 cm", Material: "Fine clay with textured glaze",
			CareNotes: "Hand wash recommended. Heat resistant.", CategoryID: categories[0].ID,
			Images: []models.ProductImage{
				{URL: "/images/mug-3.jpg", AltText: "Artisan espresso cup", IsPrimary: true, SortOrder: 1},
			},
		},
		{
			Name: "Terracotta Planter", Slug: "terracotta-planter",
			Description: "Classic terracotta planter with a drainage hole, suitable for succulents and herbs alike.",
			ShortDesc:   "Classic terracotta planter with drainage",
			PriceInPaise: 129900, Stock: 20, IsActive: true, IsFeatured: true,
			Weight: 0.8, Dimensions: "15x15x14 cm", Material: "Terracotta clay",
			CareNotes: "Weather resistant. Rinse before first use.", CategoryID: categories[1].ID,
			Images: []models.ProductImage{
				{URL: "/images/planter-1.jpg", AltText: "Terracotta planter", IsPrimary: true, SortOrder: 1},
			},
		},
		{
			Name: "Sculpted Clay Vase", Slug: "sculpted-clay-vase",
			Description: "Hand-sculpted decorative vase with an organic silhouette, finished in a matte glaze.",
			ShortDesc:   "Hand-sculpted decorative vase",
			PriceInPaise: 249900, Stock: 8, IsActive: true,
			Weight: 1.5, Dimensions: "12x12x25 cm", Material: "Stoneware clay, matte glaze",
			CareNotes: "Wipe clean with a dry cloth.", CategoryID: categories[2].ID,
			Images: []models.ProductImage{
				{URL: "/images/vase-1.jpg", AltText: "Sculpted clay vase", IsPrimary: true, SortOrder: 1},
			},
		},
		{
			Name: "Serving Bowl Duo", Slug: "serving-bowl-duo",
			Description: "Pair of generous serving bowls glazed in complementary earth tones, perfect for family dinners.",
			ShortDesc:   "Pair of glazed serving bowls",
			PriceInPaise: 179900, Stock: 12, IsActive: true,
			Weight: 2.0, Dimensions: "22x22x9 cm each", Material: "Glazed stoneware clay",
			CareNotes: "Dishwasher and microwave safe.", CategoryID: categories[3].ID,
			Images: []models.ProductImage{
				{URL: "/images/bowl-1.jpg", AltText: "Serving bowl duo", IsPrimary: true, SortOrder: 1},
			},
		},
	}
	if err := gormDB.Create(&products).Error; err != nil {
		log.Fatalf("seed products: %v", err)
	}

	log.Printf("seeded %d categories, %d products, 1 admin user", len(categories), len(products))
}
