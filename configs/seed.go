package configs

import (
	"log"

	"backend/entity"

	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin creates the first admin account from env, once.
func SeedAdmin() error {
	db := DB()
	email := getEnv("ADMIN_EMAIL", "")
	pass := getEnv("ADMIN_PASSWORD", "")
	if email == "" || pass == "" {
		log.Println("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	db.Model(&entity.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		log.Println("admin already exists:", email)
		return nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	admin := entity.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Admin",
		LastName:  "Seed",
		Role:      "admin",
	}
	return db.Create(&admin).Error
}

// SeedLookups idempotently fills the status lookups.
func SeedLookups() error {
	db := DB()

	for _, name := range []string{"Pending", "Preparing", "Ready", "Completed", "Cancelled"} {
		db.FirstOrCreate(&entity.OrderStatus{}, entity.OrderStatus{StatusName: name})
	}
	return nil
}

// SeedDemo loads a small demo restaurant so the storefront has something to
// show on a fresh database.
func SeedDemo() error {
	db := DB()

	var count int64
	db.Model(&entity.Restaurant{}).Count(&count)
	if count > 0 {
		return nil
	}

	rest := entity.Restaurant{
		Name:         "Blue Bistro",
		Address:      "12 Harbour Lane",
		Description:  "Seasonal plates and burgers",
		PrimaryColor: "#1a2b3c",
	}
	if err := db.Create(&rest).Error; err != nil {
		return err
	}

	lunch := entity.MenuCategory{Name: "Lunch", RestaurantID: rest.ID}
	dinner := entity.MenuCategory{Name: "Dinner", RestaurantID: rest.ID}
	if err := db.Create(&lunch).Error; err != nil {
		return err
	}
	if err := db.Create(&dinner).Error; err != nil {
		return err
	}

	discounted := int64(500)
	menus := []entity.Menu{
		{
			Name: "House Burger", Detail: "Beef, cheddar, pickles",
			PriceCents: 1000, RestaurantID: rest.ID,
			Categories: []entity.MenuCategory{lunch, dinner},
		},
		{
			Name: "Garden Salad", Detail: "Greens and citrus dressing",
			PriceCents: 800, DiscountedPriceCents: &discounted, RestaurantID: rest.ID,
			Categories: []entity.MenuCategory{lunch},
		},
	}
	for i := range menus {
		if err := db.Create(&menus[i]).Error; err != nil {
			return err
		}
	}
	log.Println("seeded demo restaurant:", rest.Name)
	return nil
}
