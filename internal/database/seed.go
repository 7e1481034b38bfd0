package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: a handful of
// catalog products spanning the taxonomy and one blog post. It is a no-op
// when products already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return fmt.Errorf("seed check products: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	type seedProduct struct {
		name, description, slug, image, productType string
		category, subCategory                       string
		extraCategory                               *string
		features                                    []string
	}

	aswLT := "ASW LT"
	tenKWh := "10 kWh"

	products := []seedProduct{
		{
			name:        "ASW 12000 LT-G3",
			description: "Three-phase string inverter for residential rooftops.",
			slug:        "asw-12000-lt-g3-1700000000000",
			image:       "https://media.solarsite.example/seed/asw-12000.jpg",
			productType: "grid-tied",
			category:    "inverters", subCategory: "three-phase", extraCategory: &aswLT,
			features: []string{"12 kW output", "Dual MPPT", "IP65 enclosure"},
		},
		{
			name:        "ASW 5000 H-S2",
			description: "Hybrid inverter with integrated battery interface.",
			slug:        "asw-5000-h-s2-1700000000001",
			image:       "https://media.solarsite.example/seed/asw-5000.jpg",
			productType: "hybrid",
			category:    "inverters", subCategory: "hybrid",
			features: []string{"5 kW output", "Backup supply", "Smart load control"},
		},
		{
			name:        "Solarsite Battery HV",
			description: "Stackable high-voltage storage for hybrid systems.",
			slug:        "solarsite-battery-hv-1700000000002",
			image:       "https://media.solarsite.example/seed/battery-hv.jpg",
			productType: "storage",
			category:    "batteries", subCategory: "high-voltage", extraCategory: &tenKWh,
			features: []string{"Modular design", "6000 cycles"},
		},
		{
			name:        "Solarsite Monitor Pro",
			description: "Plant monitoring gateway with app integration.",
			slug:        "solarsite-monitor-pro-1700000000003",
			image:       "https://media.solarsite.example/seed/monitor-pro.jpg",
			productType: "monitoring",
			category:    "accessories", subCategory: "monitoring",
			features: []string{"Wi-Fi and Ethernet", "Per-string telemetry"},
		},
	}

	for _, p := range products {
		features, err := json.Marshal(p.features)
		if err != nil {
			return fmt.Errorf("seed marshal features: %w", err)
		}
		_, err = db.Exec(`
			INSERT INTO products (name, description, slug, image, product_type,
			                      category, sub_category, extra_category, features)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, p.name, p.description, p.slug, p.image, p.productType,
			p.category, p.subCategory, p.extraCategory, features)
		if err != nil {
			return fmt.Errorf("seed insert product %q: %w", p.name, err)
		}
	}

	blocks, err := json.Marshal([]map[string]string{
		{"type": "text", "content": "Sizing a residential battery starts with your evening load profile."},
		{"type": "image", "url": "https://media.solarsite.example/seed/blog-battery.jpg", "caption": "A stacked high-voltage battery installation."},
		{"type": "text", "content": "A 10 kWh module covers the typical overnight consumption of a family of four."},
	})
	if err != nil {
		return fmt.Errorf("seed marshal blocks: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO blogs (slug, title, author, read_time, category, image, excerpt, blocks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, "how-to-size-a-home-battery-1700000000004",
		"How to size a home battery",
		"Solarsite Editorial",
		"4 min",
		"guides",
		"https://media.solarsite.example/seed/blog-battery.jpg",
		"A practical walkthrough of matching storage capacity to household consumption.",
		blocks)
	if err != nil {
		return fmt.Errorf("seed insert blog: %w", err)
	}

	slog.Info("database seeded with development catalog and blog data",
		"products", len(products),
		"blogs", 1,
	)

	return nil
}
