package main

import (
	"log"

	"github.com/shremyagupta/simple-ecommerce/internal/config"
	"github.com/shremyagupta/simple-ecommerce/internal/models"
)

var sampleProducts = []models.Product{
	{
		Name:        "Wireless Headphones",
		Description: "High-quality wireless headphones with active noise cancellation and 30-hour battery life",
		Price:       99.99,
		Image:       "/images/headphones.svg",
		Category:    "Audio",
		Stock:       50,
	},
	{
		Name:        "Smart Watch",
		Description: "Feature-rich smartwatch with health monitoring, GPS, and waterproof design",
		Price:       199.99,
		Image:       "/images/smartwatch.svg",
		Category:    "Wearables",
		Stock:       30,
	},
	{
		Name:        "Laptop Stand",
		Description: "Ergonomic aluminum laptop stand for better posture and improved airflow",
		Price:       49.99,
		Image:       "/images/laptop-stand.svg",
		Category:    "Accessories",
		Stock:       100,
	},
	{
		Name:        "Wireless Mouse",
		Description: "Precise wireless mouse with 2.4GHz connectivity and long battery life",
		Price:       29.99,
		Image:       "/images/mouse.svg",
		Category:    "Accessories",
		Stock:       75,
	},
	{
		Name:        "USB-C Hub",
		Description: "Multi-port USB-C hub with 4K HDMI output, USB 3.0 ports, and fast charging",
		Price:       79.99,
		Image:       "/images/usb-hub.svg",
		Category:    "Accessories",
		Stock:       40,
	},
	{
		Name:        "Phone Case",
		Description: "Protective phone case with wireless charging support and drop protection",
		Price:       24.99,
		Image:       "/images/phone-case.svg",
		Category:    "Accessories",
		Stock:       200,
	},
	{
		Name:        "Bluetooth Speaker",
		Description: "Portable Bluetooth speaker with 360-degree sound and waterproof design",
		Price:       59.99,
		Image:       "/images/speaker.svg",
		Category:    "Audio",
		Stock:       60,
	},
	{
		Name:        "Webcam HD",
		Description: "1080p HD webcam with auto-focus and built-in microphone for video calls",
		Price:       39.99,
		Image:       "/images/webcam.svg",
		Category:    "Electronics",
		Stock:       25,
	},
}

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	if err := db.Where("1 = 1").Delete(&models.Product{}).Error; err != nil {
		log.Fatalf("failed to clear products: %v", err)
	}

	for i := range sampleProducts {
		if err := db.Create(&sampleProducts[i]).Error; err != nil {
			log.Fatalf("failed to seed %q: %v", sampleProducts[i].Name, err)
		}
	}

	log.Printf("seeded %d products", len(sampleProducts))
}
