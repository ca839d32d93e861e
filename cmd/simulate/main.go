package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/Patricemapiye-ctrl/navira-forge/config"
	"github.com/Patricemapiye-ctrl/navira-forge/database"
	"github.com/Patricemapiye-ctrl/navira-forge/models"
	"github.com/Patricemapiye-ctrl/navira-forge/returns"
	"github.com/Patricemapiye-ctrl/navira-forge/sales"
)

// simulate drives the store through its real write paths: random sales
// through the recorder, fulfillment decisions on the online ones, and the
// occasional return. Useful for filling a dev database with plausible
// activity and for eyeballing the reports endpoints.
func main() {
	var (
		count      = flag.Int("sales", 50, "Number of sales to record")
		onlinePct  = flag.Int("online", 30, "Percentage of sales that are online orders")
		returnPct  = flag.Int("returns", 10, "Percentage of sales that get a return filed")
		seed       = flag.Bool("seed", false, "Run initial seed if database is empty")
		noQueryLog = flag.Bool("no-query-log", false, "Disable query logging during simulation")
	)
	flag.Parse()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := database.InitializeWithOptions(&cfg.Database, *noQueryLog); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	db := database.GetDB()
	log.Println("✅ Connected to database successfully")

	if *seed {
		var itemCount int64
		db.Model(&models.InventoryItem{}).Count(&itemCount)
		if itemCount == 0 {
			log.Println("Database is empty, running initial seed...")
			if err := database.SeedData(db); err != nil {
				log.Fatalf("Failed to seed initial data: %v", err)
			}
			log.Println("✅ Initial seed completed")
		}
	}

	var items []models.InventoryItem
	if err := db.Where("quantity > 0").Find(&items).Error; err != nil {
		log.Fatalf("Failed to load inventory: %v", err)
	}
	if len(items) == 0 {
		log.Fatal("No sellable inventory; seed the database first (-seed)")
	}

	var operator models.User
	if err := db.First(&operator).Error; err != nil {
		log.Fatal("No users found; seed the database first (-seed)")
	}

	recorder := sales.NewRecorder(db, nil)
	fulfillment := sales.NewFulfillment(db, nil)
	processor := returns.NewProcessor(db, nil)
	ctx := context.Background()

	payments := []models.PaymentMethod{models.PaymentCash, models.PaymentCard, models.PaymentEFT}

	var recorded, skipped, returned int
	for i := 0; i < *count; i++ {
		online := rng.Intn(100) < *onlinePct

		nLines := 1 + rng.Intn(3)
		lines := make([]sales.Line, 0, nLines)
		for j := 0; j < nLines; j++ {
			item := items[rng.Intn(len(items))]
			lines = append(lines, sales.Line{
				InventoryID: item.ID,
				ItemName:    item.ItemName,
				Quantity:    1 + rng.Intn(3),
				UnitPrice:   item.UnitPrice,
			})
		}

		in := sales.CheckoutInput{
			Lines:         lines,
			PaymentMethod: payments[rng.Intn(len(payments))],
			Online:        online,
		}
		if !online {
			in.SoldBy = &operator.ID
		} else {
			in.CustomerName = fmt.Sprintf("Sim Customer %d", i+1)
		}

		rec, err := recorder.Checkout(ctx, in)
		if err != nil {
			// Running out of stock mid-simulation is expected.
			skipped++
			continue
		}
		recorded++

		if online {
			// Staff complete most orders and cancel the rest.
			if rng.Intn(100) < 80 {
				_ = fulfillment.Complete(ctx, rec.Sale.ID, operator.ID)
			} else {
				_ = fulfillment.Cancel(ctx, rec.Sale.ID, operator.ID)
			}
		}

		if rng.Intn(100) < *returnPct {
			ret, err := processor.Request(ctx, rec.Sale.ID, "Simulated return", rng.Intn(2) == 0, &operator.ID)
			if err == nil {
				returned++
				refund := rec.Sale.TotalAmount * 0.5
				switch rng.Intn(3) {
				case 0:
					_ = processor.Approve(ctx, ret.ID, operator.ID, &refund, "simulated approval")
				case 1:
					_ = processor.Reject(ctx, ret.ID, operator.ID, "simulated rejection")
				default:
					// left pending
				}
			}
		}
	}

	log.Printf("✅ Simulation finished: %d sales recorded, %d skipped (stock), %d returns filed", recorded, skipped, returned)
}
