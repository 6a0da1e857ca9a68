package catalog

import (
	"fmt"
	"time"

	"hangarview/internal/domain"
)

// Seed fills the store with a demo data set large enough to exercise
// pagination on every collection
func Seed(store *Store) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	gear := []domain.GearItem{
		{Name: "TX16S Mark II", Brand: "RadioMaster", Category: "radio", WeightGrams: 736, PriceCents: 19999, Status: domain.StatusApproved, Submitter: "kestrel", Description: "16-channel multi-protocol radio, hall gimbals."},
		{Name: "Zorro", Brand: "RadioMaster", Category: "radio", WeightGrams: 350, PriceCents: 8999, Status: domain.StatusApproved, Submitter: "kestrel", Description: "Game-pad style radio with ExpressLRS module."},
		{Name: "Tango 2 Pro", Brand: "TBS", Category: "radio", WeightGrams: 340, PriceCents: 17999, Status: domain.StatusPending, Submitter: "mavrik", Description: "Compact Crossfire radio with folding gimbals."},
		{Name: "D8 Duo", Brand: "ToolkitRC", Category: "charger", WeightGrams: 338, PriceCents: 8499, Status: domain.StatusApproved, Submitter: "ada", Description: "Dual-channel 500W AC/DC charger."},
		{Name: "M6DAC", Brand: "ToolkitRC", Category: "charger", WeightGrams: 212, PriceCents: 6999, Status: domain.StatusPending, Submitter: "ada", Description: "Pocket smart charger with USB-C PD input."},
		{Name: "HDZero Goggle", Brand: "HDZero", Category: "fpv", WeightGrams: 290, PriceCents: 54999, Status: domain.StatusApproved, Submitter: "mavrik", Description: "Digital FPV goggles with low-latency link."},
		{Name: "Goggles 2", Brand: "DJI", Category: "fpv", WeightGrams: 290, PriceCents: 64900, Status: domain.StatusRejected, Submitter: "drifter", Description: "Duplicate listing of existing catalog entry."},
		{Name: "Nazgul F5", Brand: "iFlight", Category: "prop", WeightGrams: 4, PriceCents: 399, Status: domain.StatusApproved, Submitter: "kestrel", Description: "5-inch tri-blade props, pack of four."},
	}
	for i, g := range gear {
		g.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		store.AddGear(g)
	}

	// Generated long tail so gear search paginates past two pages with the
	// default page size of 30.
	servoBrands := []string{"Savox", "Emax", "KST", "Corona"}
	for i := 0; i < 57; i++ {
		brand := servoBrands[i%len(servoBrands)]
		store.AddGear(domain.GearItem{
			Name:        fmt.Sprintf("%s Servo S-%02d", brand, i+1),
			Brand:       brand,
			Category:    "servo",
			WeightGrams: 9 + i%23,
			PriceCents:  899 + 150*(i%7),
			Status:      statusFor(i),
			Submitter:   "importer",
			Description: fmt.Sprintf("Metal-gear micro servo, batch %d.", i/10+1),
			CreatedAt:   base.Add(time.Duration(100+i) * time.Hour),
		})
	}

	chemistries := []string{"LiPo", "Li-Ion", "NiMH"}
	healths := []string{"good", "good", "good", "puffy", "retired"}
	for i := 0; i < 34; i++ {
		chem := chemistries[i%len(chemistries)]
		store.AddBattery(domain.Battery{
			Name:        fmt.Sprintf("%s %dS Pack #%02d", chem, 3+i%4, i+1),
			Brand:       []string{"CNHL", "Tattu", "GNB"}[i%3],
			Chemistry:   chem,
			CapacityMAh: 650 + 250*(i%8),
			CellCount:   3 + i%4,
			CycleCount:  i * 7 % 120,
			WeightGrams: 80 + 30*(i%8),
			Health:      healths[i%len(healths)],
			CreatedAt:   base.Add(time.Duration(i) * 6 * time.Hour),
		})
	}

	frames := []string{"quad", "wing", "glider", "heli"}
	names := []string{"Gremlin", "Talon", "Drift", "Breeze", "Vortex", "Pika", "Maul", "Skua", "Crow", "Falco", "Heron", "Wisp"}
	for i, name := range names {
		frame := frames[i%len(frames)]
		store.AddAircraft(domain.Aircraft{
			Name:        name,
			Frame:       frame,
			WingspanMM:  wingspanFor(frame, i),
			MotorCount:  motorsFor(frame),
			WeightGrams: 250 + 85*i,
			FlightCount: i * 13 % 90,
			CreatedAt:   base.Add(time.Duration(i) * 24 * time.Hour),
		})
	}
}

func statusFor(i int) domain.ModerationStatus {
	switch i % 5 {
	case 0:
		return domain.StatusPending
	case 4:
		return domain.StatusRejected
	default:
		return domain.StatusApproved
	}
}

func wingspanFor(frame string, i int) int {
	switch frame {
	case "wing":
		return 900 + 50*i
	case "glider":
		return 1500 + 100*i
	default:
		return 0
	}
}

func motorsFor(frame string) int {
	if frame == "quad" {
		return 4
	}
	return 1
}
