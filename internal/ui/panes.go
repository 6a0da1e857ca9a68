package ui

import (
	"context"
	"fmt"
	"strings"

	"hangarview/internal/api"
	"hangarview/internal/domain"
	"hangarview/internal/listsync"
	"hangarview/internal/ui/views"
)

// viewKind identifies one of the three list views
type viewKind int

const (
	viewGear viewKind = iota
	viewBatteries
	viewAircraft
)

func (v viewKind) String() string {
	switch v {
	case viewGear:
		return "gear"
	case viewBatteries:
		return "batteries"
	case viewAircraft:
		return "aircraft"
	}
	return "unknown"
}

// listPane erases the loader's type parameters so the model can hold the
// three differently-typed list views in one slice. Each pane owns its
// filter set, its loader, and its row/detail rendering.
type listPane interface {
	Title() string
	Kind() viewKind
	Filters() *domain.SearchFilters
	Reset(ctx context.Context, force bool) bool
	LoadMore(ctx context.Context) bool
	Status() listsync.Status
	Len() int
	Row(i int, selected bool, st *views.Styles) string
	DetailText(i int) string
	ItemID(i int) string
	Moderatable() bool
	ClearError()
}

// gearPane is the moderation view over the gear catalog
type gearPane struct {
	filters domain.SearchFilters
	loader  *listsync.Loader[domain.SearchFilters, domain.GearItem]
}

func newGearPane(client *api.Client, limit int, sort domain.SortOrder, notify func(viewKind)) *gearPane {
	p := &gearPane{filters: domain.SearchFilters{Sort: sort}}
	p.loader = listsync.New(
		func(ctx context.Context, f domain.SearchFilters, limit, offset int) (listsync.Page[domain.GearItem], error) {
			items, total, err := client.SearchGear(ctx, f, limit, offset)
			return listsync.Page[domain.GearItem]{Items: items, TotalCount: total}, err
		},
		func() domain.SearchFilters { return p.filters },
		listsync.WithLimit(limit),
		listsync.WithNotify(func() { notify(viewGear) }),
	)
	return p
}

func (p *gearPane) Title() string                  { return "Gear" }
func (p *gearPane) Kind() viewKind                 { return viewGear }
func (p *gearPane) Filters() *domain.SearchFilters { return &p.filters }
func (p *gearPane) Reset(ctx context.Context, force bool) bool {
	return p.loader.Reset(ctx, force)
}
func (p *gearPane) LoadMore(ctx context.Context) bool { return p.loader.LoadMore(ctx) }
func (p *gearPane) Status() listsync.Status           { return p.loader.Status() }
func (p *gearPane) Len() int                          { return p.loader.Len() }
func (p *gearPane) Moderatable() bool                 { return true }
func (p *gearPane) ClearError()                       { p.loader.ClearError() }

func (p *gearPane) ItemID(i int) string {
	if g, ok := p.loader.Item(i); ok {
		return g.ID
	}
	return ""
}

func (p *gearPane) Row(i int, selected bool, st *views.Styles) string {
	g, ok := p.loader.Item(i)
	if !ok {
		return ""
	}
	badge := statusBadge(g.Status, st)
	row := fmt.Sprintf("%-28s %-14s %-9s %5dg  %8s  %s",
		truncate(g.Name, 28), truncate(g.Brand, 14), truncate(g.Category, 9),
		g.WeightGrams, formatPrice(g.PriceCents), badge)
	if selected {
		return st.SelectionBg.Render(row)
	}
	return row
}

func (p *gearPane) DetailText(i int) string {
	g, ok := p.loader.Item(i)
	if !ok {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", g.Name)
	fmt.Fprintf(&b, "Brand:       %s\n", g.Brand)
	fmt.Fprintf(&b, "Category:    %s\n", g.Category)
	fmt.Fprintf(&b, "Weight:      %d g\n", g.WeightGrams)
	fmt.Fprintf(&b, "Price:       %s\n", formatPrice(g.PriceCents))
	fmt.Fprintf(&b, "Status:      %s\n", g.Status)
	fmt.Fprintf(&b, "Submitter:   %s\n", g.Submitter)
	fmt.Fprintf(&b, "Added:       %s\n\n", g.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "%s\n", g.Description)
	return b.String()
}

// batteryPane is the battery inventory view
type batteryPane struct {
	filters domain.SearchFilters
	loader  *listsync.Loader[domain.SearchFilters, domain.Battery]
}

func newBatteryPane(client *api.Client, limit int, sort domain.SortOrder, notify func(viewKind)) *batteryPane {
	p := &batteryPane{filters: domain.SearchFilters{Sort: sort}}
	p.loader = listsync.New(
		func(ctx context.Context, f domain.SearchFilters, limit, offset int) (listsync.Page[domain.Battery], error) {
			items, total, err := client.SearchBatteries(ctx, f, limit, offset)
			return listsync.Page[domain.Battery]{Items: items, TotalCount: total}, err
		},
		func() domain.SearchFilters { return p.filters },
		listsync.WithLimit(limit),
		listsync.WithNotify(func() { notify(viewBatteries) }),
	)
	return p
}

func (p *batteryPane) Title() string                  { return "Batteries" }
func (p *batteryPane) Kind() viewKind                 { return viewBatteries }
func (p *batteryPane) Filters() *domain.SearchFilters { return &p.filters }
func (p *batteryPane) Reset(ctx context.Context, force bool) bool {
	return p.loader.Reset(ctx, force)
}
func (p *batteryPane) LoadMore(ctx context.Context) bool { return p.loader.LoadMore(ctx) }
func (p *batteryPane) Status() listsync.Status           { return p.loader.Status() }
func (p *batteryPane) Len() int                          { return p.loader.Len() }
func (p *batteryPane) Moderatable() bool                 { return false }
func (p *batteryPane) ClearError()                       { p.loader.ClearError() }

func (p *batteryPane) ItemID(i int) string {
	if b, ok := p.loader.Item(i); ok {
		return b.ID
	}
	return ""
}

func (p *batteryPane) Row(i int, selected bool, st *views.Styles) string {
	b, ok := p.loader.Item(i)
	if !ok {
		return ""
	}
	health := b.Health
	switch health {
	case "puffy":
		health = st.Pending.Render(health)
	case "retired":
		health = st.Rejected.Render(health)
	default:
		health = st.Approved.Render(health)
	}
	row := fmt.Sprintf("%-24s %-8s %dS %6dmAh  %3d cycles  %s",
		truncate(b.Name, 24), b.Chemistry, b.CellCount, b.CapacityMAh, b.CycleCount, health)
	if selected {
		return st.SelectionBg.Render(row)
	}
	return row
}

func (p *batteryPane) DetailText(i int) string {
	b, ok := p.loader.Item(i)
	if !ok {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", b.Name)
	fmt.Fprintf(&sb, "Brand:       %s\n", b.Brand)
	fmt.Fprintf(&sb, "Chemistry:   %s\n", b.Chemistry)
	fmt.Fprintf(&sb, "Capacity:    %d mAh\n", b.CapacityMAh)
	fmt.Fprintf(&sb, "Cells:       %dS\n", b.CellCount)
	fmt.Fprintf(&sb, "Cycles:      %d\n", b.CycleCount)
	fmt.Fprintf(&sb, "Weight:      %d g\n", b.WeightGrams)
	fmt.Fprintf(&sb, "Health:      %s\n", b.Health)
	fmt.Fprintf(&sb, "Added:       %s\n", b.CreatedAt.Format("2006-01-02 15:04"))
	return sb.String()
}

// aircraftPane is the aircraft inventory view
type aircraftPane struct {
	filters domain.SearchFilters
	loader  *listsync.Loader[domain.SearchFilters, domain.Aircraft]
}

func newAircraftPane(client *api.Client, limit int, sort domain.SortOrder, notify func(viewKind)) *aircraftPane {
	p := &aircraftPane{filters: domain.SearchFilters{Sort: sort}}
	p.loader = listsync.New(
		func(ctx context.Context, f domain.SearchFilters, limit, offset int) (listsync.Page[domain.Aircraft], error) {
			items, total, err := client.SearchAircraft(ctx, f, limit, offset)
			return listsync.Page[domain.Aircraft]{Items: items, TotalCount: total}, err
		},
		func() domain.SearchFilters { return p.filters },
		listsync.WithLimit(limit),
		listsync.WithNotify(func() { notify(viewAircraft) }),
	)
	return p
}

func (p *aircraftPane) Title() string                  { return "Aircraft" }
func (p *aircraftPane) Kind() viewKind                 { return viewAircraft }
func (p *aircraftPane) Filters() *domain.SearchFilters { return &p.filters }
func (p *aircraftPane) Reset(ctx context.Context, force bool) bool {
	return p.loader.Reset(ctx, force)
}
func (p *aircraftPane) LoadMore(ctx context.Context) bool { return p.loader.LoadMore(ctx) }
func (p *aircraftPane) Status() listsync.Status           { return p.loader.Status() }
func (p *aircraftPane) Len() int                          { return p.loader.Len() }
func (p *aircraftPane) Moderatable() bool                 { return false }
func (p *aircraftPane) ClearError()                       { p.loader.ClearError() }

func (p *aircraftPane) ItemID(i int) string {
	if a, ok := p.loader.Item(i); ok {
		return a.ID
	}
	return ""
}

func (p *aircraftPane) Row(i int, selected bool, st *views.Styles) string {
	a, ok := p.loader.Item(i)
	if !ok {
		return ""
	}
	span := "-"
	if a.WingspanMM > 0 {
		span = fmt.Sprintf("%dmm", a.WingspanMM)
	}
	row := fmt.Sprintf("%-20s %-8s %d motor(s) %8s  %3d flights",
		truncate(a.Name, 20), a.Frame, a.MotorCount, span, a.FlightCount)
	if selected {
		return st.SelectionBg.Render(row)
	}
	return row
}

func (p *aircraftPane) DetailText(i int) string {
	a, ok := p.loader.Item(i)
	if !ok {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", a.Name)
	fmt.Fprintf(&b, "Frame:       %s\n", a.Frame)
	if a.WingspanMM > 0 {
		fmt.Fprintf(&b, "Wingspan:    %d mm\n", a.WingspanMM)
	}
	fmt.Fprintf(&b, "Motors:      %d\n", a.MotorCount)
	fmt.Fprintf(&b, "Weight:      %d g\n", a.WeightGrams)
	fmt.Fprintf(&b, "Flights:     %d\n", a.FlightCount)
	fmt.Fprintf(&b, "Added:       %s\n", a.CreatedAt.Format("2006-01-02 15:04"))
	return b.String()
}

func statusBadge(s domain.ModerationStatus, st *views.Styles) string {
	switch s {
	case domain.StatusApproved:
		return st.Approved.Render("approved")
	case domain.StatusRejected:
		return st.Rejected.Render("rejected")
	default:
		return st.Pending.Render("pending")
	}
}

func formatPrice(cents int) string {
	if cents == 0 {
		return "-"
	}
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

// truncate shortens s to max runes; byte slicing would split multi-byte
// names mid-rune
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
