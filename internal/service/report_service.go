package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"localshop/internal/domain"
	"localshop/internal/pricing"
	"localshop/internal/repository"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
	topN        = 5
)

// DashboardStats are the headline counters of the dashboard
type DashboardStats struct {
	TotalProducts  int     `json:"totalProducts"`
	TotalCustomers int     `json:"totalCustomers"`
	TotalOrders    int     `json:"totalOrders"`
	TotalRevenue   float64 `json:"totalRevenue"`
	TodaySales     float64 `json:"todaySales"`
}

// ProductPerformance aggregates order lines of one product.
// Sales counts units sold.
type ProductPerformance struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Sales     int     `json:"sales"`
	Revenue   float64 `json:"revenue"`
}

// CustomerPerformance aggregates orders of one customer
type CustomerPerformance struct {
	CustomerID string  `json:"customerId"`
	Name       string  `json:"name"`
	Orders     int     `json:"orders"`
	Spent      float64 `json:"spent"`
}

// MonthlyRevenue is the order revenue of one calendar month.
// Month is the English month name; entries are in chronological order.
type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Year    int     `json:"year"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// Report summarises the orders of a date range
type Report struct {
	StartDate         string                `json:"startDate,omitempty"`
	EndDate           string                `json:"endDate,omitempty"`
	TotalSales        float64               `json:"totalSales"`
	TotalOrders       int                   `json:"totalOrders"`
	AverageOrderValue float64               `json:"averageOrderValue"`
	TopProducts       []ProductPerformance  `json:"topProducts"`
	TopCustomers      []CustomerPerformance `json:"topCustomers"`
	MonthlyRevenue    []MonthlyRevenue      `json:"monthlyRevenue"`
}

// LegacyDashboard is the summary shown to a signed-in user
type LegacyDashboard struct {
	Username      string  `json:"username"`
	TotalProducts int     `json:"totalProducts"`
	TotalSales    float64 `json:"totalSales"`
}

// ReportService computes dashboard figures from the stored records
type ReportService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
	Report(ctx context.Context, startDate, endDate string) (*Report, error)
	LegacyDashboard(ctx context.Context, userID string) (*LegacyDashboard, error)
}

type reportService struct {
	repos *repository.Repositories
	now   func() time.Time
}

// NewReportService creates a new instance of ReportService
func NewReportService(repos *repository.Repositories) ReportService {
	return &reportService{repos: repos, now: time.Now}
}

// Stats counts records; revenue is completed orders plus counter sales
func (s *reportService) Stats(ctx context.Context) (*DashboardStats, error) {
	products, err := s.repos.Products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	customers, err := s.repos.Customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	orders, err := s.repos.Orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	sales, err := s.repos.Sales.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count sales: %w", err)
	}

	today := s.now().UTC().Format(dateLayout)
	isToday := func(t time.Time) bool { return t.UTC().Format(dateLayout) == today }

	revenue, todayRevenue := decimal.Zero, decimal.Zero
	for _, o := range orders {
		if o.Status != domain.OrderStatusCompleted {
			continue
		}
		amount := decimal.NewFromFloat(o.Total)
		revenue = revenue.Add(amount)
		if isToday(o.Date) {
			todayRevenue = todayRevenue.Add(amount)
		}
	}
	for _, sale := range sales {
		amount := decimal.NewFromFloat(sale.TotalAmount)
		revenue = revenue.Add(amount)
		if isToday(sale.Date) {
			todayRevenue = todayRevenue.Add(amount)
		}
	}

	return &DashboardStats{
		TotalProducts:  len(products),
		TotalCustomers: len(customers),
		TotalOrders:    len(orders),
		TotalRevenue:   pricing.Round2(revenue),
		TodaySales:     pricing.Round2(todayRevenue),
	}, nil
}

// Report aggregates the non-cancelled orders placed between the two dates, both inclusive.
// Empty dates leave that side of the range open.
func (s *reportService) Report(ctx context.Context, startDate, endDate string) (*Report, error) {
	from, to, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	orders, err := s.repos.Orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	total, count := decimal.Zero, 0
	products := map[string]*productAgg{}
	customers := map[string]*customerAgg{}
	months := map[string]*monthAgg{}

	for _, o := range orders {
		if o.Status == domain.OrderStatusCancelled {
			continue
		}
		if !from.IsZero() && o.Date.Before(from) {
			continue
		}
		if !to.IsZero() && !o.Date.Before(to) {
			continue
		}

		amount := decimal.NewFromFloat(o.Total)
		total = total.Add(amount)
		count++

		for _, item := range o.Items {
			p := products[item.ProductID]
			if p == nil {
				p = &productAgg{name: item.ProductName}
				products[item.ProductID] = p
			}
			p.quantity += item.Quantity
			p.revenue = p.revenue.Add(pricing.LineTotal(item.Quantity, item.Price))
		}

		c := customers[o.CustomerID]
		if c == nil {
			c = &customerAgg{name: o.CustomerName}
			customers[o.CustomerID] = c
		}
		c.orders++
		c.spent = c.spent.Add(amount)

		month := o.Date.UTC().Format(monthLayout)
		m := months[month]
		if m == nil {
			m = &monthAgg{start: time.Date(o.Date.UTC().Year(), o.Date.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)}
			months[month] = m
		}
		m.orders++
		m.revenue = m.revenue.Add(amount)
	}

	report := &Report{
		StartDate:      startDate,
		EndDate:        endDate,
		TotalSales:     pricing.Round2(total),
		TotalOrders:    count,
		TopProducts:    topProducts(products),
		TopCustomers:   topCustomers(customers),
		MonthlyRevenue: monthlyRevenue(months),
	}
	if count > 0 {
		report.AverageOrderValue = pricing.Round2(total.Div(decimal.NewFromInt(int64(count))))
	}
	return report, nil
}

// LegacyDashboard greets the user with the catalog size and the amount sold
func (s *reportService) LegacyDashboard(ctx context.Context, userID string) (*LegacyDashboard, error) {
	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	products, err := s.repos.Products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	sales, err := s.repos.Sales.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum sales: %w", err)
	}

	total := decimal.Zero
	for _, sale := range sales {
		total = total.Add(decimal.NewFromFloat(sale.TotalAmount))
	}

	return &LegacyDashboard{
		Username:      user.Name,
		TotalProducts: len(products),
		TotalSales:    pricing.Round2(total),
	}, nil
}

// parseRange returns [from, to) where to is the day after endDate
func parseRange(startDate, endDate string) (from, to time.Time, err error) {
	if startDate != "" {
		if from, err = time.Parse(dateLayout, startDate); err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDateRange
		}
	}
	if endDate != "" {
		end, err := time.Parse(dateLayout, endDate)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDateRange
		}
		to = end.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return from, to, nil
}

type productAgg struct {
	name     string
	quantity int
	revenue  decimal.Decimal
}

type customerAgg struct {
	name   string
	orders int
	spent  decimal.Decimal
}

type monthAgg struct {
	start   time.Time
	orders  int
	revenue decimal.Decimal
}

func topProducts(aggs map[string]*productAgg) []ProductPerformance {
	out := make([]ProductPerformance, 0, len(aggs))
	for id, a := range aggs {
		out = append(out, ProductPerformance{
			ProductID: id,
			Name:      a.name,
			Sales:     a.quantity,
			Revenue:   pricing.Round2(a.revenue),
		})
	}
	slices.SortFunc(out, func(a, b ProductPerformance) int {
		if c := cmp.Compare(b.Sales, a.Sales); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Revenue, a.Revenue); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	return out[:min(len(out), topN)]
}

func topCustomers(aggs map[string]*customerAgg) []CustomerPerformance {
	out := make([]CustomerPerformance, 0, len(aggs))
	for id, a := range aggs {
		out = append(out, CustomerPerformance{
			CustomerID: id,
			Name:       a.name,
			Orders:     a.orders,
			Spent:      pricing.Round2(a.spent),
		})
	}
	slices.SortFunc(out, func(a, b CustomerPerformance) int {
		if c := cmp.Compare(b.Spent, a.Spent); c != 0 {
			return c
		}
		return cmp.Compare(a.CustomerID, b.CustomerID)
	})
	return out[:min(len(out), topN)]
}

func monthlyRevenue(aggs map[string]*monthAgg) []MonthlyRevenue {
	keys := make([]string, 0, len(aggs))
	for key := range aggs {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	out := make([]MonthlyRevenue, 0, len(keys))
	for _, key := range keys {
		a := aggs[key]
		out = append(out, MonthlyRevenue{
			Month:   a.start.Month().String(),
			Year:    a.start.Year(),
			Orders:  a.orders,
			Revenue: pricing.Round2(a.revenue),
		})
	}
	return out
}
