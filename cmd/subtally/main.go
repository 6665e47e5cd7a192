package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/subtally/subtally/internal/config"
	"github.com/subtally/subtally/internal/domain/aggregation"
	"github.com/subtally/subtally/internal/domain/calendar"
	"github.com/subtally/subtally/internal/domain/subscription"
	ierr "github.com/subtally/subtally/internal/errors"
	"github.com/subtally/subtally/internal/logger"
	"github.com/subtally/subtally/internal/service"
	"github.com/subtally/subtally/internal/types"
)

// subtally projects a subscription fixture file onto a month grid and prints
// the spend figures, mainly for poking at the engine from a terminal.
func main() {
	fixturePath := flag.String("subscriptions", "subscriptions.yaml", "path to the subscription fixture file")
	monthFlag := flag.String("month", "", "month to project, YYYY-MM (defaults to the current month)")
	flag.Parse()

	if err := run(*fixturePath, *monthFlag); err != nil {
		fmt.Fprintln(os.Stderr, "subtally:", err)
		os.Exit(1)
	}
}

func run(fixturePath, monthFlag string) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	subs, err := loadFixtures(fixturePath)
	if err != nil {
		return err
	}
	log.Infow("loaded subscriptions", "path", fixturePath, "count", len(subs))

	month := time.Now().UTC()
	if monthFlag != "" {
		month, err = time.Parse("2006-01", monthFlag)
		if err != nil {
			return fmt.Errorf("parsing -month: %w", err)
		}
	}

	svc := service.NewBillingScheduleService(service.NewServiceParams(
		log, cfg, nil, &fixtureRepo{subs: subs}, nil,
	))

	ctx := context.Background()

	dates, err := svc.GetCalendarMonth(ctx, month)
	if err != nil {
		return err
	}
	printCalendar(month, dates, cfg.Calendar.FirstWeekday())

	due, err := svc.GetDueThisMonth(ctx, month)
	if err != nil {
		return err
	}
	avg, err := svc.GetAverageMonthlySpend(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("\nDue this month:   %s %s\n", due.StringFixed(2), cfg.Currency.Display)
	fmt.Printf("Average monthly:  %s %s\n", avg.StringFixed(2), cfg.Currency.Display)

	breakdown, err := svc.GetTagBreakdown(ctx)
	if err != nil {
		return err
	}
	printBreakdown(breakdown, cfg.Currency.Display)

	return printNextBilling(ctx, svc, subs)
}

// fixtureRepo is a slice-backed read-only subscription source.
type fixtureRepo struct {
	subs []*subscription.Subscription
}

func (r *fixtureRepo) Get(_ context.Context, id string) (*subscription.Subscription, error) {
	for _, sub := range r.subs {
		if sub.ID == id {
			return sub, nil
		}
	}
	return nil, ierr.NewErrorf("subscription %s not found", id).
		Mark(ierr.ErrNotFound)
}

func (r *fixtureRepo) List(_ context.Context) ([]*subscription.Subscription, error) {
	return r.subs, nil
}

func (r *fixtureRepo) ListActive(_ context.Context) ([]*subscription.Subscription, error) {
	out := make([]*subscription.Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		if sub.Active {
			out = append(out, sub)
		}
	}
	return out, nil
}

type fixtureFile struct {
	Subscriptions []fixtureSubscription `yaml:"subscriptions"`
}

type fixtureSubscription struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Price      string   `yaml:"price"`
	Currency   string   `yaml:"currency"`
	Period     string   `yaml:"period"`
	AnchorDate string   `yaml:"anchor_date"`
	Active     *bool    `yaml:"active"`
	Tags       []string `yaml:"tags"`
}

func loadFixtures(path string) ([]*subscription.Subscription, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file fixtureFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	subs := make([]*subscription.Subscription, 0, len(file.Subscriptions))
	for i, fx := range file.Subscriptions {
		sub, err := fx.toSubscription()
		if err != nil {
			return nil, fmt.Errorf("subscription %d (%s): %w", i, fx.Name, err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (fx fixtureSubscription) toSubscription() (*subscription.Subscription, error) {
	price, err := decimal.NewFromString(fx.Price)
	if err != nil {
		return nil, fmt.Errorf("parsing price: %w", err)
	}
	anchor, err := time.Parse(time.DateOnly, fx.AnchorDate)
	if err != nil {
		return nil, fmt.Errorf("parsing anchor_date: %w", err)
	}

	id := fx.ID
	if id == "" {
		id = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION)
	}

	active := true
	if fx.Active != nil {
		active = *fx.Active
	}

	tags := make([]subscription.Tag, 0, len(fx.Tags))
	for _, name := range fx.Tags {
		// tag ids derive from the name so the same tag in different
		// subscriptions lands in one breakdown bucket
		tags = append(tags, subscription.Tag{
			ID:   types.UUID_PREFIX_TAG + "_" + strings.ToLower(name),
			Name: name,
		})
	}

	sub := &subscription.Subscription{
		ID:         id,
		Name:       fx.Name,
		Price:      price,
		Currency:   strings.ToUpper(fx.Currency),
		Period:     types.RecurrencePeriod(strings.ToUpper(fx.Period)),
		AnchorDate: anchor,
		Active:     active,
		Tags:       tags,
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	return sub, nil
}

func printCalendar(month time.Time, dates []calendar.Date, weekStart time.Weekday) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(month.Format("January 2006"))

	header := table.Row{}
	for i := 0; i < 7; i++ {
		header = append(header, time.Weekday((int(weekStart)+i)%7).String()[:3])
	}
	t.AppendHeader(header)

	for week := 0; week < len(dates)/7; week++ {
		row := table.Row{}
		for i := 0; i < 7; i++ {
			row = append(row, formatCell(dates[week*7+i]))
		}
		t.AppendRow(row)
	}
	t.Render()
}

func formatCell(d calendar.Date) string {
	cell := fmt.Sprintf("%2d", d.Date.Day())
	if !d.InMonth {
		cell = "." + cell[1:]
	}
	if d.IsToday {
		cell = "[" + strings.TrimSpace(cell) + "]"
	}
	for range d.Subscriptions {
		cell += "*"
	}
	return cell
}

func printBreakdown(rows []aggregation.TagCost, display string) {
	if len(rows) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Spend by tag")
	t.AppendHeader(table.Row{"Tag", "Monthly " + display, "%"})

	for _, row := range rows {
		t.AppendRow(table.Row{
			row.TagName,
			row.Total.StringFixed(2),
			row.Percentage.StringFixed(1),
		})
	}
	fmt.Println()
	t.Render()
}

func printNextBilling(ctx context.Context, svc service.BillingScheduleService, subs []*subscription.Subscription) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Next billing")
	t.AppendHeader(table.Row{"Subscription", "Period", "Next date"})

	for _, sub := range subs {
		if !sub.Active {
			continue
		}
		next, err := svc.GetNextBillingDate(ctx, sub.ID)
		if err != nil {
			if ierr.IsInvalidRecurrence(err) {
				t.AppendRow(table.Row{sub.Name, sub.Period, "none"})
				continue
			}
			return err
		}
		t.AppendRow(table.Row{sub.Name, sub.Period, next.Format(time.DateOnly)})
	}
	fmt.Println()
	t.Render()
	return nil
}
