// Package services implements the analysis operations behind the tool
// surface: listing and resolving customers, computing health scores, and
// planning recommendations.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/apperrors"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/datasource"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/logging"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/recommend"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/resolver"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/router"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/scoring"
)

// Record fetch ceilings. The customer table is read whole up to the cap;
// companion tables are read once per operation, not per customer.
const (
	customerFetchLimit  = 1000
	companionFetchLimit = 5000
)

// Companion table names tried on the connected source, in order.
var (
	usageTableNames   = []string{datasource.StaticUsageTable, "Usage Data", "Product Usage"}
	supportTableNames = []string{datasource.StaticSupportTable, "Support Tickets", "Tickets"}
)

// Analyzer runs the analysis pipeline against whatever source the router
// has active.
type Analyzer struct {
	router   *router.Router
	enhancer *recommend.Enhancer
	logger   *zap.Logger
	now      func() time.Time
}

// NewAnalyzer creates the service. enhancer may be nil when reasoning
// enhancement is not configured.
func NewAnalyzer(r *router.Router, enhancer *recommend.Enhancer, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		router:   r,
		enhancer: enhancer,
		logger:   logger.Named("analyzer"),
		now:      time.Now,
	}
}

// CustomerDetails is one customer with their raw activity aggregates.
type CustomerDetails struct {
	Customer models.Customer        `json:"customer"`
	Usage    []models.UsageRecord   `json:"usage,omitempty"`
	Tickets  []models.SupportTicket `json:"tickets,omitempty"`
}

// FleetSummary aggregates an analyze-all run.
type FleetSummary struct {
	Customers    int      `json:"customers"`
	Healthy      int      `json:"healthy"`
	AtRisk       int      `json:"at_risk"`
	Critical     int      `json:"critical"`
	AverageScore float64  `json:"average_score"`
	WorstThree   []string `json:"worst_three,omitempty"`
}

// AnalysisReport is the analyze operation output: scores worst-first, with
// a fleet summary when the whole book was analyzed.
type AnalysisReport struct {
	Scores  []models.HealthScore `json:"scores"`
	Summary *FleetSummary        `json:"summary,omitempty"`
}

// ListCustomers returns every customer on the active source, normalized and
// sorted by customer id.
func (a *Analyzer) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	active, err := a.active()
	if err != nil {
		return nil, err
	}
	records, err := a.fetchCustomers(ctx, active)
	if err != nil {
		return nil, err
	}

	customers := make([]models.Customer, 0, len(records))
	for _, rec := range records {
		c := CustomerFromRecord(rec, active.Connection.Mapping)
		if c.CustomerID == "" {
			continue // row carries no usable identity
		}
		customers = append(customers, c)
	}
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].CustomerID < customers[j].CustomerID
	})
	return customers, nil
}

// GetCustomer resolves one customer by email, id, or name fragment.
func (a *Analyzer) GetCustomer(ctx context.Context, key string) (models.Customer, error) {
	active, err := a.active()
	if err != nil {
		return models.Customer{}, err
	}
	records, err := a.fetchCustomers(ctx, active)
	if err != nil {
		return models.Customer{}, err
	}
	rec, err := resolver.Resolve(records, active.Connection.Mapping, key)
	if err != nil {
		return models.Customer{}, err
	}
	return CustomerFromRecord(rec, active.Connection.Mapping), nil
}

// GetCustomerDetails resolves one customer and attaches their usage and
// support history from the companion tables.
func (a *Analyzer) GetCustomerDetails(ctx context.Context, key string) (CustomerDetails, error) {
	active, err := a.active()
	if err != nil {
		return CustomerDetails{}, err
	}
	customer, err := a.GetCustomer(ctx, key)
	if err != nil {
		return CustomerDetails{}, err
	}

	usageRaw, supportRaw := a.fetchCompanions(ctx, active)
	return CustomerDetails{
		Customer: customer,
		Usage:    usageFor(customer, usageRaw),
		Tickets:  ticketsFor(customer, supportRaw),
	}, nil
}

// Analyze scores one customer, or the whole book when key is empty. Scores
// come back worst-first so the output leads with who needs attention.
func (a *Analyzer) Analyze(ctx context.Context, key string) (AnalysisReport, error) {
	active, err := a.active()
	if err != nil {
		return AnalysisReport{}, err
	}

	if key != "" {
		customer, err := a.GetCustomer(ctx, key)
		if err != nil {
			return AnalysisReport{}, err
		}
		usageRaw, supportRaw := a.fetchCompanions(ctx, active)
		score := a.score(customer, usageRaw, supportRaw)
		return AnalysisReport{Scores: []models.HealthScore{score}}, nil
	}

	customers, err := a.ListCustomers(ctx)
	if err != nil {
		return AnalysisReport{}, err
	}
	usageRaw, supportRaw := a.fetchCompanions(ctx, active)

	scores := make([]models.HealthScore, 0, len(customers))
	for _, c := range customers {
		scores = append(scores, a.score(c, usageRaw, supportRaw))
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Composite != scores[j].Composite {
			return scores[i].Composite < scores[j].Composite
		}
		return scores[i].CustomerID < scores[j].CustomerID
	})
	return AnalysisReport{Scores: scores, Summary: summarize(scores)}, nil
}

// Recommend plans actions for one customer. The deterministic plan always
// stands; reasoning text is enhanced only when a generator is configured
// and answers in time.
func (a *Analyzer) Recommend(ctx context.Context, key string) ([]models.Recommendation, error) {
	active, err := a.active()
	if err != nil {
		return nil, err
	}
	customer, err := a.GetCustomer(ctx, key)
	if err != nil {
		return nil, err
	}

	usageRaw, supportRaw := a.fetchCompanions(ctx, active)
	score := a.score(customer, usageRaw, supportRaw)

	recs := recommend.Plan(score, customer)
	return a.enhancer.Enhance(ctx, customer, score, recs), nil
}

func (a *Analyzer) active() (*router.Active, error) {
	active := a.router.Snapshot()
	if active == nil {
		return nil, fmt.Errorf("no data source connected: %w", apperrors.ErrUnknownSource)
	}
	return active, nil
}

func (a *Analyzer) fetchCustomers(ctx context.Context, active *router.Active) ([]models.RawRecord, error) {
	records, err := active.Provider.FetchRecords(ctx, active.Connection.Table, customerFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch customers from %s: %w", active.Connection.Table, err)
	}
	return records, nil
}

// fetchCompanions reads the usage and support tables. Their absence is
// normal on sparse sources and degrades scores rather than failing.
func (a *Analyzer) fetchCompanions(ctx context.Context, active *router.Active) (usage, support []models.RawRecord) {
	usage = a.fetchFirstPresent(ctx, active, usageTableNames)
	support = a.fetchFirstPresent(ctx, active, supportTableNames)
	return usage, support
}

func (a *Analyzer) fetchFirstPresent(ctx context.Context, active *router.Active, names []string) []models.RawRecord {
	for _, name := range names {
		records, err := active.Provider.FetchRecords(ctx, name, companionFetchLimit)
		if err == nil {
			return records
		}
		if errors.Is(err, apperrors.ErrTableNotFound) {
			continue
		}
		a.logger.Debug("companion table unavailable",
			zap.String("table", name),
			zap.String("error", logging.SanitizeError(err)))
		return nil
	}
	return nil
}

func (a *Analyzer) score(c models.Customer, usageRaw, supportRaw []models.RawRecord) models.HealthScore {
	return scoring.Compute(scoring.Inputs{
		Customer: c,
		Usage:    usageFor(c, usageRaw),
		Tickets:  ticketsFor(c, supportRaw),
	}, a.now())
}

func usageFor(c models.Customer, raw []models.RawRecord) []models.UsageRecord {
	var out []models.UsageRecord
	for _, rec := range raw {
		if belongsTo(rec, c) {
			out = append(out, UsageFromRecord(rec))
		}
	}
	return out
}

func ticketsFor(c models.Customer, raw []models.RawRecord) []models.SupportTicket {
	var out []models.SupportTicket
	for _, rec := range raw {
		if belongsTo(rec, c) {
			out = append(out, TicketFromRecord(rec))
		}
	}
	return out
}

func summarize(scores []models.HealthScore) *FleetSummary {
	s := &FleetSummary{Customers: len(scores)}
	if len(scores) == 0 {
		return s
	}

	total := 0
	for _, sc := range scores {
		total += sc.Composite
		switch sc.Status {
		case models.StatusHealthy:
			s.Healthy++
		case models.StatusAtRisk:
			s.AtRisk++
		default:
			s.Critical++
		}
	}
	s.AverageScore = float64(total) / float64(len(scores))

	// Scores arrive worst-first.
	for _, sc := range scores[:min(3, len(scores))] {
		s.WorstThree = append(s.WorstThree, sc.CustomerID)
	}
	return s
}
