package briefing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ryokan-ops/stayboard/internal/engine"
	"github.com/ryokan-ops/stayboard/internal/llm"
	"github.com/ryokan-ops/stayboard/internal/metrics"
)

// Stats are the engine aggregates a briefing is built from.
type Stats struct {
	Today   *engine.TodaySnapshot
	Trend   []engine.TrendPoint
	Ranking []engine.RankedBuilding
}

// Signals carry the external context supplied by the caller. All fields are
// optional; blank ones are omitted from the prompt.
type Signals struct {
	ExchangeRate string
	Weather      string
	Events       string
	News         string
}

type Service struct {
	log *zap.Logger
	eng *engine.Engine
	llm *llm.Client
}

func NewService(log *zap.Logger, eng *engine.Engine, llmClient *llm.Client) *Service {
	return &Service{log: log, eng: eng, llm: llmClient}
}

// BuildPrompt assembles the morning-briefing prompt. Pure: everything it
// needs arrives as arguments.
func BuildPrompt(date time.Time, stats Stats, sig Signals) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are preparing the morning operations briefing for a guesthouse group on %s.\n\n", date.Format("2006-01-02"))

	if t := stats.Today; t != nil {
		fmt.Fprintf(&b, "Today: %d arrivals, %d departures, %d rooms occupied (%.1f%% occupancy), %d new bookings, estimated revenue %.0f JPY.\n",
			t.Arrivals, t.Departures, t.OccupiedRooms, t.OccupancyRate, t.NewBookings, t.Revenue)
	}
	if n := len(stats.Trend); n > 0 {
		cur := stats.Trend[n-1]
		fmt.Fprintf(&b, "Current month (%s): %.1f%% occupancy, revenue %.0f JPY", cur.YearMonth, cur.OccupancyRate, cur.Revenue)
		if cur.LowSeason {
			b.WriteString(" (low season)")
		}
		b.WriteString(".\n")
	}
	if len(stats.Ranking) > 0 {
		b.WriteString("Building revenue ranking this month:\n")
		for i, r := range stats.Ranking {
			fmt.Fprintf(&b, "  %d. %s: %.0f JPY\n", i+1, r.Name, r.Value)
		}
	}

	ext := []struct{ label, value string }{
		{"Exchange rate", sig.ExchangeRate},
		{"Weather", sig.Weather},
		{"Local events", sig.Events},
		{"News", sig.News},
	}
	wrote := false
	for _, e := range ext {
		if e.value == "" {
			continue
		}
		if !wrote {
			b.WriteString("\nExternal context:\n")
			wrote = true
		}
		fmt.Fprintf(&b, "- %s: %s\n", e.label, e.value)
	}

	b.WriteString("\nWrite a concise briefing (under 200 words) for the operations team: " +
		"summarize the day ahead, flag anything unusual, and suggest one action if the numbers warrant it.")
	return b.String()
}

// Generate collects today's aggregates and asks the model for the briefing
// text.
func (s *Service) Generate(ctx context.Context, date time.Time, sig Signals) (string, error) {
	today, err := s.eng.Today(ctx, date)
	if err != nil {
		metrics.BriefingRunsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("briefing stats: %w", err)
	}
	trend, err := s.eng.MonthlyTrend(ctx, date, "")
	if err != nil {
		metrics.BriefingRunsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("briefing trend: %w", err)
	}
	ranking, err := s.eng.BuildingRanking(ctx, date)
	if err != nil {
		metrics.BriefingRunsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("briefing ranking: %w", err)
	}

	prompt := BuildPrompt(date, Stats{Today: today, Trend: trend, Ranking: ranking}, sig)
	text, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		metrics.BriefingRunsTotal.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.BriefingRunsTotal.WithLabelValues("ok").Inc()
	s.log.Info("briefing generated", zap.String("date", date.Format("2006-01-02")), zap.Int("chars", len(text)))
	return text, nil
}
