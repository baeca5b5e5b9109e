package agenda

import (
	"fmt"
	"math"
	"sort"
	"time"

	"catering/entities"
)

const (
	KindPendingProposal = "pending_proposal"
	KindFollowUp        = "follow_up"
	KindCapacity        = "capacity"
	KindContract        = "unsigned_contract"
)

type Config struct {
	FollowUpAfter     time.Duration
	ContractStaleDays int
	HorizonDays       int
	DailyCapacity     int
	CapacityWarnPct   float64
}

func DefaultConfig() Config {
	return Config{
		FollowUpAfter:     48 * time.Hour,
		ContractStaleDays: 5,
		HorizonDays:       30,
		DailyCapacity:     200,
		CapacityWarnPct:   85,
	}
}

// Snapshot is the read-only state the agenda is derived from.
type Snapshot struct {
	Pending   []entities.Proposal
	Sent      []entities.Proposal
	Events    []entities.CalendarEvent
	Contracts []entities.Contract

	Requests30  int64
	Proposals30 int64
	Approved    []entities.Proposal
}

type Suggestion struct {
	Kind     string     `json:"kind"`
	Priority string     `json:"priority"`
	Title    string     `json:"title"`
	Message  string     `json:"message"`
	EntityID string     `json:"entityId,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
}

type DayLoad struct {
	Date    string  `json:"date"`
	Guests  int     `json:"guests"`
	Events  int     `json:"events"`
	Percent float64 `json:"percent"`
}

type Metrics struct {
	Requests  int64   `json:"requests"`
	Proposals int64   `json:"proposals"`
	Approvals int     `json:"approvals"`
	CloseRate float64 `json:"closeRate"`
	Revenue   float64 `json:"revenue"`
}

type Agenda struct {
	GeneratedAt time.Time    `json:"generatedAt"`
	Suggestions []Suggestion `json:"suggestions"`
	Capacity    []DayLoad    `json:"capacity"`
	Metrics     Metrics      `json:"metrics"`
}

func rank(p string) int {
	switch p {
	case entities.PriorityHigh:
		return 3
	case entities.PriorityMedium:
		return 2
	}
	return 1
}

// Build derives suggestions and rolling metrics from s. It has no side effects.
func Build(s Snapshot, now time.Time, cfg Config) Agenda {
	a := Agenda{GeneratedAt: now, Suggestions: []Suggestion{}}

	for _, p := range s.Pending {
		name := "a customer"
		if p.Request != nil && p.Request.Name != "" {
			name = p.Request.Name
		}
		a.Suggestions = append(a.Suggestions, Suggestion{
			Kind:     KindPendingProposal,
			Priority: entities.PriorityMedium,
			Title:    "Review proposal",
			Message:  fmt.Sprintf("Proposal v%d for %s is waiting for review (%s)", p.Version, name, p.Status),
			EntityID: p.ID,
		})
	}

	for _, p := range s.Sent {
		if p.FollowUpSent || p.SentAt == nil || now.Sub(*p.SentAt) <= cfg.FollowUpAfter {
			continue
		}
		hours := int(now.Sub(*p.SentAt).Hours())
		a.Suggestions = append(a.Suggestions, Suggestion{
			Kind:     KindFollowUp,
			Priority: entities.PriorityHigh,
			Title:    "Follow up with client",
			Message:  fmt.Sprintf("Proposal sent %d hours ago without a follow-up", hours),
			EntityID: p.ID,
		})
	}

	a.Capacity = capacity(s.Events, now, cfg)
	for _, d := range a.Capacity {
		var prio string
		switch {
		case d.Percent >= 100:
			prio = entities.PriorityHigh
		case d.Percent >= cfg.CapacityWarnPct:
			prio = entities.PriorityMedium
		default:
			continue
		}
		day, _ := time.ParseInLocation("2006-01-02", d.Date, now.Location())
		a.Suggestions = append(a.Suggestions, Suggestion{
			Kind:     KindCapacity,
			Priority: prio,
			Title:    "Capacity alert",
			Message:  fmt.Sprintf("%s is at %.0f%% of capacity (%d/%d guests)", d.Date, d.Percent, d.Guests, cfg.DailyCapacity),
			Date:     &day,
		})
	}

	cutoff := now.AddDate(0, 0, -cfg.ContractStaleDays)
	for _, c := range s.Contracts {
		if c.Status == entities.ContractSigned || c.Status == entities.ContractCancelled || !c.CreatedAt.Before(cutoff) {
			continue
		}
		days := int(now.Sub(c.CreatedAt).Hours() / 24)
		a.Suggestions = append(a.Suggestions, Suggestion{
			Kind:     KindContract,
			Priority: entities.PriorityMedium,
			Title:    "Unsigned contract",
			Message:  fmt.Sprintf("Contract %s has been unsigned for %d days", c.ContractNumber, days),
			EntityID: c.ID,
		})
	}

	sort.SliceStable(a.Suggestions, func(i, j int) bool {
		return rank(a.Suggestions[i].Priority) > rank(a.Suggestions[j].Priority)
	})

	a.Metrics = Metrics{Requests: s.Requests30, Proposals: s.Proposals30, Approvals: len(s.Approved)}
	for _, p := range s.Approved {
		a.Metrics.Revenue += p.EstimatedCost
	}
	a.Metrics.Revenue = math.Round(a.Metrics.Revenue*100) / 100
	if s.Proposals30 > 0 {
		a.Metrics.CloseRate = math.Round(float64(len(s.Approved))/float64(s.Proposals30)*10000) / 100
	}
	return a
}

// capacity sums booked guests per day over the horizon. Only EVENT_DAY entries count.
func capacity(events []entities.CalendarEvent, now time.Time, cfg Config) []DayLoad {
	end := now.AddDate(0, 0, cfg.HorizonDays)
	byDay := map[string]*DayLoad{}
	for _, e := range events {
		if e.Type != entities.EventDay || e.StartTime.Before(now) || e.StartTime.After(end) {
			continue
		}
		key := e.StartTime.In(now.Location()).Format("2006-01-02")
		d, ok := byDay[key]
		if !ok {
			d = &DayLoad{Date: key}
			byDay[key] = d
		}
		d.Guests += e.Guests
		d.Events++
	}
	out := make([]DayLoad, 0, len(byDay))
	for _, d := range byDay {
		if cfg.DailyCapacity > 0 {
			d.Percent = math.Round(float64(d.Guests)/float64(cfg.DailyCapacity)*1000) / 10
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
