package statistics

import (
	"time"

	"github.com/google/uuid"

	"frota/internal/accesspolicy"
	"frota/pkg/apperrors"
	"frota/pkg/models"
)

// Period selects how far back an aggregation reaches.
type Period string

const (
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
	PeriodAll     Period = "all"
)

func NewPeriod(value string) (Period, error) {
	switch Period(value) {
	case PeriodMonth, PeriodQuarter, PeriodYear, PeriodAll:
		return Period(value), nil
	case "":
		return PeriodAll, nil
	default:
		return "", &apperrors.ValidationError{Field: "period", Message: "must be one of: month, quarter, year, all"}
	}
}

// Start returns the cutoff for the period, or nil for an unbounded query.
func (p Period) Start(now time.Time) *time.Time {
	var cutoff time.Time
	switch p {
	case PeriodMonth:
		cutoff = now.AddDate(0, -1, 0)
	case PeriodQuarter:
		cutoff = now.AddDate(0, -3, 0)
	case PeriodYear:
		cutoff = now.AddDate(-1, 0, 0)
	default:
		return nil
	}
	return &cutoff
}

type VehicleStatistics struct {
	Vehicle     models.Vehicle `json:"vehicle"`
	Period      Period         `json:"period"`
	Summary     Summary        `json:"summary"`
	TopProblems []ProblemCount `json:"top_problems"`
	TopParts    []PartTotal    `json:"top_parts"`
	Monthly     []MonthBucket  `json:"monthly"`
}

type RegionStatistics struct {
	Region      models.Region  `json:"region"`
	Period      Period         `json:"period"`
	Summary     Summary        `json:"summary"`
	TopProblems []ProblemCount `json:"top_problems"`
	TopParts    []PartTotal    `json:"top_parts"`
	Monthly     []MonthBucket  `json:"monthly"`
}

type VehicleLookup interface {
	GetVehicle(id uuid.UUID) (*models.Vehicle, error)
}

type RegionLookup interface {
	GetRegion(id uuid.UUID) (*models.Region, error)
}

const topListSize = 5

type StatsService struct {
	stats    StatsRepository
	vehicles VehicleLookup
	regions  RegionLookup
	policy   *accesspolicy.Engine
	now      func() time.Time
}

func NewStatsService(stats StatsRepository, vehicles VehicleLookup, regions RegionLookup, policy *accesspolicy.Engine) *StatsService {
	return &StatsService{
		stats:    stats,
		vehicles: vehicles,
		regions:  regions,
		policy:   policy,
		now:      time.Now,
	}
}

func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	s.now = now
	return s
}

func (s *StatsService) VehicleStatistics(actor accesspolicy.Actor, vehicleID uuid.UUID, period Period) (*VehicleStatistics, error) {
	vehicle, err := s.vehicles.GetVehicle(vehicleID)
	if err != nil {
		return nil, err
	}

	ref := accesspolicy.RegionRef{ID: vehicle.Region.ID, StateID: vehicle.Region.StateID}
	if !s.policy.CanView(actor, ref) {
		return nil, &apperrors.UnauthorizedError{Operation: "view", Resource: "vehicle_statistics"}
	}

	since := period.Start(s.now())

	orders, err := s.stats.GetOrdersByVehicle(vehicleID, since)
	if err != nil {
		return nil, err
	}
	usages, err := s.stats.GetUsagesByVehicle(vehicleID, since)
	if err != nil {
		return nil, err
	}
	external, err := s.stats.GetExternalServicesByVehicle(vehicleID, since)
	if err != nil {
		return nil, err
	}

	summary := Summarize(orders, usages)
	summary.ExternalCost = ExternalServicesCost(external)

	return &VehicleStatistics{
		Vehicle:     *vehicle,
		Period:      period,
		Summary:     summary,
		TopProblems: TopProblems(orders, topListSize),
		TopParts:    TopParts(usages, topListSize),
		Monthly:     MonthlySeries(orders, usages),
	}, nil
}

func (s *StatsService) RegionStatistics(actor accesspolicy.Actor, regionID uuid.UUID, period Period) (*RegionStatistics, error) {
	region, err := s.regions.GetRegion(regionID)
	if err != nil {
		return nil, err
	}

	ref := accesspolicy.RegionRef{ID: region.ID, StateID: region.StateID}
	if !s.policy.CanView(actor, ref) {
		return nil, &apperrors.UnauthorizedError{Operation: "view", Resource: "region_statistics"}
	}

	since := period.Start(s.now())

	orders, err := s.stats.GetOrdersByRegion(regionID, since)
	if err != nil {
		return nil, err
	}
	usages, err := s.stats.GetUsagesByRegion(regionID, since)
	if err != nil {
		return nil, err
	}
	external, err := s.stats.GetExternalServicesByRegion(regionID, since)
	if err != nil {
		return nil, err
	}

	summary := Summarize(orders, usages)
	summary.ExternalCost = ExternalServicesCost(external)

	return &RegionStatistics{
		Region:      *region,
		Period:      period,
		Summary:     summary,
		TopProblems: TopProblems(orders, topListSize),
		TopParts:    TopParts(usages, topListSize),
		Monthly:     MonthlySeries(orders, usages),
	}, nil
}
