package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/N6q/EventManagementAPI/internal/logger"
	"github.com/N6q/EventManagementAPI/internal/model"
	"github.com/N6q/EventManagementAPI/internal/repository"
)

// UpcomingReportWindow is the forward horizon for report listings.
const UpcomingReportWindow = 30 * 24 * time.Hour

// weatherFetchLimit caps concurrent weather calls in UpcomingReports.
const weatherFetchLimit = 4

// WeatherClient fetches current weather for a location. It may return nil
// without error when the source has no data. Retry policy, if any, lives in
// the implementation, not here.
type WeatherClient interface {
	GetWeather(ctx context.Context, city string) (*model.WeatherInfo, error)
}

// ReportService composes persisted event and attendee data with best-effort
// weather. Weather failure never fails a report; the weather field degrades
// to the "Unavailable" sentinel instead.
type ReportService struct {
	events  *repository.EventRepository
	weather WeatherClient
	log     *logger.Logger
	now     func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(events *repository.EventRepository, weather WeatherClient, baseLog *logger.Logger) *ReportService {
	return &ReportService{
		events:  events,
		weather: weather,
		log:     baseLog.With("service", "ReportService"),
		now:     time.Now,
	}
}

// ReportFor builds the report for one event, or nil when the event does not
// exist.
func (s *ReportService) ReportFor(ctx context.Context, eventID uint) (*model.EventReport, error) {
	ev, err := s.events.GetWithAttendees(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, nil
	}

	report := s.baseReport(*ev)
	report.Weather = s.fetchWeather(ctx, ev.Location)
	return &report, nil
}

// UpcomingReports builds reports for every event inside the 30-day window.
// Weather is fetched concurrently and degrades independently per event, so
// one city's failure never affects another's report.
func (s *ReportService) UpcomingReports(ctx context.Context) ([]model.EventReport, error) {
	now := s.now().UTC()
	events, err := s.events.UpcomingWithin(ctx, now, now.Add(UpcomingReportWindow))
	if err != nil {
		return nil, err
	}

	reports := make([]model.EventReport, len(events))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(weatherFetchLimit)
	for i, ev := range events {
		i, ev := i, ev
		g.Go(func() error {
			report := s.baseReport(ev)
			report.Weather = s.fetchWeather(gctx, ev.Location)
			reports[i] = report
			return nil
		})
	}
	// The goroutines never return an error; degradation happens per item.
	_ = g.Wait()
	return reports, nil
}

func (s *ReportService) baseReport(ev model.Event) model.EventReport {
	return model.EventReport{
		EventID:       ev.EventID,
		Title:         ev.Title,
		Date:          ev.Date,
		Location:      ev.Location,
		MaxAttendees:  ev.MaxAttendees,
		AttendeeCount: len(ev.Attendees),
		GeneratedAt:   s.now().UTC(),
	}
}

// fetchWeather returns live weather or the sentinel. Errors are logged, not
// propagated.
func (s *ReportService) fetchWeather(ctx context.Context, city string) *model.WeatherInfo {
	w, err := s.weather.GetWeather(ctx, city)
	if err != nil {
		s.log.Warn("weather fetch failed", "city", city, "error", err)
		return model.UnavailableWeather()
	}
	if w == nil {
		return model.UnavailableWeather()
	}
	return w
}
