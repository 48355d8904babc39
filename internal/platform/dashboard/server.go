// Package dashboard serves the local insights dashboard: a single page of
// charts computed from the live prescription set.
package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/meditrack/meditrack/internal/domain/insights"
	"github.com/meditrack/meditrack/internal/domain/records"
	"github.com/meditrack/meditrack/internal/platform/middleware"
)

// reportWindow is how far back the visits histogram looks.
const reportWindow = 30 * 24 * time.Hour

// Service is the slice of the prescription backend the dashboard reads.
type Service interface {
	List(ctx context.Context) ([]records.Prescription, error)
	DayWiseReport(ctx context.Context, start, end string) ([]records.DayWiseCount, error)
}

// Server renders the insights page on demand; nothing is cached, every
// page load reflects the backend's current state.
type Server struct {
	svc  Service
	log  zerolog.Logger
	echo *echo.Echo

	now func() time.Time
}

func NewServer(svc Service, logger zerolog.Logger) *Server {
	s := &Server{svc: svc, log: logger, echo: echo.New(), now: time.Now}
	s.echo.HideBanner = true
	s.echo.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
	)
	s.echo.GET("/", s.handleDashboard)
	s.echo.GET("/healthz", s.handleHealth)
	return s
}

// Handler exposes the routing tree, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Start blocks serving the dashboard on the given port.
func (s *Server) Start(port int) error {
	s.log.Info().Int("port", port).Msg("dashboard listening")
	return s.echo.Start(fmt.Sprintf(":%d", port))
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDashboard(c echo.Context) error {
	ctx := c.Request().Context()

	ps, err := s.svc.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("fetch prescriptions for dashboard")
		return echo.NewHTTPError(http.StatusBadGateway, "prescription service unavailable")
	}

	end := s.now()
	start := end.Add(-reportWindow)
	daywise, err := s.svc.DayWiseReport(ctx,
		start.Format(records.DateLayout), end.Format(records.DateLayout))
	if err != nil {
		s.log.Error().Err(err).Msg("fetch day-wise report for dashboard")
		return echo.NewHTTPError(http.StatusBadGateway, "prescription service unavailable")
	}

	page := components.NewPage()
	page.PageTitle = "MediTrack Insights"
	page.AddCharts(
		rankedBar("Top Diagnoses", insights.TopDiagnoses(ps)),
		rankedBar("Most Prescribed Medicines", insights.TopMedicines(ps)),
		ageBar(insights.AgeDistribution(ps)),
		genderPie(insights.GenderDistribution(ps)),
		visitsLine(insights.VisitsPerMonth(daywise)),
		rankedBar("Top Visited Patients", insights.TopVisitedPatients(ps)),
	)

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return page.Render(c.Response())
}

func rankedBar(title string, rows []insights.NameCount) components.Charter {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))

	names := make([]string, 0, len(rows))
	data := make([]opts.BarData, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
		data = append(data, opts.BarData{Value: r.Count})
	}
	bar.SetXAxis(names).AddSeries("Count", data)
	return bar
}

func ageBar(dist [5]int) components.Charter {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Patient Age Distribution"}))

	data := make([]opts.BarData, 0, len(dist))
	for _, n := range dist {
		data = append(data, opts.BarData{Value: n})
	}
	bar.SetXAxis(insights.AgeBucketLabels[:]).AddSeries("Patients", data)
	return bar
}

func genderPie(dist [3]int) components.Charter {
	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Patient Gender Distribution"}))

	data := make([]opts.PieData, 0, len(dist))
	for i, n := range dist {
		data = append(data, opts.PieData{Name: insights.GenderLabels[i], Value: n})
	}
	pie.AddSeries("Gender", data).
		SetSeriesOptions(charts.WithPieChartOpts(opts.PieChart{
			Radius: []string{"40%", "70%"},
		}))
	return pie
}

func visitsLine(counts [12]int) components.Charter {
	line := charts.NewLine()
	line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Visits Per Month"}))

	data := make([]opts.LineData, 0, len(counts))
	for _, n := range counts {
		data = append(data, opts.LineData{Value: n})
	}
	line.SetXAxis(insights.MonthLabels[:]).
		AddSeries("Visits", data).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}
