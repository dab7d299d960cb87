package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "screenings",
		Short: "Screenings and vaccinations eligibility service",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(evaluateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the loaded configuration and fixtures shared by every command.
type app struct {
	config    *Config
	catalogue *Catalogue
	personas  []Person
	locations []Location
}

func loadApp() (*app, error) {
	// Read configuration
	config, err := readConfig()
	if err != nil {
		return nil, err
	}
	configureLogging(config)
	globalTimeout = config.Timeout
	appVersion = config.AppVersion

	catalogue, err := loadCatalogue(config.CatalogueFile)
	if err != nil {
		return nil, err
	}

	// Catalogue problems degrade single programmes, so only warn
	for _, problem := range catalogue.Validate() {
		zapLogger.Warn("Catalogue problem", zap.String("problem", problem))
	}

	personas, err := loadPersonas(config.PersonasFile)
	if err != nil {
		return nil, err
	}

	locations, err := loadLocations(config.LocationsFile)
	if err != nil {
		return nil, err
	}

	return &app{
		config:    config,
		catalogue: catalogue,
		personas:  personas,
		locations: locations,
	}, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer zapLogger.Sync()

			store := NewStore(a.catalogue, a.personas, time.Duration(a.config.SessionTTLHours)*time.Hour)
			server := NewServer(a.config, a.catalogue, store, a.locations)

			e := newEcho(a.config, server)

			zapLogger.Info("Starting server",
				zap.String("port", a.config.Port),
				zap.Int("programmes", len(a.catalogue.All())),
				zap.Int("personas", len(a.personas)))
			return e.Start(":" + a.config.Port)
		},
	}
}

func newEcho(config *Config, s *Server) *echo.Echo {
	// Create new Echo object
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = jsonSerializer{}

	// Add basic middleware to log all requests
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Configure elastic apm logging
	initAPM(e)

	// Sets CORS headers to allow all origins, but restrict HTTP method type
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))

	// Middleware to provide more control over response status for APM transactions
	// This must go after the Elastic APM middleware
	e.Use(filterError)
	e.Use(metricsMiddleware)

	registerRoutes(e, config, s)
	return e
}

func registerRoutes(e *echo.Echo, config *Config, s *Server) {
	// Limit writes per client
	limiter := middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(config.RateLimitRPS),
			Burst:     config.RateLimitBurst,
			ExpiresIn: 3 * time.Minute,
		}),
	})
	withSession := requireSession(s.secret)

	e.GET("/heartbeat", heartbeat)
	e.GET("/version", s.version)
	e.GET("/metrics", metricsHandler())

	// Catalogue and fixtures
	e.GET("/programmes", s.listProgrammes)
	e.GET("/programmes/:programmeId", s.getProgramme)
	e.GET("/personas", s.listPersonas)

	// Sessions
	e.POST("/session", s.startSession, limiter)
	e.POST("/session/personas", s.createPersona, limiter, withSession)

	// Creates API group to simplify middleware declaration
	health := e.Group("/your-health", withSession)

	health.GET("/vaccines-and-health-checks", s.healthChecks)
	health.GET("/:programmeId/questions", s.questions)
	health.POST("/conditions", s.answerConditions, limiter)

	health.GET("/book/:programmeId/locations", s.bookingLocations)
	health.GET("/book/:programmeId/appointments", s.bookingAppointments)
	health.POST("/book/:programmeId/confirmed", s.bookingConfirmed, limiter)

	health.POST("/:programmeId/had-elsewhere", s.hadElsewhere, limiter)
	health.POST("/:programmeId/opt-out", s.optOut, limiter)
	health.POST("/:programmeId/opt-in", s.optBackIn, limiter)
	health.POST("/:programmeId/cancel", s.cancel, limiter)
}

func evaluateCmd() *cobra.Command {
	var (
		personaId string
		today     string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Print the screenings and vaccinations for a persona",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			// Flag overrides the configured date
			now := a.config.clock()()
			if today != "" {
				t, err := parseDate(today)
				if err != nil {
					return fmt.Errorf("invalid --today: %w", err)
				}
				now = toDate(t)
			}

			var person *Person
			for i := range a.personas {
				if a.personas[i].Id == personaId {
					person = &a.personas[i]
					break
				}
			}
			if person == nil {
				return fmt.Errorf("%w: %s", ErrPersonNotFound, personaId)
			}

			report, _ := buildReport(cmd.Context(), person, a.catalogue, now)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			text, err := renderReport(report)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, text)
			return err
		},
	}

	cmd.Flags().StringVar(&personaId, "persona", "", "persona id")
	cmd.Flags().StringVar(&today, "today", "", "evaluate as of this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	_ = cmd.MarkFlagRequired("persona")

	return cmd
}
