package main

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"go.elastic.co/apm"
	"go.elastic.co/apm/module/apmechov4"
	"go.elastic.co/apm/module/apmzap"
	"go.uber.org/zap"
)

var (
	zapLogger *zap.Logger
	appEnv    string
	appName   string
	apmActive bool
	elkUrl    string
)

func init() {

	// Set logging configuration
	var err error
	zapLogger, err = zap.NewProduction(zap.WrapCore((&apmzap.Core{}).WrapCore))
	if err != nil {
		log.Fatalf("Can't initialize zap logger: %v", err)
	}

	// Flushes buffer if it exists
	defer zapLogger.Sync()
}

// configureLogging copies the logging settings out of the loaded config.
func configureLogging(c *Config) {
	appEnv = c.AppEnv
	appName = c.AppName
	apmActive = c.APMActive
	elkUrl = c.ELKURL
}

func initAPM(e *echo.Echo) {
	// Close default Elastic APM tracer
	zapLogger.Info("Disable default APM logger")
	apm.DefaultTracer.Close()

	// Conditionally enable APM logger based on "ELASTIC_APM_ACTIVE"
	if apmActive {
		// Create new tracer with basic options
		// Use environment variables for the remaining options
		zapLogger.Info("Creating new APM tracer",
			zap.String("ServiceName", appName),
			zap.String("ServiceEnvironment", appEnv))
		tracer, err := apm.NewTracerOptions(apm.TracerOptions{
			ServiceName:        appName,
			ServiceEnvironment: appEnv,
		})
		if err != nil {
			zapLogger.Fatal(err.Error())
		}

		// Adds elastic APM middleware to web server to capture requests
		// and send them to elastic
		zapLogger.Info("Enabling APM logger")
		e.Use(apmechov4.Middleware(apmechov4.WithTracer(tracer)))
	}
}

func logger(c context.Context, err error) {
	zapLogger.Error(err.Error(), apmzap.TraceContext(c)...)
	if apmActive {
		apm.CaptureError(c, err).Send()
	}
}

func elkLogger(ctx context.Context, msg map[string]string, level string) error {
	// Set default level if none exists
	if level == "" {
		level = "debug"
	}

	// Sends logs to a test index, if not production
	index := appEnv
	if index != "prod" {
		index = "test"
	}

	// Populate remaining message details
	msg["environment"] = index
	msg["level"] = level
	msg["date"] = time.Now().Format(time.RFC3339)

	// Build request body
	bodyReader, err := readerFromMap(msg)
	if err != nil {
		return err
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}

	// Send log message
	resp, err := sendRequest(ctx, "POST", elkUrl, nil, headers, bodyReader, 5)
	if err != nil {
		return err
	}

	body, err := readBody(resp)
	if err != nil {
		return err
	}

	// Verify status code
	if resp.StatusCode >= 400 {
		return fmt.Errorf("log message failed (Persona - %s, Status Code - %d): %s", msg["persona"], resp.StatusCode, string(body))
	}

	return nil
}

// sendEvaluationLog ships a summary of one evaluation to ELK. It never blocks
// the response.
func sendEvaluationLog(ctx context.Context, ref PersonRef, today time.Time, results []Result) {
	if elkUrl == "" {
		return
	}

	// Count results per display status
	counts := map[DisplayStatus]int{}
	for _, r := range results {
		counts[r.DisplayStatus]++
	}
	var summary []string
	for status, n := range counts {
		summary = append(summary, fmt.Sprintf("%s=%d", status, n))
	}
	slices.Sort(summary)

	message := map[string]string{
		"application": appName,
		"persona":     ref.PersonId,
		"proxy":       ref.ProxyId,
		"today":       today.Format(dateLayout),
		"msg":         "evaluated " + strings.Join(summary, " "),
	}

	// Send log message in a separate thread to avoid slowing down the response
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := elkLogger(ctx, message, "info"); err != nil {
			logger(ctx, fmt.Errorf("%v (persona: %s)", err, ref.PersonId))
		}
	}()
}

// Creates a string reader from a map
func readerFromMap(m map[string]string) (*strings.Reader, error) {
	jsonBytes, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return strings.NewReader(string(jsonBytes)), nil
}
