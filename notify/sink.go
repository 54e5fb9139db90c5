// Package notify sends extreme-event polygon notifications to an Aviso
// endpoint over HTTP, URL-encoding the MARS schema and polygon vertices as
// query parameters and POSTing the event payload as the body. In dev mode
// (PLUME_PLUGIN_DEV set to a non-zero integer) it short-circuits to a
// fixed status code and performs no network I/O, recording the would-be
// request for local inspection instead.
package notify

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"

	"github.com/ecmwf-labs/extreme-events/ee"
)

// devSuccessStatus is returned by Send in dev mode instead of performing
// any network I/O.
const devSuccessStatus = 999

// Sink posts extreme-event notifications to a fixed Aviso endpoint.
type Sink struct {
	baseURL    string
	notifyPath string
	schema     map[string]string
	client     *http.Client
	log        logrus.FieldLogger
	inspector  *Inspector
}

// Option configures optional Sink behaviour.
type Option func(*Sink)

// WithHTTPClient overrides the default http.Client, e.g. to set a custom
// timeout or transport for testing.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sink) { s.client = c }
}

// WithLogger overrides the default logrus.StandardLogger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Sink) { s.log = l }
}

// WithInspector attaches a ring buffer that records every dev-mode
// notification for later retrieval by the optional inspection endpoint
// (see package notify's Inspector and cmd/eeplugin's --inspect flag).
func WithInspector(i *Inspector) Option {
	return func(s *Sink) { s.inspector = i }
}

// NewSink constructs a Sink targeting baseURL+notifyPath, tagging every
// notification with the given MARS schema.
func NewSink(baseURL, notifyPath string, schema map[string]string, opts ...Option) *Sink {
	s := &Sink{
		baseURL:    baseURL,
		notifyPath: notifyPath,
		schema:     schema,
		client:     http.DefaultClient,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send posts payload, tagged with polygon's vertices, to the configured
// Aviso endpoint, returning the resulting HTTP status code (or 999 in dev
// mode). Unreachable hosts and other transport failures return the HTTP
// client's error with status 0; a delivered request whose status is neither
// 200 nor 999 returns that status together with a *ee.NotificationFailure
// error. Neither case is retried.
func (s *Sink) Send(ctx context.Context, payload string, polygon []geom.Point) (int, error) {
	url := s.encodeURL(polygon)

	if devMode() {
		s.log.WithFields(logrus.Fields{"url": url, "payload": payload}).Info("dev mode: notification not sent")
		if s.inspector != nil {
			s.inspector.record(url, payload)
		}
		return devSuccessStatus, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	if status != http.StatusOK && status != devSuccessStatus {
		err := &ee.NotificationFailure{Status: status, URL: url}
		s.log.WithError(err).Error("notification rejected")
		return status, err
	}
	return status, nil
}

func (s *Sink) encodeURL(polygon []geom.Point) string {
	keys := make([]string, 0, len(s.schema))
	for k := range s.schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		if v := s.schema[k]; v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	parts = append(parts, "polygon="+encodePolygon(polygon))

	return s.baseURL + s.notifyPath + "?" + strings.Join(parts, "&")
}

func encodePolygon(polygon []geom.Point) string {
	coords := make([]string, 0, len(polygon)*2)
	for _, p := range polygon {
		coords = append(coords, formatFloat(p.X), formatFloat(p.Y))
	}
	return strings.Join(coords, ",")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func devMode() bool {
	n, err := strconv.Atoi(os.Getenv("PLUME_PLUGIN_DEV"))
	return err == nil && n != 0
}
