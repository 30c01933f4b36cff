package sportmonks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/matchontv/reconcile/internal/platform/logging"
	"github.com/matchontv/reconcile/internal/platform/resilience"
	"github.com/matchontv/reconcile/internal/usecase"
)

const (
	defaultBaseURL        = "https://api.sportmonks.com/v3/football"
	defaultIncludeFixture = "participants;round;scores;state;tvstations"
	defaultPaceInterval   = 200 * time.Millisecond
	scoreDescCurrent      = "CURRENT"
)

var apiTokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)
var errProviderTransient = crerr.New("sportmonks transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	PaceInterval   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches fixtures from the sports-data provider. Calls are
// paced to stay under the provider's rate limit and multi-month ranges
// are chunked into calendar-month windows to respect response-size
// limits.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	pacer          *resilience.Pacer
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	paceInterval := cfg.PaceInterval
	if paceInterval <= 0 {
		paceInterval = defaultPaceInterval
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		pacer:          resilience.NewPacer(paceInterval),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchFixturesBetween returns one tagged result per calendar-month
// window inside [from, to]. A window that fails carries its error and
// an empty fixture list; later windows are still fetched. Only context
// cancellation aborts the whole range.
func (c *Client) FetchFixturesBetween(ctx context.Context, leagueRefID int64, from, to time.Time) ([]usecase.FetchWindow, error) {
	if leagueRefID <= 0 {
		return nil, fmt.Errorf("league reference id must be greater than zero")
	}
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, fmt.Errorf("invalid date range %s..%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	windows := monthWindows(from, to)
	out := make([]usecase.FetchWindow, 0, len(windows))
	for _, window := range windows {
		fixtures, err := c.fetchWindow(ctx, leagueRefID, window.start, window.end)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			c.logger.WarnContext(ctx,
				"fixture window fetch failed, continuing with remaining windows",
				"league_ref_id", leagueRefID,
				"window_start", window.start.Format("2006-01-02"),
				"window_end", window.end.Format("2006-01-02"),
				"error", err,
			)
			out = append(out, usecase.FetchWindow{Start: window.start, End: window.end, Err: err})
			continue
		}
		out = append(out, usecase.FetchWindow{Start: window.start, End: window.end, Fixtures: fixtures})
	}

	return out, nil
}

func (c *Client) fetchWindow(ctx context.Context, leagueRefID int64, start, end time.Time) ([]usecase.ExternalFixture, error) {
	path := fmt.Sprintf("/fixtures/between/%s/%s", start.Format("2006-01-02"), end.Format("2006-01-02"))

	fixtures := make([]usecase.ExternalFixture, 0, 64)
	for page := 1; ; page++ {
		query := map[string]string{
			"include": defaultIncludeFixture,
			"filters": "fixtureLeagues:" + strconv.FormatInt(leagueRefID, 10),
			"page":    strconv.Itoa(page),
		}

		var envelope fixturesEnvelope
		if err := c.doJSON(ctx, path, query, &envelope); err != nil {
			return nil, fmt.Errorf("fetch fixtures window %s page %d: %w", path, page, err)
		}

		for _, item := range envelope.Data {
			mapped, ok := mapFixtureItem(item)
			if !ok {
				continue
			}
			fixtures = append(fixtures, mapped)
		}

		if !envelope.Pagination.HasMore {
			break
		}
	}

	sort.SliceStable(fixtures, func(i, j int) bool {
		if !fixtures[i].KickoffAt.Equal(fixtures[j].KickoffAt) {
			return fixtures[i].KickoffAt.Before(fixtures[j].KickoffAt)
		}
		return fixtures[i].ExternalID < fixtures[j].ExternalID
	})

	return fixtures, nil
}

func mapFixtureItem(item FixtureItem) (usecase.ExternalFixture, bool) {
	if item.ID <= 0 {
		return usecase.ExternalFixture{}, false
	}

	kickoff := parseProviderDateTime(item.StartingAt)
	if kickoff == nil {
		return usecase.ExternalFixture{}, false
	}

	out := usecase.ExternalFixture{
		ExternalID: item.ID,
		KickoffAt:  *kickoff,
		State:      firstNonEmpty(item.State.DeveloperName, item.State.ShortName),
		Round:      strings.TrimSpace(item.Round.Name),
		Venue:      "",
	}

	for _, participant := range item.Participants {
		switch strings.ToLower(participant.Meta.Location) {
		case "home":
			out.HomeTeamExternalID = participant.ID
			out.HomeTeamName = strings.TrimSpace(participant.Name)
		case "away":
			out.AwayTeamExternalID = participant.ID
			out.AwayTeamName = strings.TrimSpace(participant.Name)
		}
	}

	out.HomeScore, out.AwayScore = extractCurrentScores(item.Scores)

	for _, entry := range item.TVStations {
		station := usecase.ExternalTVStation{
			StationID: entry.TVStationID,
			Name:      strings.TrimSpace(entry.Station.Name),
			CountryID: entry.CountryID,
		}
		if station.StationID <= 0 {
			station.StationID = entry.Station.ID
		}
		if station.StationID <= 0 && station.Name == "" {
			continue
		}
		out.TVStations = append(out.TVStations, station)
	}

	return out, true
}

// extractCurrentScores picks the score entries tagged with the CURRENT
// descriptor. A side without a CURRENT entry stays nil (unplayed).
func extractCurrentScores(entries []ScoreEntry) (home, away *int) {
	for _, entry := range entries {
		if !strings.EqualFold(strings.TrimSpace(entry.Description), scoreDescCurrent) {
			continue
		}
		goals := entry.Score.Goals
		switch strings.ToLower(entry.Score.Participant) {
		case "home":
			home = &goals
		case "away":
			away = &goals
		}
	}
	return home, away
}

type dateWindow struct {
	start time.Time
	end   time.Time
}

// monthWindows splits an inclusive date range into calendar-month
// chunks, truncated to day precision in UTC.
func monthWindows(from, to time.Time) []dateWindow {
	from = truncateToDay(from)
	to = truncateToDay(to)

	out := make([]dateWindow, 0, 4)
	for cursor := from; !cursor.After(to); {
		monthEnd := time.Date(cursor.Year(), cursor.Month()+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
		windowEnd := monthEnd
		if windowEnd.After(to) {
			windowEnd = to
		}
		out = append(out, dateWindow{start: cursor, end: windowEnd})
		cursor = windowEnd.AddDate(0, 0, 1)
	}
	return out
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "sportmonks circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: sport data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	if err := c.pacer.Wait(ctx); err != nil {
		return err
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("api_token", c.token)

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errProviderTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errProviderTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errProviderTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "sportmonks request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func parseProviderDateTime(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return apiTokenParamRegex.ReplaceAllString(value, "api_token=REDACTED")
}

func redactAPIURL(fullURL string) string {
	return apiTokenParamRegex.ReplaceAllString(fullURL, "api_token=REDACTED")
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
