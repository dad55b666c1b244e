// Package fx provides RUB exchange rates from the Central Bank of Russia
// daily feed. Rates are cached with an explicit TTL, in process and in Redis;
// there is no global mutable state.
package fx

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"ledgerpay/internal/errors"
	"ledgerpay/internal/repositories/cache"

	"github.com/shopspring/decimal"
)

const (
	cbrDailyURL    = "https://www.cbr.ru/scripts/XML_daily.asp"
	requestTimeout = 5 * time.Second
	ratesCacheKey  = "fx:rates:cbr"
)

// DefaultTTL bounds how long a rate snapshot is served before refreshing.
const DefaultTTL = 10 * time.Minute

// Rates maps a 3-letter currency code to its RUB-per-unit rate.
type Rates map[string]decimal.Decimal

// Fetcher loads a fresh rate table from the upstream feed.
type Fetcher interface {
	Fetch(ctx context.Context) (Rates, error)
}

// Provider serves rates from a TTL-bounded snapshot, refreshing from Redis or
// the upstream feed when the snapshot expires.
type Provider struct {
	fetcher Fetcher
	cache   *cache.CacheService
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	loadedAt time.Time
	rates    Rates
}

// Option configures a Provider.
type Option func(*Provider)

// WithTTL overrides the snapshot lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(p *Provider) { p.ttl = ttl }
}

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// NewProvider creates a rate provider. cacheService may be nil, in which case
// only the in-process snapshot is used.
func NewProvider(fetcher Fetcher, cacheService *cache.CacheService, opts ...Option) *Provider {
	if fetcher == nil {
		fetcher = NewCBRFetcher(nil)
	}
	p := &Provider{
		fetcher: fetcher,
		cache:   cacheService,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RubPerUnit returns how many rubles one unit of currency is worth.
func (p *Provider) RubPerUnit(ctx context.Context, currency string) (decimal.Decimal, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "RUB" {
		return decimal.NewFromInt(1), nil
	}

	rates, err := p.snapshot(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	rate, ok := rates[code]
	if !ok {
		return decimal.Zero, errors.BadRequest(fmt.Sprintf("no exchange rate for %s", code))
	}
	return rate, nil
}

func (p *Provider) snapshot(ctx context.Context) (Rates, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if p.rates != nil && now.Before(p.loadedAt.Add(p.ttl)) {
		return p.rates, nil
	}

	if p.cache != nil {
		var cached Rates
		if found, err := p.cache.Get(ctx, ratesCacheKey, &cached); err == nil && found && len(cached) > 0 {
			p.rates = cached
			p.loadedAt = now
			return p.rates, nil
		}
	}

	fresh, err := p.fetcher.Fetch(ctx)
	if err != nil {
		// Serve the stale snapshot rather than failing if one exists.
		if p.rates != nil {
			return p.rates, nil
		}
		return nil, errors.Internal("exchange rate feed unavailable")
	}

	p.rates = fresh
	p.loadedAt = now

	if p.cache != nil {
		// Cache write failures are not fatal.
		_ = p.cache.SetWithTTL(ctx, ratesCacheKey, fresh, p.ttl)
	}
	return p.rates, nil
}

type cbrValute struct {
	CharCode string `xml:"CharCode"`
	Nominal  string `xml:"Nominal"`
	Value    string `xml:"Value"`
}

type cbrValCurs struct {
	Valutes []cbrValute `xml:"Valute"`
}

// CBRFetcher loads the CBR daily XML feed.
type CBRFetcher struct {
	client *http.Client
	url    string
}

func NewCBRFetcher(client *http.Client) *CBRFetcher {
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	return &CBRFetcher{client: client, url: cbrDailyURL}
}

func (f *CBRFetcher) Fetch(ctx context.Context) (Rates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("rate feed returned HTTP %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	return ParseCBRFeed(body)
}

// ParseCBRFeed decodes the CBR daily XML document into a rate table. The feed
// uses a comma as the decimal separator and quotes some currencies per 10 or
// 100 units, hence the nominal division.
func ParseCBRFeed(data []byte) (Rates, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		// The feed declares windows-1251 but the codes and numbers we read
		// are plain ASCII.
		return input, nil
	}

	var doc cbrValCurs
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode rate feed: %w", err)
	}

	rates := make(Rates, len(doc.Valutes))
	for _, v := range doc.Valutes {
		code := strings.ToUpper(strings.TrimSpace(v.CharCode))
		if code == "" {
			continue
		}
		nominal, err := strconv.Atoi(strings.TrimSpace(v.Nominal))
		if err != nil || nominal <= 0 {
			continue
		}
		value, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(v.Value), ",", "."))
		if err != nil {
			continue
		}
		rates[code] = value.DivRound(decimal.NewFromInt(int64(nominal)), 10)
	}
	return rates, nil
}
