package orchestrator

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/umbrella-alerts/umbrella/internal/config"
	"github.com/umbrella-alerts/umbrella/internal/forecast"
	"github.com/umbrella-alerts/umbrella/internal/geo"
	"github.com/umbrella-alerts/umbrella/internal/notify"
)

type fakeResolver struct {
	coords geo.Coordinates
	err    error
	calls  int
}

func (f *fakeResolver) Resolve(ctx context.Context, address string) (geo.Coordinates, error) {
	f.calls++
	return f.coords, f.err
}

type fakeFetcher struct {
	doc       *forecast.Document
	err       error
	icon      string
	iconErr   error
	iconCalls int
	lastQuery forecast.Query
}

func (f *fakeFetcher) Fetch(ctx context.Context, q forecast.Query) (*forecast.Document, error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	doc := *f.doc
	doc.Address = q.Address
	return &doc, nil
}

func (f *fakeFetcher) FetchIcon(ctx context.Context, code string) (string, error) {
	f.iconCalls++
	return f.icon, f.iconErr
}

type fakeDispatcher struct {
	records []notify.Record
	err     error
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, rec notify.Record) (notify.Outcome, error) {
	f.records = append(f.records, rec)
	if f.err != nil {
		return notify.Outcome{Status: 500, Body: "boom"}, f.err
	}
	return notify.Outcome{Status: 200, Body: "ok"}, nil
}

type fakeCache struct {
	saved int
	err   error
}

func (f *fakeCache) Save(doc *forecast.Document) error {
	f.saved++
	return f.err
}

type fakeLatest struct {
	keys []string
}

func (f *fakeLatest) Save(key string, doc *forecast.Document) {
	f.keys = append(f.keys, key)
}

func testDocument() *forecast.Document {
	return &forecast.Document{
		TimezoneOffset: 7200,
		Current: forecast.Current{
			Dt:      1700000000,
			Weather: []forecast.WeatherDesc{{Description: "giedra", Icon: "01d"}},
		},
		Hourly: []forecast.Hourly{{Dt: 1700000000, UVI: 2}},
		Daily:  []forecast.Daily{{Dt: 1700000000, Pop: 0.1, UVI: 2}},
	}
}

func addressLocation() config.Location {
	return config.Location{Address: "Vilnius, Lithuania"}
}

func coordsLocation() config.Location {
	lat, lon := 54.6872, 25.2797
	return config.Location{Lat: &lat, Lon: &lon}
}

type fixture struct {
	resolver   *fakeResolver
	fetcher    *fakeFetcher
	dispatcher *fakeDispatcher
	cache      *fakeCache
	latest     *fakeLatest
	orch       *Orchestrator
}

func newFixture() *fixture {
	f := &fixture{
		resolver:   &fakeResolver{coords: geo.Coordinates{Lat: 54.6872, Lon: 25.2797}},
		fetcher:    &fakeFetcher{doc: testDocument(), icon: "aWNvbg=="},
		dispatcher: &fakeDispatcher{},
		cache:      &fakeCache{},
		latest:     &fakeLatest{},
	}
	f.orch = New(f.resolver, f.fetcher, f.dispatcher, f.cache, f.latest, "family", zap.NewNop())
	return f
}

func run(t *testing.T, f *fixture, settings config.Settings, loc config.Location) error {
	t.Helper()
	contact := config.Contact{Name: "Jonas", WakesUp: "07:00", Settings: settings}
	return f.orch.RunMorningNotifications(context.Background(), contact, loc)
}

func TestSettingsGateDispatchCount(t *testing.T) {
	cases := []struct {
		name     string
		settings config.Settings
		want     int
	}{
		{"current only", config.Settings{"current": true, "daily": false}, 1},
		{"daily only", config.Settings{"current": false, "daily": true}, 1},
		{"both", config.Settings{"current": true, "daily": true}, 2},
		{"none", config.Settings{}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			if err := run(t, f, tc.settings, addressLocation()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(f.dispatcher.records) != tc.want {
				t.Fatalf("expected %d dispatches, got %d", tc.want, len(f.dispatcher.records))
			}
		})
	}
}

func TestGeocodingNotFoundAbortsRun(t *testing.T) {
	f := newFixture()
	f.resolver.err = geo.ErrNotFound

	err := run(t, f, config.Settings{"current": true, "daily": true}, addressLocation())
	if !errors.Is(err, geo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(f.dispatcher.records) != 0 {
		t.Fatalf("no notifications may be dispatched after a failed resolve, got %d", len(f.dispatcher.records))
	}
	if f.cache.saved != 0 {
		t.Fatal("no document may be cached after a failed resolve")
	}
}

func TestFetchFailureAbortsRun(t *testing.T) {
	f := newFixture()
	f.fetcher.err = forecast.ErrFetchFailed

	err := run(t, f, config.Settings{"current": true}, coordsLocation())
	if !errors.Is(err, forecast.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if len(f.dispatcher.records) != 0 || f.cache.saved != 0 {
		t.Fatal("fetch failure must leave no partial state")
	}
}

func TestCoordinateLocationSkipsResolver(t *testing.T) {
	f := newFixture()
	if err := run(t, f, config.Settings{"daily": true}, coordsLocation()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.resolver.calls != 0 {
		t.Fatal("literal coordinates must not be geocoded")
	}
	if f.fetcher.lastQuery.Lat != 54.6872 || f.fetcher.lastQuery.Lon != 25.2797 {
		t.Fatalf("unexpected query: %+v", f.fetcher.lastQuery)
	}
}

func TestIconAttachedOnlyForCoordinateRuns(t *testing.T) {
	f := newFixture()
	if err := run(t, f, config.Settings{"current": true}, coordsLocation()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := f.dispatcher.records[0]
	if rec.AttachmentBase64 != "aWNvbg==" || rec.AttachmentType != notify.IconAttachmentType {
		t.Fatalf("expected icon attachment, got %+v", rec)
	}

	f = newFixture()
	if err := run(t, f, config.Settings{"current": true}, addressLocation()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec = f.dispatcher.records[0]
	if rec.AttachmentBase64 != "" || rec.AttachmentType != "" {
		t.Fatalf("address runs must not attach an icon, got %+v", rec)
	}
	if f.fetcher.iconCalls != 0 {
		t.Fatalf("address runs must not fetch icons, got %d fetches", f.fetcher.iconCalls)
	}
}

func TestIconFailureDowngradesToNoAttachment(t *testing.T) {
	f := newFixture()
	f.fetcher.iconErr = errors.New("icon backend down")

	if err := run(t, f, config.Settings{"current": true}, coordsLocation()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.dispatcher.records) != 1 {
		t.Fatalf("expected dispatch despite icon failure, got %d", len(f.dispatcher.records))
	}
	if f.dispatcher.records[0].AttachmentBase64 != "" {
		t.Fatal("failed icon fetch must not attach anything")
	}
}

func TestDebugCacheFailureDoesNotAbort(t *testing.T) {
	f := newFixture()
	f.cache.err = errors.New("disk full")

	if err := run(t, f, config.Settings{"current": true}, addressLocation()); err != nil {
		t.Fatalf("debug cache failure must not abort the run: %v", err)
	}
	if len(f.dispatcher.records) != 1 {
		t.Fatalf("expected 1 dispatch, got %d", len(f.dispatcher.records))
	}
}

func TestComposeFailureIsolatedPerKind(t *testing.T) {
	f := newFixture()
	f.fetcher.doc.Current.Weather = nil // current-conditions cannot compose

	if err := run(t, f, config.Settings{"current": true, "daily": true}, addressLocation()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.dispatcher.records) != 1 {
		t.Fatalf("daily outlook must still go out, got %d dispatches", len(f.dispatcher.records))
	}
}

func TestDispatchFailureIsolatedPerKind(t *testing.T) {
	f := newFixture()
	f.dispatcher.err = errors.New("provider down")

	if err := run(t, f, config.Settings{"current": true, "daily": true}, addressLocation()); err != nil {
		t.Fatalf("dispatch failures must not fail the run: %v", err)
	}
	if len(f.dispatcher.records) != 2 {
		t.Fatalf("both kinds must be attempted independently, got %d", len(f.dispatcher.records))
	}
}

func TestRunCachesDocument(t *testing.T) {
	f := newFixture()
	if err := run(t, f, config.Settings{}, addressLocation()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.cache.saved != 1 {
		t.Fatalf("expected 1 debug cache write, got %d", f.cache.saved)
	}
	if len(f.latest.keys) != 1 || f.latest.keys[0] != "Vilnius, Lithuania" {
		t.Fatalf("unexpected latest-store keys: %v", f.latest.keys)
	}
}
