package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/umbrella-alerts/umbrella/internal/config"
	"github.com/umbrella-alerts/umbrella/internal/forecast"
	"github.com/umbrella-alerts/umbrella/internal/geo"
	"github.com/umbrella-alerts/umbrella/internal/notify"
)

// ForecastFetcher is the slice of the forecast client the orchestrator needs.
type ForecastFetcher interface {
	Fetch(ctx context.Context, q forecast.Query) (*forecast.Document, error)
	FetchIcon(ctx context.Context, code string) (string, error)
}

// Dispatcher submits composed notifications.
type Dispatcher interface {
	Dispatch(ctx context.Context, rec notify.Record) (notify.Outcome, error)
}

// DebugCache persists the last fetched document for inspection.
type DebugCache interface {
	Save(doc *forecast.Document) error
}

// LatestStore keeps the latest document per location for the ops API.
type LatestStore interface {
	Save(key string, doc *forecast.Document)
}

// Orchestrator runs the morning pipeline for one contact/location:
// resolve, fetch, cache, then compose and dispatch each enabled kind.
type Orchestrator struct {
	resolver   geo.Resolver
	forecasts  ForecastFetcher
	dispatcher Dispatcher
	debug      DebugCache
	latest     LatestStore
	group      string
	log        *zap.Logger
}

func New(
	resolver geo.Resolver,
	forecasts ForecastFetcher,
	dispatcher Dispatcher,
	debug DebugCache,
	latest LatestStore,
	group string,
	log *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		resolver:   resolver,
		forecasts:  forecasts,
		dispatcher: dispatcher,
		debug:      debug,
		latest:     latest,
		group:      group,
		log:        log,
	}
}

// RunMorningNotifications performs one run. Resolution and fetch failures
// abort the whole run; per-kind compose/dispatch failures are isolated so one
// kind never blocks the other.
func (o *Orchestrator) RunMorningNotifications(ctx context.Context, contact config.Contact, loc config.Location) error {
	log := o.log.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("contact", contact.Name),
		zap.String("location", loc.Key()))

	log.Info("starting morning run")

	q := forecast.Query{Address: loc.Address}
	if loc.HasCoordinates() {
		q.Lat = *loc.Lat
		q.Lon = *loc.Lon
	} else {
		coords, err := o.resolver.Resolve(ctx, loc.Address)
		if err != nil {
			log.Error("geocoding failed, aborting run", zap.Error(err))
			return fmt.Errorf("resolve %s: %w", loc.Key(), err)
		}
		q.Lat = coords.Lat
		q.Lon = coords.Lon
	}

	doc, err := o.forecasts.Fetch(ctx, q)
	if err != nil {
		log.Error("forecast fetch failed, aborting run", zap.Error(err))
		return fmt.Errorf("fetch forecast for %s: %w", loc.Key(), err)
	}

	if err := o.debug.Save(doc); err != nil {
		log.Warn("debug cache write failed", zap.Error(err))
	}
	o.latest.Save(loc.Key(), doc)

	if contact.Settings.Enabled(notify.KindCurrent) {
		o.sendCurrent(ctx, log, doc, loc)
	}
	if contact.Settings.Enabled(notify.KindDaily) {
		o.sendDaily(ctx, log, doc)
	}

	log.Info("morning run finished")
	return nil
}

func (o *Orchestrator) sendCurrent(ctx context.Context, log *zap.Logger, doc *forecast.Document, loc config.Location) {
	rec, err := notify.ComposeCurrent(doc)
	if err != nil {
		log.Error("composing current-conditions notification failed", zap.Error(err))
		return
	}
	rec.Group = o.group

	// The icon attachment belongs to the plain coordinate alert; address
	// runs send the richer text-only notification.
	if loc.HasCoordinates() && len(doc.Current.Weather) > 0 {
		icon, err := o.forecasts.FetchIcon(ctx, doc.Current.Weather[0].Icon)
		if err != nil {
			log.Warn("icon fetch failed, sending without attachment", zap.Error(err))
		} else {
			rec.AttachmentBase64 = icon
			rec.AttachmentType = notify.IconAttachmentType
		}
	}

	o.send(ctx, log, notify.KindCurrent, rec)
}

func (o *Orchestrator) sendDaily(ctx context.Context, log *zap.Logger, doc *forecast.Document) {
	rec, err := notify.ComposeDaily(doc)
	if err != nil {
		log.Error("composing daily-outlook notification failed", zap.Error(err))
		return
	}
	rec.Group = o.group

	o.send(ctx, log, notify.KindDaily, rec)
}

func (o *Orchestrator) send(ctx context.Context, log *zap.Logger, kind string, rec notify.Record) {
	out, err := o.dispatcher.Dispatch(ctx, rec)
	if err != nil {
		log.Error("dispatch failed",
			zap.String("kind", kind),
			zap.Int("status", out.Status),
			zap.String("body", out.Body),
			zap.Error(err))
		return
	}
	log.Info("notification sent",
		zap.String("kind", kind),
		zap.Int("status", out.Status),
		zap.String("body", out.Body))
}
