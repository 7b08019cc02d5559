package inventory

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/kdcar/kdcar-backend/internal/carms"
	"github.com/kdcar/kdcar-backend/pkg/logger"
	"github.com/kdcar/kdcar-backend/pkg/metrics"
)

const (
	MsgNotConfigured    = "CARMS API is not configured. Using local fallback data."
	MsgFallbackNotFound = "Requested car not found in CARMS. Falling back to local data."
	MsgNotFound         = "Requested car not found."

	configMissingWarnKey = "carms.config_missing"

	opList = "list"
	opGet  = "get"
)

type remoteClient interface {
	Configured() bool
	BaseURL() string
	ListCars(ctx context.Context, query url.Values) (*carms.ListResponse, error)
	GetCar(ctx context.Context, slug string) (*carms.RawCar, error)
}

type fallbackCatalog interface {
	Cars() []Car
	Find(slug string) (*Car, bool)
}

// Service is the single entry point for inventory reads. It never fails: when
// the inventory API is unavailable the local catalog answers and the result
// carries an advisory Error.
type Service interface {
	ListCars(ctx context.Context, filters Filters) Result
	GetCar(ctx context.Context, slug string) CarResult
}

type service struct {
	remote  remoteClient
	catalog fallbackCatalog
	logg    *logger.Logger
	metrics *metrics.InventoryMetrics
	now     func() time.Time
}

// NewService wires the inventory facade. metrics may be nil.
func NewService(remote remoteClient, catalog fallbackCatalog, logg *logger.Logger, m *metrics.InventoryMetrics) (Service, error) {
	if remote == nil {
		return nil, fmt.Errorf("inventory remote client required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("fallback catalog required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		remote:  remote,
		catalog: catalog,
		logg:    logg,
		metrics: m,
		now:     time.Now,
	}, nil
}

func (s *service) ListCars(ctx context.Context, filters Filters) Result {
	ctx = s.logg.WithOperation(ctx, opList)
	if !s.remote.Configured() {
		s.warnNotConfigured(ctx)
		s.metrics.IncFallback(opList, "not_configured")
		return s.localResult(filters, MsgNotConfigured)
	}

	started := s.now()
	resp, err := s.remote.ListCars(ctx, filters.Query())
	s.metrics.ObserveUpstream(opList, s.now().Sub(started), err)
	if err != nil {
		msg := carms.Message(err)
		s.logg.Error(s.logg.WithField(ctx, "message", msg), "inventory.remote_failed", err)
		s.metrics.IncFallback(opList, "error")
		return s.localResult(filters, msg)
	}

	resolver := NewImageResolver(s.remote.BaseURL())
	now := s.now()
	cars := make([]Car, 0, len(resp.Data))
	for _, raw := range resp.Data {
		cars = append(cars, Normalize(raw, resolver, now))
	}
	return Result{
		Cars:       cars,
		Source:     SourceCarms,
		Pagination: resp.Pagination,
	}
}

func (s *service) GetCar(ctx context.Context, slug string) CarResult {
	ctx = s.logg.WithOperation(ctx, opGet)
	if !s.remote.Configured() {
		s.warnNotConfigured(ctx)
		s.metrics.IncFallback(opGet, "not_configured")
		return CarResult{Car: s.findLocal(slug), Source: SourceLocal, Error: MsgNotConfigured}
	}

	started := s.now()
	raw, err := s.remote.GetCar(ctx, slug)
	s.metrics.ObserveUpstream(opGet, s.now().Sub(started), err)
	if err == nil {
		car := Normalize(*raw, NewImageResolver(s.remote.BaseURL()), s.now())
		return CarResult{Car: &car, Source: SourceCarms}
	}

	if carms.IsNotFound(err) {
		s.metrics.IncFallback(opGet, "not_found")
		if car := s.findLocal(slug); car != nil {
			return CarResult{Car: car, Source: SourceLocal, Error: MsgFallbackNotFound}
		}
		return CarResult{Car: nil, Source: SourceLocal, Error: MsgNotFound}
	}

	msg := carms.Message(err)
	ctx = s.logg.WithFields(ctx, map[string]any{"message": msg, "slug": slug})
	s.logg.Error(ctx, "inventory.remote_failed", err)
	s.metrics.IncFallback(opGet, "error")
	return CarResult{Car: s.findLocal(slug), Source: SourceLocal, Error: msg}
}

func (s *service) localResult(filters Filters, advisory string) Result {
	return Result{
		Cars:   filters.Apply(s.catalog.Cars()),
		Source: SourceLocal,
		Error:  advisory,
	}
}

func (s *service) findLocal(slug string) *Car {
	car, ok := s.catalog.Find(slug)
	if !ok {
		return nil
	}
	return car
}

func (s *service) warnNotConfigured(ctx context.Context) {
	s.logg.WarnOnce(ctx, configMissingWarnKey, "carms.not_configured: CARMS_BASE_URL is not set, serving local fallback data")
}
