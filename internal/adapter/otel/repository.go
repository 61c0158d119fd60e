package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lunaria-app/lunaria/internal/domain"
)

const tracerName = "github.com/lunaria-app/lunaria/internal/adapter/otel"

// TracingRepository wraps a domain.SiteRepository with OpenTelemetry tracing.
// Each method creates a span with semantic attributes and records errors.
type TracingRepository struct {
	next   domain.SiteRepository
	tracer trace.Tracer
}

// Compile-time check: TracingRepository implements domain.SiteRepository.
var _ domain.SiteRepository = (*TracingRepository)(nil)

// NewTracingRepository creates a tracing decorator around the given repository.
func NewTracingRepository(next domain.SiteRepository) *TracingRepository {
	return &TracingRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingRepository) Create(ctx context.Context, site domain.Site) error {
	ctx, span := r.tracer.Start(ctx, "SiteRepository.Create",
		trace.WithAttributes(
			attribute.String("site.id", site.ID),
			attribute.String("site.subdomain", site.Subdomain),
		),
	)
	defer span.End()

	err := r.next.Create(ctx, site)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingRepository) GetByID(ctx context.Context, id string) (domain.Site, error) {
	ctx, span := r.tracer.Start(ctx, "SiteRepository.GetByID",
		trace.WithAttributes(attribute.String("site.id", id)),
	)
	defer span.End()

	site, err := r.next.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return site, err
}

func (r *TracingRepository) GetBySubdomain(ctx context.Context, subdomain string) (domain.Site, error) {
	ctx, span := r.tracer.Start(ctx, "SiteRepository.GetBySubdomain",
		trace.WithAttributes(attribute.String("site.subdomain", subdomain)),
	)
	defer span.End()

	site, err := r.next.GetBySubdomain(ctx, subdomain)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return site, err
}

func (r *TracingRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Site, error) {
	ctx, span := r.tracer.Start(ctx, "SiteRepository.List",
		trace.WithAttributes(
			attribute.Int("filter.limit", filter.Limit),
			attribute.Int("filter.offset", filter.Offset),
		),
	)
	defer span.End()

	if filter.Status != nil {
		span.SetAttributes(attribute.String("filter.status", string(*filter.Status)))
	}

	sites, err := r.next.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.count", len(sites)))
	}
	return sites, err
}

func (r *TracingRepository) Update(ctx context.Context, site domain.Site) error {
	ctx, span := r.tracer.Start(ctx, "SiteRepository.Update",
		trace.WithAttributes(
			attribute.String("site.id", site.ID),
			attribute.String("site.subdomain", site.Subdomain),
		),
	)
	defer span.End()

	err := r.next.Update(ctx, site)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingRepository) SetPublication(ctx context.Context, id string, published bool, at time.Time) (domain.Site, error) {
	ctx, span := r.tracer.Start(ctx, "SiteRepository.SetPublication",
		trace.WithAttributes(
			attribute.String("site.id", id),
			attribute.Bool("site.published", published),
		),
	)
	defer span.End()

	site, err := r.next.SetPublication(ctx, id, published, at)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return site, err
}
