package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	receiptsCreated  metric.Int64Counter
	receiptsVoided   metric.Int64Counter
	receiptsDeleted  metric.Int64Counter
	debtsSettled     metric.Int64Counter
	discountsApplied metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "compas"
	}
	meter := provider.Meter(name)

	receiptsCreated, err := meter.Int64Counter("compas_receipts_created_total")
	if err != nil {
		return nil, err
	}
	receiptsVoided, err := meter.Int64Counter("compas_receipts_voided_total")
	if err != nil {
		return nil, err
	}
	receiptsDeleted, err := meter.Int64Counter("compas_receipts_deleted_total")
	if err != nil {
		return nil, err
	}
	debtsSettled, err := meter.Int64Counter("compas_debts_settled_total")
	if err != nil {
		return nil, err
	}
	discountsApplied, err := meter.Int64Counter("compas_discounts_applied_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		receiptsCreated:  receiptsCreated,
		receiptsVoided:   receiptsVoided,
		receiptsDeleted:  receiptsDeleted,
		debtsSettled:     debtsSettled,
		discountsApplied: discountsApplied,
	}, nil
}

// RecordReceiptCreated increments receipt creation counts.
func (m *Metrics) RecordReceiptCreated(ctx context.Context, payerKind, paymentMethod string) {
	if m == nil {
		return
	}
	attrs := filterAttributes(
		attribute.String("payer_kind", strings.TrimSpace(payerKind)),
		attribute.String("payment_method", strings.TrimSpace(paymentMethod)),
	)
	m.receiptsCreated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordReceiptVoided increments receipt void counts.
func (m *Metrics) RecordReceiptVoided(ctx context.Context) {
	if m == nil {
		return
	}
	m.receiptsVoided.Add(ctx, 1)
}

// RecordReceiptDeleted increments receipt deletion counts.
func (m *Metrics) RecordReceiptDeleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.receiptsDeleted.Add(ctx, 1)
}

// RecordDebtSettled increments fully-settled debt counts.
func (m *Metrics) RecordDebtSettled(ctx context.Context) {
	if m == nil {
		return
	}
	m.debtsSettled.Add(ctx, 1)
}

// RecordDiscountApplied increments applied discount counts.
func (m *Metrics) RecordDiscountApplied(ctx context.Context, source string) {
	if m == nil {
		return
	}
	attrs := filterAttributes(attribute.String("source", strings.TrimSpace(source)))
	m.discountsApplied.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"payer_kind":     {},
	"payment_method": {},
	"source":         {},
}

// filterAttributes strips disallowed labels to keep metrics low-cardinality.
func filterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
