/*
Package metrics provides Prometheus metrics collection and exposition for
the catalog engine.

The metrics package defines and registers all engine metrics using the
Prometheus client library, exposes them via an HTTP handler for scraping,
and provides a Collector that periodically samples gauges from a
Factory's registries and a set of tracked Catalogs.

# Architecture

The metrics system follows Prometheus best practices with comprehensive
coverage of the persistence engine's hot paths:

	┌──────────────────── METRICS SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │            Metric Types                      │          │
	│  │  Gauge: Catalogs loaded, AspectDefs,          │          │
	│  │         hierarchies by kind                   │          │
	│  │  Counter: Saves, rows written, aspect routes  │          │
	│  │  Histogram: Save/load/delete/codec duration   │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │            Collector                         │          │
	│  │  - Samples Factory + tracked Catalogs         │          │
	│  │  - 15s tick, background goroutine             │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │         Prometheus Registry                  │          │
	│  │  - Exposed via metrics.Handler()              │          │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Metric Categories

Catalog Aggregate Metrics:
  - Examples: catalogs loaded, AspectDefs registered, hierarchies by kind

Persistence Engine Metrics:
  - Examples: save/load/delete duration, rows written, aspect routing

Codec Metrics:
  - Examples: JSON marshal/unmarshal duration

Coercion Metrics:
  - Examples: coercion failures by target PropertyType

# Metric Reference

Catalog Metrics:

catalogengine_catalogs_loaded:
  - Type: Gauge
  - Description: Total number of catalogs currently loaded in memory
  - Example: catalogengine_catalogs_loaded 3

catalogengine_aspect_defs_registered:
  - Type: Gauge
  - Description: Total number of AspectDefs bound in the factory dictionary
  - Example: catalogengine_aspect_defs_registered 12

catalogengine_hierarchies_total{kind}:
  - Type: Gauge
  - Description: Total number of hierarchies by kind
  - Example: catalogengine_hierarchies_total{kind="ASPECT_MAP"} 4

Persistence Engine Metrics:

catalogengine_save_duration_seconds:
  - Type: Histogram
  - Description: Time taken to save a catalog in seconds

catalogengine_load_duration_seconds:
  - Type: Histogram
  - Description: Time taken to load a catalog in seconds

catalogengine_delete_duration_seconds:
  - Type: Histogram
  - Description: Time taken to delete a catalog in seconds

catalogengine_saves_total{outcome}:
  - Type: Counter
  - Description: Total number of save_catalog calls by outcome (committed/rolled_back)
  - Example: catalogengine_saves_total{outcome="committed"} 100

catalogengine_rows_written_total{table}:
  - Type: Counter
  - Description: Total number of rows written during save, by table

catalogengine_aspect_route_total{route}:
  - Type: Counter
  - Description: Total number of Aspects routed to generic vs. mapped storage
  - Example: catalogengine_aspect_route_total{route="mapped"} 250

Codec Metrics:

catalogengine_codec_marshal_duration_seconds:
  - Type: Histogram
  - Description: Time taken to marshal a catalog to JSON in seconds

catalogengine_codec_unmarshal_duration_seconds:
  - Type: Histogram
  - Description: Time taken to unmarshal a catalog from JSON in seconds

Coercion Metrics:

catalogengine_coercion_failures_total{property_type}:
  - Type: Counter
  - Description: Total number of value coercion failures by target property type

# Usage

Exposing Metrics:

	import "github.com/cuemby/catalogengine/pkg/metrics"

	http.Handle("/metrics", metrics.Handler())
	http.ListenAndServe(":9090", nil)

Timing an Operation:

	timer := metrics.NewTimer()
	err := dao.SaveCatalog(ctx, cat)
	timer.ObserveDuration(metrics.SaveDuration)
	if err != nil {
		metrics.SavesTotal.WithLabelValues("rolled_back").Inc()
	} else {
		metrics.SavesTotal.WithLabelValues("committed").Inc()
	}

Running the Collector:

	import (
		"github.com/cuemby/catalogengine/pkg/metrics"
		"github.com/cuemby/catalogengine/pkg/registry"
	)

	f := registry.NewFactory()
	collector := metrics.NewCollector(f)
	collector.Track(cat)
	collector.Start()
	defer collector.Stop()

# Integration Points

This package integrates with:

  - pkg/storage: records save/load/delete duration, save outcomes, rows
    written, aspect routing

CodecMarshalDuration, CodecUnmarshalDuration and CoercionFailuresTotal are
registered, but no package in this module records them. Nothing in this
module serves Handler() over HTTP; cmd/catalogctl does not.

# Health Checks

See health.go for HealthChecker, GetHealth, GetReadiness, and the
/health, /ready, /live HTTP handlers. The single critical component
checked for readiness is "database" (the SQL connection pool).

# Design Patterns

Global Registry Pattern:
  - Metrics are package-level vars registered once in init()
  - Accessible from any package without passing a registry reference

Timer Pattern:
  - NewTimer() captures a start time
  - ObserveDuration/ObserveDurationVec records elapsed time to a histogram
  - Avoids repeating time.Since(start).Seconds() at every call site

Collector Pattern:
  - A background goroutine samples gauges on a fixed tick
  - Decouples "what changed" from "what to report", matching Prometheus's
    pull model (Collector updates gauges; scraping happens independently)
*/
package metrics
