/*
Package monitoring provides Prometheus-based metrics collection.

# Overview

This package tracks the protocol engine's request traffic: JSON-RPC
requests by method and outcome code, tool invocations by tool name and
outcome, framing errors, and connection lifecycle counts.

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record custom metrics
	metrics.RecordRequest("tools/call", "ok", duration)
	metrics.RecordToolCall("fileio_stat", "ok", duration)

# Metrics Endpoint

Each collector owns its own registry; expose it with:

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
