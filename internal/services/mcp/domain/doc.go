// Package domain defines the MCP tool surface for Spline scene
// orchestration: tool schemas, typed inputs and results, and handlers that
// bridge tool calls to the Spline API, the asset cache, the realtime client
// and the n8n integration.
package domain
