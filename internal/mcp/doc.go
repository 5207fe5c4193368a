// Package mcp implements the Model Context Protocol (MCP) server for
// cdash-mcp.
//
// The server exposes CDash CI data as twelve read-only tools over the MCP
// stdio transport, so agent clients (Claude Code, Cursor, the MCP inspector)
// can triage build and test failures without scraping dashboard HTML.
//
// # Architecture
//
//	MCP Client (IDE, agent runtime)
//	     |
//	     | (MCP protocol over stdio)
//	     v
//	Server (official MCP SDK)
//	     |
//	     +-- one typed handler per tool
//	     v
//	cdash.Client ----> CDash REST API (/api/v1/*.php)
//	     |
//	     v
//	report renderers (pagination + text)
//
// # Error handling
//
// Classified upstream failures (auth, not-found, connection, other HTTP)
// are recovered at the tool boundary and returned as a plain "Error: ..."
// text result inside a successful protocol envelope; MCP clients never see
// a failed call for those. Only unclassified faults — a 2xx response whose
// body is not JSON — surface as tool errors through the SDK.
//
// Tool inputs are plain structs; their JSON schemas are inferred with
// jsonschema.For and attached at registration time.
package mcp
