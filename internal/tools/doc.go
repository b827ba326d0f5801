// Package tools provides the in-process tool packs exposed over MCP.
//
// # Overview
//
// Tools are thin named operations over the hosted travel database. Each
// tool validates its arguments, consults the caller's session gate when it
// touches user data, issues a single owner-scoped store request, and maps
// the outcome onto a typed result or a classified error.
//
// # Packs
//
// The gateway registers 2 packs with 10 tools:
//
//	builtin:account - authenticate_user, logout, get_user_profile
//	builtin:travel  - hello_world, trip/event/notification tools
//
// # Error taxonomy
//
// Every tool failure carries exactly one Kind:
//
//	gate        - no live session; authenticate and retry
//	auth        - credentials rejected or the auth provider failed
//	validation  - malformed or missing arguments
//	store       - the hosted database rejected or failed the request
//	not_found   - the row is absent or belongs to another user
//
// Absent rows and other users' rows are deliberately indistinguishable, so
// a caller cannot probe for data it does not own.
//
// # Usage
//
// Create a registry, register packs, and dispatch:
//
//	registry := tools.NewRegistry(logger)
//	registry.RegisterPack(tools.AccountPack(provider))
//	registry.RegisterPack(tools.TravelPack(store))
//
//	dispatcher := tools.NewDispatcher(tools.DispatcherConfig{Registry: registry, Logger: logger})
//	result, err := dispatcher.Dispatch(ctx, gate, "get_trips", input)
package tools
