// Package domain defines the core business entities for retweever.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Item: A normalised tweet or profile extracted from an archive payload
//   - ChainEntry: One node visited during a conversation walk
//   - Conversation: The ordered ancestry walk out from a seed status
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
