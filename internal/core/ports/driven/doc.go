// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Loader / LoaderRegistry: Parses files into documents
//   - Splitter: Chunks document content
//   - EmbeddingService: Turns text into vectors
//   - VectorStore: Persists chunk vectors and serves similarity search
//
// # Optional Interfaces
//
//   - LLMService: Answer generation. Without it, queries return
//     retrieved chunks but no synthesised answer.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or loader package
package driven
