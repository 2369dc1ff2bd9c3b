// Package mock provides test doubles for the ai interfaces.
//
// The mocks generate deterministic embeddings (FNV-seeded vectors) so
// tests are repeatable without any external AI service, and expose
// function fields for injecting failures.
package mock
