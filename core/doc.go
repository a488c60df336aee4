// Package core contains the Quantcast client domain types, the failure
// taxonomy, shared contracts and configuration. Transport, auth and storage
// packages depend on core; core depends on none of them.
package core
