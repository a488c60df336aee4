// Package queries holds the static GraphQL documents sent to the Quantcast
// API. Documents are assembled from shared field selections.
package queries
