// Package domain defines the core business entities of the Velvet API:
// users with credit balances, content generation requests and results,
// and the persisted generation records. Entities validate themselves;
// persistence and transport concerns live elsewhere.
package domain
