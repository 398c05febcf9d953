// Package service contains the application's business logic, coordinating
// the domain model, the persistence stores, and the content generator. The
// central piece is the ContentService, which runs the credit-metered
// generation pipeline: validate, check balance, generate, then persist the
// record and debit the credits in a single transaction.
package service
