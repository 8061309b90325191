// Package redis connects the client shared by the idempotency and activity
// stores. Connection setup retries so a restarting Redis does not take the
// dispatcher down with it.
package redis
