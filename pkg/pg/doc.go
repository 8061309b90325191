// Package pg establishes the PostgreSQL connection pool backing the delivery
// log. Connection setup retries with backoff so a restarting database does not
// take the dispatcher down with it.
package pg
