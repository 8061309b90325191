// Package logstore persists the delivery log for dispatched notifications.
// The router writes a record per external send; the webhook reconciler looks
// records up by the provider message id and advances their delivery status as
// provider callbacks arrive.
package logstore
