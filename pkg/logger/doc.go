// Package logger configures slog for the dispatch pipeline and keeps
// attribute naming consistent through helper constructors (CorrelationID,
// Channel, NotificationType and friends). Context extractors let request
// scoped values flow into every record without threading them by hand.
//
//	log := logger.New(logger.WithProduction("notification-dispatch"))
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "notification dispatched",
//		logger.CorrelationID(correlationID),
//		logger.Channel(ch),
//		logger.Duration(time.Since(start)),
//	)
package logger
