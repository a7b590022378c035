// Package requestid correlates debug API requests with their log records.
//
// Middleware assigns every request an ID, taken from a valid X-Request-ID
// header or generated as a UUIDv7, and LoggerExtractor puts it on log
// records:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware)
package requestid
