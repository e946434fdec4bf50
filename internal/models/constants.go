package models

const (
	OrderStatusReceived = "received"
	OrderStatusPrepared = "prepared"
	OrderStatusPickedUp = "picked_up"

	DriverStatusDispatched = "dispatched"
	DriverStatusArrived    = "arrived"
	DriverStatusPickedUp   = "picked_up"

	MatchModeMatched   = "matched"
	MatchModeUnmatched = "unmatched"

	OutputConsole  = "console"
	OutputJSON     = "json"
	OutputCSV      = "csv"
	OutputParquet  = "parquet"
	OutputPostgres = "postgres"
	OutputNone     = "none"
)
