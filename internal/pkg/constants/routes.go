package constants

// Static route constants
const (
	APIRoute          = "/api"
	LencoWebhookRoute = "/api/webhooks/lenco"
	MetricsRoute      = "/metrics"
)
