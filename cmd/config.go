package cmd

// Config carries the environment-sourced settings for the service. All values
// arrive as strings; numeric and duration fields are parsed where they are
// consumed.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr string

	CarrierDHLBaseURL   string
	CarrierUPSBaseURL   string
	CarrierFedexBaseURL string

	EmailGatewayURL  string
	EmailAPIKey      string
	EmailFromAddress string
	EmailFromName    string
	SMSGatewayURL    string
	SMSAuthToken     string
	SMSFromNumber    string
	PushGatewayURL   string
	PushAPIKey       string

	PickupLine1      string
	PickupCity       string
	PickupPostalCode string
	PickupRegion     string
	PickupCountry    string

	TrackingPollSchedule      string
	NotificationRetrySchedule string
	NotificationRetryAttempts string
	NotificationDedupeTTL     string
}
