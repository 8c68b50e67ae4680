package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	IO              Category = "IO"
	Internal        Category = "Internal"
	Mongo           Category = "Mongo"
	RabbitMQ        Category = "RabbitMQ"
	Game            Category = "Game"
	Session         Category = "Session"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
	WebSocket       Category = "WebSocket"
)

const (
	// General
	Startup         SubCategory = "Startup"
	Shutdown        SubCategory = "Shutdown"
	RateLimiting    SubCategory = "RateLimiting"
	ExternalService SubCategory = "ExternalService"

	// Session
	Broadcast  SubCategory = "Broadcast"
	Membership SubCategory = "Membership"
	TimerTick  SubCategory = "TimerTick"

	// Game
	Lifecycle   SubCategory = "Lifecycle"
	Persistence SubCategory = "Persistence"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	ClientIp     ExtraKey = "ClientIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	RoomCode     ExtraKey = "RoomCode"
	PlayerId     ExtraKey = "PlayerId"
	Action       ExtraKey = "Action"
	ErrorMessage ExtraKey = "ErrorMessage"
)
