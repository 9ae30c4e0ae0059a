package optname

const (
	ConnTimeout  = "connect-timeout"
	Force        = "force"
	LoggingLevel = "log-level"
	Retries      = "retries"
	Token        = "token"
	Verbose      = "verbose"
)
