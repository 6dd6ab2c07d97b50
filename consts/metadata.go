package consts

// GinContextKey gin context key
const GinContextKey = "gin-context"

// TraceKey request trace id header
const TraceKey string = "x-md-trace"

// UserEmailKey acting user email header
const UserEmailKey = "x-md-email"
