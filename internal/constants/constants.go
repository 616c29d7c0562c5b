package constants

// Session and context keys
const (
	SessionCookieName = "taskdeck_session"

	ContextKeyUserID = "user_id"

	SessionKeyUserID    = "user_id"
	SessionKeyUserEmail = "user_email"
	SessionKeyUserName  = "user_name"
)

// Demo-mode principal. Every request in demo mode runs as this user.
const (
	DemoUserID        = "demo-user"
	DemoUserEmail     = "demo@taskdeck.local"
	DemoUserFirstName = "Demo"
	DemoUserLastName  = "User"
)

const MinPasswordLength = 8
