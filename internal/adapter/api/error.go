package api

// Error is the single error shape every failed request is normalized into.
// Message is user-facing and fixed per failure class (see the domain
// message constants); the UI shows it verbatim.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
