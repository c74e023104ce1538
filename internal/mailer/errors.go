package mailer

// EmailError reports a failed enqueue or delivery of a welcome email.
type EmailError struct {
	Op  string
	Err error
}

func (e *EmailError) Error() string {
	return "mailer: " + e.Op + ": " + e.Err.Error()
}

func (e *EmailError) Unwrap() error {
	return e.Err
}
