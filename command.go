package registers

// Command describes an invocable operation on a peripheral: an identifier
// followed by a parameter payload, answered by a response payload. The
// response type is chosen by the caller at the invoke site, so a command
// without a response pairs naturally with NoParams.
type Command interface {
	// CommandID returns the identifier written ahead of the parameters.
	CommandID() ID
	// Params returns the invocation parameters. The helpers call it exactly
	// once per invocation, immediately before serialization.
	Params() Encoder
}
