package requests

// Flows - list all flows
type Flows struct{}
