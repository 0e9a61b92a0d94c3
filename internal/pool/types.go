package pool

// Assignment is a unit of work handed out by the pool: a key-space range to
// search plus bookkeeping fields echoed back in logs.
type Assignment struct {
	ID                 string   `json:"id"`
	Status             string   `json:"status"`
	Range              *Range   `json:"range"`
	CheckworkAddresses []string `json:"checkwork_addresses,omitempty"`
}

// Range is the inclusive key-space interval to search. Bounds are numeric
// strings passed through to the miner untouched.
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Valid reports whether both bounds are present.
func (r *Range) Valid() bool {
	return r != nil && r.Start != "" && r.End != ""
}

// submitRequest is the POST body for a key submission.
type submitRequest struct {
	PrivateKeys []string `json:"privateKeys"`
}
