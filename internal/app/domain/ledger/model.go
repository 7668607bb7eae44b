package ledger

// State tracks the cumulative aura given away and received through peer
// sharing. Both totals only ever grow; sharing is irreversible within a
// session.
type State struct {
	Shared   int
	Received int
}
