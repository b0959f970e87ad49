package domain

// Record is the shared data record both services read during a request:
// an addressable, owner-tagged byte blob kept by the ledger.
// A record that does not exist is represented with a zero Owner and no Data.
type Record struct {
	Address Identity
	Owner   Identity
	Data    []byte
}

func (r Record) DataLen() int  { return len(r.Data) }
func (r Record) IsEmpty() bool { return len(r.Data) == 0 }

// Snapshot captures the structural properties compared around a delegated call.
func (r Record) Snapshot() Snapshot {
	return Snapshot{Owner: r.Owner, DataLen: r.DataLen(), IsEmpty: r.IsEmpty()}
}

// Snapshot is comparable with ==.
type Snapshot struct {
	Owner   Identity
	DataLen int
	IsEmpty bool
}
