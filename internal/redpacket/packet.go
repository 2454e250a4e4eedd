package redpacket

// Packet is one funded, bounded-claim distribution.
//
// Amounts are int64 minor units (the smallest indivisible unit of value).
// For every observable Packet:
//
//	TotalAmount == RemainingAmount + sum(Claims)
//	TotalCount  == RemainingCount + len(Claims)
//	Finished    == (RemainingCount == 0) == (RemainingAmount == 0)
type Packet struct {
	ID              uint64
	Creator         string
	TotalAmount     int64
	TotalCount      int64
	RemainingAmount int64
	RemainingCount  int64
	Finished        bool
	Claims          map[string]int64 // claimant -> amount, write-once
}

// NewPacket returns an active packet holding the whole deposit.
func NewPacket(id uint64, creator string, count, amount int64) *Packet {
	return &Packet{
		ID:              id,
		Creator:         creator,
		TotalAmount:     amount,
		TotalCount:      count,
		RemainingAmount: amount,
		RemainingCount:  count,
		Claims:          make(map[string]int64, count),
	}
}

// HasClaimed reports whether identity already took a share.
func (p *Packet) HasClaimed(identity string) bool {
	_, ok := p.Claims[identity]
	return ok
}

// Snapshot returns the read-only view of p.
func (p *Packet) Snapshot() Snapshot {
	return Snapshot{
		ID:              p.ID,
		Creator:         p.Creator,
		TotalAmount:     p.TotalAmount,
		TotalCount:      p.TotalCount,
		RemainingAmount: p.RemainingAmount,
		RemainingCount:  p.RemainingCount,
		Finished:        p.Finished,
	}
}

// Snapshot is what query returns for a packet.
type Snapshot struct {
	ID              uint64 `json:"id"`
	Creator         string `json:"creator"`
	TotalAmount     int64  `json:"totalAmount"`
	TotalCount      int64  `json:"totalCount"`
	RemainingAmount int64  `json:"remainingAmount"`
	RemainingCount  int64  `json:"remainingCount"`
	Finished        bool   `json:"finished"`
}
