package packets

import (
	"database/sql"

	"github.com/fastprodman/redpacket/internal/repos/packets"
)

var _ packets.Packets = (*packetsRepo)(nil)

type packetsRepo struct{ db *sql.DB }

func New(db *sql.DB) *packetsRepo {
	return &packetsRepo{db: db}
}
