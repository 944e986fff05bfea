package core

const (
	BurnOpCode uint32 = 0x595f07bc
	VoteOpCode uint8  = 0

	OffchainContentPrefix byte = 0x01

	MultisigQueryTimeout = 30 * 24 * 60 * 60 // 30 days
	ProtocolVersion      = 2

	EthAddressBits = 160
)
