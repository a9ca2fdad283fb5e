// Package protocol defines the wire vocabulary of the line protocol:
// snapshot codes, error codes, game enums and the command tokenizer.
package protocol

// ProtocolVersion is sent in the PSERVER handshake reply. Clients announcing
// a version below VersionCompat are rejected with ErrWrongVersion.
const (
	ProtocolVersion = 1002
	VersionCompat   = 1000
)

// SnapCode identifies the kind of a SNAP message.
type SnapCode int

const (
	SnapGameState SnapCode = iota + 1
	SnapTable
	SnapCards
	SnapPlayerCurrent
	SnapPlayerAction
	SnapPlayerShow
	SnapWinPot
	SnapOddChips
	SnapWinAmount
	SnapStakeChange
	SnapRespite
	SnapFoyer
	SnapBuyInsurance
	SnapInsuranceBenefits
	SnapWantToStraddleNextRound
)

// SnapGameState sub-codes.
const (
	GameStateNewHand = iota + 1
	GameStateStart
	GameStateEnd
	GameStateBroke
	GameStatePause
	GameStateResume
	GameStateBlinds
	GameStateTableSuspend
	GameStateTableResume
)

// SnapCards sub-codes.
const (
	CardsHole = iota + 1
	CardsFlop
	CardsTurn
	CardsRiver
)

// SnapPlayerAction sub-codes.
const (
	ActionFolded = iota + 1
	ActionChecked
	ActionCalled
	ActionBet
	ActionRaised
	ActionAllin
)

// SnapFoyer sub-codes.
const (
	FoyerJoin = iota + 1
	FoyerLeave
)

// Reply codes for OK/ERR lines.
const (
	CodeOK = iota
	ErrGeneric
	ErrWrongVersion
	ErrProtocol
	ErrParameters
	ErrNoPermission
	ErrNotImplemented
)

// Game type, mode and state as rendered in GAMEINFO.
const (
	GameTypeHoldem = 1
)

const (
	GameModeRingGame = iota + 1
	GameModeFreezeOut
	GameModeSNG
)

const (
	GameInfoWaiting = iota + 1
	GameInfoStarted
	GameInfoEnded
	GameInfoPaused
)

// GAMEINFO flag bits.
const (
	GameFlagRegistered = 1 << iota
	GameFlagPassword
	GameFlagRestart
	GameFlagOwner
	GameFlagSubscribed
)

// Seat state bits inside the table snapshot.
const (
	PlayerStateInRound = 1 << iota
	PlayerStateSitout
	PlayerStateWannaLeave
)

// SERVERINFO statistic ids.
const (
	StatsServerStarted = iota + 1
	StatsClientsConnected
	StatsClientsIntroduced
	StatsClientsIncompatible
	StatsGamesCreated
	StatsClientCount
	StatsGamesCount
	StatsConarchiveCount
)
