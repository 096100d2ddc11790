package colonynet

import "github.com/luciancaetano/colonynet/message"

// Message tags shared by both phases.
const (
	TagAddPlayer  = "addPlayer"
	TagChat       = "chat"
	TagDisconnect = "disconnect"
	TagError      = message.TagError
	TagLogout     = "logout"
	TagMultiple   = message.TagMultiple
	TagSuccess    = message.TagSuccess
)

// In-session message tags.
const (
	TagAddObject            = "addObject"
	TagAnimateAttack        = "animateAttack"
	TagAnimateMove          = "animateMove"
	TagChooseFoundingFather = "chooseFoundingFather"
	TagCloseMenus           = "closeMenus"
	TagDiplomacy            = "diplomacy"
	TagFeatureChange        = "featureChange"
	TagFirstContact         = "firstContact"
	TagFountainOfYouth      = "fountainOfYouth"
	TagGameEnded            = "gameEnded"
	TagIndianDemand         = "indianDemand"
	TagLootCargo            = "lootCargo"
	TagMonarchAction        = "monarchAction"
	TagNewLandName          = "newLandName"
	TagNewRegionName        = "newRegionName"
	TagNewTurn              = "newTurn"
	TagReconnect            = "reconnect"
	TagRemove               = "remove"
	TagSetAI                = "setAI"
	TagSetCurrentPlayer     = "setCurrentPlayer"
	TagSetDead              = "setDead"
	TagSetStance            = "setStance"
	TagSpyResult            = "spyResult"
	TagUpdate               = "update"
)

// Pre-session message tags.
const (
	TagPlayerReady               = "playerReady"
	TagRemovePlayer              = "removePlayer"
	TagSetAvailable              = "setAvailable"
	TagStartGame                 = "startGame"
	TagUpdateColor               = "updateColor"
	TagUpdateGame                = "updateGame"
	TagUpdateGameOptions         = "updateGameOptions"
	TagUpdateMapGeneratorOptions = "updateMapGeneratorOptions"
	TagUpdateNation              = "updateNation"
	TagUpdateNationType          = "updateNationType"
)

// Attribute names.
const (
	AttrFlush = "flush"
)

// Standard error messages
const (
	// Protocol errors
	ErrInvalidMessageFormat = "Invalid message format"

	// Connection errors
	ErrConnectionClosed     = "connection is closed"
	ErrContextCancelled     = "connection context cancelled"
	ErrFailedToEncode       = "failed to encode message"
	ErrServerAlreadyRunning = "server already running"
	ErrPeerNotFound         = "peer not found"
)
