package dispatch

import "github.com/luciancaetano/colonynet"

func (d *Dispatcher) baseTable() map[string]handlerFunc {
	return map[string]handlerFunc{
		colonynet.TagDisconnect: d.disconnect,
		colonynet.TagLogout:     d.logout,
		colonynet.TagMultiple:   d.multiple,
	}
}

func (d *Dispatcher) preSessionTable() map[string]handlerFunc {
	t := d.baseTable()
	t[colonynet.TagAddPlayer] = d.refreshing(d.addPlayer)
	t[colonynet.TagChat] = d.chat(d.pres.DisplayChat)
	t[colonynet.TagError] = d.serverError(d.pres.ShowError)
	t[colonynet.TagPlayerReady] = d.playerReady
	t[colonynet.TagRemovePlayer] = d.removePlayer
	t[colonynet.TagSetAvailable] = d.setAvailable
	t[colonynet.TagStartGame] = d.startGame
	t[colonynet.TagUpdateColor] = d.updateColor
	t[colonynet.TagUpdateGame] = d.updateGame
	t[colonynet.TagUpdateGameOptions] = d.updateGameOptions
	t[colonynet.TagUpdateMapGeneratorOptions] = d.updateMapGeneratorOptions
	t[colonynet.TagUpdateNation] = d.updateNation
	t[colonynet.TagUpdateNationType] = d.updateNationType
	return t
}

func (d *Dispatcher) inSessionTable() map[string]handlerFunc {
	t := d.baseTable()
	t[colonynet.TagAddPlayer] = d.addPlayer
	t[colonynet.TagChat] = d.chat(d.ctrl.Chat)
	t[colonynet.TagError] = d.serverError(d.ctrl.Error)
	t[colonynet.TagAddObject] = d.addObject
	t[colonynet.TagAnimateAttack] = d.animateAttack
	t[colonynet.TagAnimateMove] = d.animateMove
	t[colonynet.TagChooseFoundingFather] = d.chooseFoundingFather
	t[colonynet.TagCloseMenus] = d.closeMenus
	t[colonynet.TagDiplomacy] = d.diplomacy
	t[colonynet.TagFeatureChange] = d.featureChange
	t[colonynet.TagFirstContact] = d.firstContact
	t[colonynet.TagFountainOfYouth] = d.fountainOfYouth
	t[colonynet.TagGameEnded] = d.gameEnded
	t[colonynet.TagIndianDemand] = d.indianDemand
	t[colonynet.TagLootCargo] = d.lootCargo
	t[colonynet.TagMonarchAction] = d.monarchAction
	t[colonynet.TagNewLandName] = d.newLandName
	t[colonynet.TagNewRegionName] = d.newRegionName
	t[colonynet.TagNewTurn] = d.newTurn
	t[colonynet.TagReconnect] = d.reconnect
	t[colonynet.TagRemove] = d.remove
	t[colonynet.TagSetAI] = d.setAI
	t[colonynet.TagSetCurrentPlayer] = d.setCurrentPlayer
	t[colonynet.TagSetDead] = d.setDead
	t[colonynet.TagSetStance] = d.setStance
	t[colonynet.TagSpyResult] = d.spyResult
	t[colonynet.TagUpdate] = d.update
	return t
}
