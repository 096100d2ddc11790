package model

import "fmt"

// MonarchAction is an action the crown imposes on a colonial player.
type MonarchAction int

const (
	MonarchRaiseTaxAct MonarchAction = iota
	MonarchRaiseTaxWar
	MonarchForceTax
	MonarchLowerTaxWar
	MonarchLowerTaxOther
	MonarchWaiveTax
	MonarchAddToREF
	MonarchDeclarePeace
	MonarchDeclareWar
	MonarchSupportSea
	MonarchSupportLand
	MonarchOfferMercenaries
	MonarchDispleasure
	MonarchMercenaries
	MonarchHessianMercenaries
)

var monarchActionNames = [...]string{
	MonarchRaiseTaxAct:        "raiseTaxAct",
	MonarchRaiseTaxWar:        "raiseTaxWar",
	MonarchForceTax:           "forceTax",
	MonarchLowerTaxWar:        "lowerTaxWar",
	MonarchLowerTaxOther:      "lowerTaxOther",
	MonarchWaiveTax:           "waiveTax",
	MonarchAddToREF:           "addToREF",
	MonarchDeclarePeace:       "declarePeace",
	MonarchDeclareWar:         "declareWar",
	MonarchSupportSea:         "supportSea",
	MonarchSupportLand:        "supportLand",
	MonarchOfferMercenaries:   "offerMercenaries",
	MonarchDispleasure:        "displeasure",
	MonarchMercenaries:        "monarchMercenaries",
	MonarchHessianMercenaries: "hessianMercenaries",
}

func (a MonarchAction) String() string {
	if a < 0 || int(a) >= len(monarchActionNames) {
		return fmt.Sprintf("MonarchAction(%d)", int(a))
	}
	return monarchActionNames[a]
}

// ParseMonarchAction resolves a monarch action name.
func ParseMonarchAction(name string) (MonarchAction, error) {
	for i, n := range monarchActionNames {
		if n == name {
			return MonarchAction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown monarch action %q", name)
}
