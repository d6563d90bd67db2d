package cardcrawl

// energyAlphabet maps icon tokens to the canonical energy characters.
var energyAlphabet = map[string]string{
	"grass":     "G",
	"fire":      "R",
	"water":     "W",
	"electric":  "L",
	"psychic":   "P",
	"fighting":  "F",
	"dark":      "D",
	"metal":     "M",
	"fairy":     "Y",
	"dragon":    "N",
	"colorless": "C",
	"none":      "C",
}

// DecodeEnergy returns the canonical character for an icon token such as
// "grass" (from the CSS class "icon-grass"). Unknown tokens return EICON.
func DecodeEnergy(token string) (string, error) {
	if c, ok := energyAlphabet[token]; ok {
		return c, nil
	}
	return "", Errorf(EICON, "unknown energy icon %q", token)
}
