package cardcrawl

// MainType is the top-level kind of a card.
type MainType string

// MainType constants.
const (
	MainPokemon MainType = "pokemon"
	MainTrainer MainType = "trainer"
	MainEnergy  MainType = "energy"
)

// SubType refines a non-pokemon MainType.
type SubType string

// SubType constants.
const (
	SubBasic            SubType = "basic"
	SubSpecial          SubType = "special"
	SubSupporter        SubType = "supporter"
	SubItem             SubType = "item"
	SubStadium          SubType = "stadium"
	SubTechnicalMachine SubType = "technical_machine"
)

// Fixed values for fields the parser never varies.
const (
	CategoryNormal = "normal"
	LayoutNormal   = "normal"
	LangJA         = "ja"
)

// CardType is the {main, sub} pair derived from the card's type line.
type CardType struct {
	Main MainType `json:"main"`
	Sub  SubType  `json:"sub,omitempty"`
}

// Ability is a named passive effect printed on a pokemon.
type Ability struct {
	Name   string `json:"name"`
	Effect string `json:"effect"`
}

// Attack is one printed attack. Cost is a string of energy characters.
type Attack struct {
	Cost   string `json:"cost"`
	Name   string `json:"name"`
	Damage string `json:"damage,omitempty"`
	Effect string `json:"effect"`
}

// VstarPowerType tells whether a VSTAR power is shaped like an ability or an attack.
type VstarPowerType string

// VstarPowerType constants.
const (
	VstarAbility VstarPowerType = "ability"
	VstarAttack  VstarPowerType = "attack"
)

// VstarPower is the once-per-game power of a VSTAR pokemon.
// Cost and Damage are only set for attack-shaped powers.
type VstarPower struct {
	Type   VstarPowerType `json:"type"`
	Cost   string         `json:"cost,omitempty"`
	Name   string         `json:"name"`
	Damage string         `json:"damage,omitempty"`
	Effect string         `json:"effect"`
}

// Modifier is a weakness or resistance entry.
type Modifier struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Pokedex holds the pokedex block printed under the card's stats.
type Pokedex struct {
	Number   int    `json:"number,omitempty"`
	Category string `json:"category,omitempty"`
	Height   string `json:"height,omitempty"`
	Weight   string `json:"weight,omitempty"`
}

// Card is a normalized card record. It is built once per page and not
// modified afterwards.
type Card struct {
	Lang   string `json:"lang"`
	Set    string `json:"set"`
	Number string `json:"number"`

	Name       string   `json:"name"`
	Text       string   `json:"text"`
	EvolveFrom string   `json:"evolveFrom,omitempty"`
	Type       CardType `json:"type"`

	HP    *int   `json:"hp,omitempty"`
	Stage string `json:"stage,omitempty"`
	Types string `json:"types,omitempty"`
	Level *int   `json:"level,omitempty"`

	Abilities  []Ability   `json:"abilities,omitempty"`
	Attacks    []Attack    `json:"attacks,omitempty"`
	VstarPower *VstarPower `json:"vstarPower,omitempty"`
	Rule       string      `json:"rule,omitempty"`

	Weakness   *Modifier `json:"weakness,omitempty"`
	Resistance *Modifier `json:"resistance,omitempty"`
	Retreat    *int      `json:"retreat,omitempty"`

	Category string   `json:"category"`
	Tags     []string `json:"tags"`

	Layout string `json:"layout"`
	Rarity string `json:"rarity"`

	Pokedex    *Pokedex `json:"pokedex,omitempty"`
	FlavorText string   `json:"flavorText,omitempty"`

	Artist      []string `json:"artist"`
	ReleaseDate string   `json:"releaseDate"`

	ImageURL       string `json:"imageUrl"`
	SetImageURL    string `json:"setImageUrl,omitempty"`
	RarityImageURL string `json:"rarityImageUrl,omitempty"`

	JPID     int    `json:"jpId"`
	SetTotal string `json:"setTotal,omitempty"`
}

// Validate returns an error if the card breaks a record invariant.
func (c *Card) Validate() error {
	if c.Name == "" {
		return Errorf(EINVALID, "card %d: name required", c.JPID)
	}
	if c.Type.Main == "" {
		return Errorf(EINVALID, "card %d: main type required", c.JPID)
	}
	if c.Type.Main != MainPokemon {
		if c.HP != nil || c.Level != nil || c.Stage != "" || c.Types != "" ||
			len(c.Abilities) > 0 || len(c.Attacks) > 0 || c.Pokedex != nil {
			return Errorf(EINVALID, "card %d: %s card carries pokemon attributes", c.JPID, c.Type.Main)
		}
	}
	return nil
}
