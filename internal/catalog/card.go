package catalog

// Rarity of a printed card as reported by the catalog service.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
	RarityMythic   Rarity = "mythic"
)

// Rarities lists the booster-relevant rarities in fetch order.
var Rarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityMythic}

// Color is a single color symbol from a card's color identity.
type Color string

const (
	ColorWhite Color = "W"
	ColorBlue  Color = "U"
	ColorBlack Color = "B"
	ColorRed   Color = "R"
	ColorGreen Color = "G"
)

// ColorOrder is the fixed collation order for color-balanced slots.
var ColorOrder = []Color{ColorWhite, ColorBlue, ColorBlack, ColorRed, ColorGreen}

// ImageURIs carries the image references of a printing. Opaque to the
// server; forwarded to clients as-is.
type ImageURIs struct {
	Small  string `json:"small,omitempty"`
	Normal string `json:"normal,omitempty"`
	Large  string `json:"large,omitempty"`
}

// Card is one immutable printing from the catalog. Different printings of
// the same named card share an oracle id.
type Card struct {
	ID        string     `json:"id"`
	OracleID  string     `json:"oracle_id,omitempty"`
	Name      string     `json:"name"`
	SetCode   string     `json:"set,omitempty"`
	Rarity    Rarity     `json:"rarity"`
	Colors    []Color    `json:"colors,omitempty"`
	TypeLine  string     `json:"type_line,omitempty"`
	Layout    string     `json:"layout,omitempty"`
	Side      string     `json:"side,omitempty"`
	ImageURIs *ImageURIs `json:"image_uris,omitempty"`
}

// OracleKey is the cross-printing grouping key: all reprints of the same
// card map to the same key. Falls back to name+set for records the
// catalog serves without an oracle id.
func (c Card) OracleKey() string {
	if c.OracleID != "" {
		return c.OracleID
	}
	return c.Name + "|" + c.SetCode
}

var nonPlayableLayouts = map[string]bool{
	"meld":               true,
	"token":              true,
	"emblem":             true,
	"art_series":         true,
	"double_faced_token": true,
}

// Playable reports whether this record can go into a pool: back faces of
// multi-faced cards and non-playable layouts are excluded.
func (c Card) Playable() bool {
	if c.Side == "b" {
		return false
	}
	return !nonPlayableLayouts[c.Layout]
}
