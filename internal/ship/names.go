// Name generation for ships, decks, and rooms.
package ship

import (
	"fmt"
	"math/rand"
)

var shipPrefixes = []string{"SSV", "ISV", "CSV", "ESV"}

var shipNames = []string{
	"Meridian", "Thessaly", "Argosy", "Halcyon", "Caldera",
	"Vesper", "Aurora", "Kestrel", "Pelagia", "Cormorant",
	"Ironwake", "Solstice", "Tanager", "Windward", "Castellan",
	"Averill", "Boreas", "Cyrene", "Delphinus", "Eleutheria",
}

func generateShipName(rng *rand.Rand) string {
	prefix := shipPrefixes[rng.Intn(len(shipPrefixes))]
	name := shipNames[rng.Intn(len(shipNames))]
	return prefix + " " + name
}

// deckName labels decks alphabetically from the top, with role names
// for the command and engineering decks.
func deckName(level, numDecks int) string {
	if level == 0 {
		return "Command Deck"
	}
	if level == numDecks-1 && numDecks > 1 {
		return "Engineering Deck"
	}
	return fmt.Sprintf("Deck %c", 'A'+level)
}

func roomName(t RoomType, ordinal int) string {
	switch t {
	case RoomBridge, RoomGalley, RoomReactor, RoomLifeSupport, RoomObservatory:
		// Singular spaces don't get numbered.
		return TypeName(t)
	}
	return fmt.Sprintf("%s %d", TypeName(t), ordinal)
}
