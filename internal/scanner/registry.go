package scanner

import (
	"github.com/2ykwang/fitmac/internal/dupes"
	"github.com/2ykwang/fitmac/internal/inventory"
)

// DefaultRegistry registers one scanner per category over inv.
func DefaultRegistry(inv *inventory.Inventory) *Registry {
	r := NewRegistry()
	r.Register(NewCacheScanner(inv))
	r.Register(NewJunkScanner(inv))
	r.Register(NewBrewScanner(inv))
	r.Register(NewLanguageScanner(inv))
	r.Register(NewMailScanner(inv))
	r.Register(NewTrashScanner(inv))
	r.Register(NewLoginItemsScanner(inv))
	r.Register(NewSystemAppsScanner(inv))
	r.Register(NewDuplicatesScanner(inv, dupes.NewOS()))
	r.Register(NewLargeScanner())
	r.Register(NewLeftoversScanner(inv))
	r.Register(NewITunesScanner(inv))
	return r
}
