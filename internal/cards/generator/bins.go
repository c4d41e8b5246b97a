package generator

import (
	"github.com/allisson/cardvault/internal/cards/domain"
	"github.com/allisson/cardvault/internal/errors"
	"github.com/allisson/cardvault/internal/luhn"
)

// BinTables maps each card network to the pool of 4-digit BIN prefixes used
// for synthesis. The table is built once at startup and shared read-only by
// all generation calls.
type BinTables map[domain.CardType][]string

// DefaultBinTables returns the built-in BIN prefix pools.
func DefaultBinTables() BinTables {
	return BinTables{
		domain.CardTypeVisa:       {"4532", "4539", "4556", "4916", "4929", "4485", "4716"},
		domain.CardTypeMastercard: {"5123", "5234", "5452", "5567", "5187", "5289", "5445"},
		domain.CardTypeDiscover:   {"6011", "6441", "6442", "6443", "6444", "6445", "6446", "6447", "6448", "6449"},
		domain.CardTypeJCB:        {"3528", "3529", "3530", "3531", "3532", "3533", "3534", "3535"},
	}
}

// Validate checks that every supported card type has at least one prefix and
// that every prefix is a 4-digit string.
func (t BinTables) Validate() error {
	for _, cardType := range domain.CardTypes {
		prefixes, ok := t[cardType]
		if !ok || len(prefixes) == 0 {
			return errors.Wrap(errors.ErrInvalidInput, "bin table has no prefixes for "+string(cardType))
		}
		for _, prefix := range prefixes {
			if len(prefix) != 4 || !luhn.IsDigits(prefix) {
				return errors.Wrap(errors.ErrInvalidInput, "bin prefix must be a 4-digit string: "+prefix)
			}
		}
	}
	return nil
}
