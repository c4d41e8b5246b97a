// Package generator synthesizes checksum-valid payment card test records.
// Card numbers are built from a per-network BIN prefix, padded with random
// digits and closed with a Luhn check digit; expiry and CVV are synthetic and
// carry no issuer-derived relationship to the number.
package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/allisson/cardvault/internal/cards/domain"
	"github.com/allisson/cardvault/internal/errors"
	"github.com/allisson/cardvault/internal/luhn"
)

// MixedCardTypes requests a batch where each card draws its network
// independently from the supported set.
const MixedCardTypes = "mixed"

// cardNumberLen is the full card number length including the check digit.
const cardNumberLen = 16

// randSource abstracts the random number source so tests can seed it.
// The default source is the shared top-level generator, which is safe for
// concurrent use.
type randSource interface {
	IntN(n int) int
}

// globalRand delegates to math/rand/v2 package-level functions.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Option configures a Generator.
type Option func(*Generator)

// WithRand replaces the random source. Intended for deterministic tests; the
// replacement is not required to be safe for concurrent use.
func WithRand(src randSource) Option {
	return func(g *Generator) { g.rand = src }
}

// WithNow replaces the clock used for expiry synthesis.
func WithNow(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// Generator synthesizes card records from a fixed BIN table.
type Generator struct {
	tables BinTables
	rand   randSource
	now    func() time.Time
}

// NewGenerator creates a Generator over the given BIN tables.
func NewGenerator(tables BinTables, opts ...Option) (*Generator, error) {
	if err := tables.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid bin tables")
	}

	g := &Generator{
		tables: tables,
		rand:   globalRand{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate synthesizes a single card record for the given network.
func (g *Generator) Generate(cardType domain.CardType) (*domain.Card, error) {
	prefixes, ok := g.tables[cardType]
	if !ok {
		return nil, errors.Wrap(domain.ErrUnsupportedCardType, string(cardType))
	}

	number := g.generateNumber(prefixes)
	for !luhn.Valid(number) {
		// Unreachable with correct check digit math; regenerate rather than
		// ever emitting an invalid number.
		number = g.generateNumber(prefixes)
	}

	card := &domain.Card{
		CardType:    cardType,
		CardNumber:  number,
		ExpireMonth: fmt.Sprintf("%02d", 1+g.rand.IntN(12)),
		ExpireYear:  fmt.Sprintf("%d", g.now().Year()+1+g.rand.IntN(5)),
		CVV:         fmt.Sprintf("%d", 100+g.rand.IntN(900)),
	}
	card.RefreshFormattedInfo()
	return card, nil
}

// GenerateBatch synthesizes count card records. The cardType string is either
// a supported network name (case-insensitive) or MixedCardTypes, in which case
// every card draws its network independently. A non-positive count yields an
// empty batch.
func (g *Generator) GenerateBatch(count int, cardType string) ([]*domain.Card, error) {
	mixed := strings.EqualFold(strings.TrimSpace(cardType), MixedCardTypes)

	var fixedType domain.CardType
	if !mixed {
		parsed, err := domain.ParseCardType(cardType)
		if err != nil {
			return nil, err
		}
		fixedType = parsed
	}

	if count <= 0 {
		return []*domain.Card{}, nil
	}

	cards := make([]*domain.Card, 0, count)
	for i := 0; i < count; i++ {
		cardType := fixedType
		if mixed {
			cardType = domain.CardTypes[g.rand.IntN(len(domain.CardTypes))]
		}

		card, err := g.Generate(cardType)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// generateNumber picks a BIN prefix, pads with random digits to 15 and
// appends the Luhn check digit.
func (g *Generator) generateNumber(prefixes []string) string {
	var sb strings.Builder
	sb.Grow(cardNumberLen)
	sb.WriteString(prefixes[g.rand.IntN(len(prefixes))])
	for sb.Len() < cardNumberLen-1 {
		sb.WriteByte('0' + byte(g.rand.IntN(10)))
	}

	body := sb.String()
	return body + string(luhn.CheckDigit(body))
}
